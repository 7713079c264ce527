package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/KundeServices/booking-gateway/internal/httperr"
)

const (
	graphBaseURL = "https://graph.microsoft.com/v1.0"
	loginBaseURL = "https://login.microsoftonline.com"

	maxReadRetries = 3
)

// GraphCalendars implementa Calendars contra a REST API do Microsoft Graph
// (calendários de usuário + MS Bookings). Escritas nunca são repetidas;
// leituras idempotentes têm retry limitado com backoff.
type GraphCalendars struct {
	tenantID     string
	clientID     string
	clientSecret string

	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExp    time.Time
}

func NewGraphCalendars(tenantID, clientID, clientSecret string, timeout time.Duration) *GraphCalendars {
	return &GraphCalendars{
		tenantID:     tenantID,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// ===============================
// Token (client credentials)
// ===============================

func (g *GraphCalendars) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accessToken != "" && time.Now().Before(g.tokenExp) {
		return g.accessToken, nil
	}

	form := url.Values{
		"client_id":     {g.clientID},
		"client_secret": {g.clientSecret},
		"scope":         {"https://graph.microsoft.com/.default"},
		"grant_type":    {"client_credentials"},
	}

	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", loginBaseURL, g.tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("token request failed (%d): %s", resp.StatusCode, body)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}

	g.accessToken = tok.AccessToken
	// renova 1 min antes de expirar
	g.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)

	return g.accessToken, nil
}

// ===============================
// HTTP
// ===============================

func (g *GraphCalendars) doJSON(ctx context.Context, method, path string, in, out any) error {
	var lastErr error

	attempts := 1
	if method == http.MethodGet {
		attempts = maxReadRetries
	}

	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(250*(1<<(i-1))) * time.Millisecond):
			}
		}

		lastErr = g.doOnce(ctx, method, path, in, out)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
	}

	return lastErr
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("graph: status %d: %s", e.status, e.body)
}

func retryable(err error) bool {
	var se *statusError
	if asStatus(err, &se) {
		return se.status == http.StatusTooManyRequests || se.status >= 500
	}
	// erros de rede/timeout são retentáveis para leituras
	return true
}

func asStatus(err error, target **statusError) bool {
	se, ok := err.(*statusError)
	if ok {
		*target = se
	}
	return ok
}

func (g *GraphCalendars) doOnce(ctx context.Context, method, path string, in, out any) error {
	tok, err := g.token(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, graphBaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Prefer", `outlook.timezone="UTC"`)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &statusError{status: resp.StatusCode, body: string(raw)}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// ===============================
// Eventos
// ===============================

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

func toGraphTime(t time.Time) graphDateTime {
	return graphDateTime{
		DateTime: t.UTC().Format("2006-01-02T15:04:05"),
		TimeZone: "UTC",
	}
}

func fromGraphTime(dt graphDateTime) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", strings.SplitN(dt.DateTime, ".", 2)[0])
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

type graphEvent struct {
	ID       string        `json:"id"`
	Subject  string        `json:"subject"`
	Start    graphDateTime `json:"start"`
	End      graphDateTime `json:"end"`
	ShowAs   string        `json:"showAs"`
	Type     string        `json:"type"`
	SeriesID string        `json:"seriesMasterId"`
}

func (e graphEvent) toEvent() Event {
	return Event{
		ID:        e.ID,
		Subject:   e.Subject,
		Start:     fromGraphTime(e.Start),
		End:       fromGraphTime(e.End),
		ShowAs:    ShowAs(e.ShowAs),
		Recurring: e.Type == "occurrence" || e.Type == "seriesMaster",
		SeriesID:  e.SeriesID,
	}
}

func (g *GraphCalendars) ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]Event, error) {
	path := fmt.Sprintf(
		"/users/%s/calendar/calendarView?startDateTime=%s&endDateTime=%s&$select=id,subject,start,end,showAs,type,seriesMasterId&$top=200",
		url.PathEscape(calendarID),
		url.QueryEscape(from.UTC().Format(time.RFC3339)),
		url.QueryEscape(to.UTC().Format(time.RFC3339)),
	)

	var out struct {
		Value []graphEvent `json:"value"`
	}
	if err := g.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, httperr.ErrProvider("list events", calendarID, err)
	}

	events := make([]Event, 0, len(out.Value))
	for _, e := range out.Value {
		events = append(events, e.toEvent())
	}
	return events, nil
}

func (g *GraphCalendars) HasConflict(ctx context.Context, calendarID string, start, end time.Time, tentativeBlocks bool) (bool, error) {
	events, err := g.ListEvents(ctx, calendarID, start, end)
	if err != nil {
		return false, err
	}

	for _, ev := range events {
		if Blocks(ev.ShowAs, tentativeBlocks) {
			return true, nil
		}
	}
	return false, nil
}

// Blocks decide se um status de evento bloqueia o slot. Eventos "free"
// nunca bloqueiam; "tentative" depende da política.
func Blocks(s ShowAs, tentativeBlocks bool) bool {
	switch s {
	case ShowAsFree:
		return false
	case ShowAsTentative:
		return tentativeBlocks
	default:
		return true
	}
}

func (g *GraphCalendars) CreateEvent(ctx context.Context, calendarID string, spec EventSpec) (string, error) {
	showAs := spec.ShowAs
	if showAs == "" {
		showAs = ShowAsBusy
	}

	payload := map[string]any{
		"subject": spec.Subject,
		"body": map[string]any{
			"contentType": "HTML",
			"content":     spec.Body,
		},
		"start":  toGraphTime(spec.Start),
		"end":    toGraphTime(spec.End),
		"showAs": string(showAs),
	}
	if spec.AttendeeEmail != "" {
		payload["attendees"] = []map[string]any{{
			"emailAddress": map[string]string{
				"address": spec.AttendeeEmail,
				"name":    spec.AttendeeName,
			},
			"type": "required",
		}}
	}

	var out struct {
		ID string `json:"id"`
	}
	path := fmt.Sprintf("/users/%s/calendar/events", url.PathEscape(calendarID))
	if err := g.doJSON(ctx, http.MethodPost, path, payload, &out); err != nil {
		return "", httperr.ErrProvider("create event", calendarID, err)
	}
	return out.ID, nil
}

func (g *GraphCalendars) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	path := fmt.Sprintf("/users/%s/events/%s", url.PathEscape(calendarID), url.PathEscape(eventID))
	if err := g.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return httperr.ErrProvider("delete event", calendarID, err)
	}
	return nil
}

// ===============================
// MS Bookings
// ===============================

func (g *GraphCalendars) GetBusinessHours(ctx context.Context, calendarID string) ([]DayHours, error) {
	var out struct {
		BusinessHours []struct {
			Day       string `json:"day"`
			TimeSlots []struct {
				StartTime string `json:"startTime"`
				EndTime   string `json:"endTime"`
			} `json:"timeSlots"`
		} `json:"businessHours"`
	}

	path := fmt.Sprintf("/solutions/bookingBusinesses/%s", url.PathEscape(calendarID))
	if err := g.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, httperr.ErrProvider("get business hours", calendarID, err)
	}

	var hours []DayHours
	for _, bh := range out.BusinessHours {
		wd, ok := weekdayByName[strings.ToLower(bh.Day)]
		if !ok {
			continue
		}

		dh := DayHours{Weekday: wd}
		for _, ts := range bh.TimeSlots {
			dh.Windows = append(dh.Windows, HM{
				Start: trimSeconds(ts.StartTime),
				End:   trimSeconds(ts.EndTime),
			})
		}
		if len(dh.Windows) > 0 {
			hours = append(hours, dh)
		}
	}
	return hours, nil
}

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// trimSeconds corta "09:00:00.0000000" para "09:00".
func trimSeconds(hm string) string {
	if len(hm) > 5 {
		return hm[:5]
	}
	return hm
}

func (g *GraphCalendars) RecurringPattern(ctx context.Context, calendarID, marker string, from, to time.Time) ([]PatternWindow, error) {
	events, err := g.ListEvents(ctx, calendarID, from, to)
	if err != nil {
		return nil, err
	}
	return PatternFromEvents(events, marker), nil
}

// PatternFromEvents minera janelas recorrentes de disponibilidade: eventos
// cujo subject contém o marker e cujo status não é busy. Convenção externa
// de dados; o resolver não conhece parsing de strings.
func PatternFromEvents(events []Event, marker string) []PatternWindow {
	var windows []PatternWindow
	seen := make(map[string]bool)

	for _, ev := range events {
		if marker == "" || !strings.Contains(ev.Subject, marker) {
			continue
		}
		if ev.ShowAs != ShowAsFree && ev.ShowAs != ShowAsTentative {
			continue
		}

		key := fmt.Sprintf("%d|%s|%s",
			ev.Start.Weekday(),
			ev.Start.Format("15:04"),
			ev.End.Format("15:04"),
		)
		if seen[key] {
			continue
		}
		seen[key] = true

		series := ev.SeriesID
		if series == "" {
			series = ev.ID
		}

		windows = append(windows, PatternWindow{
			Weekday:  ev.Start.Weekday(),
			Start:    ev.Start.Format("15:04"),
			End:      ev.End.Format("15:04"),
			SeriesID: series,
		})
	}
	return windows
}

func (g *GraphCalendars) CreateAppointment(ctx context.Context, businessID string, spec AppointmentSpec) (string, error) {
	payload := map[string]any{
		"serviceId": spec.ServiceID,
		"startDateTime": map[string]string{
			"dateTime": spec.Start.UTC().Format(time.RFC3339),
			"timeZone": "UTC",
		},
		"endDateTime": map[string]string{
			"dateTime": spec.End.UTC().Format(time.RFC3339),
			"timeZone": "UTC",
		},
		"customerName":         spec.CustomerName,
		"customerEmailAddress": spec.CustomerEmail,
		"customerPhone":        spec.CustomerPhone,
	}
	if spec.StaffMemberID != "" {
		payload["staffMemberIds"] = []string{spec.StaffMemberID}
	}

	var out struct {
		ID string `json:"id"`
	}
	path := fmt.Sprintf("/solutions/bookingBusinesses/%s/appointments", url.PathEscape(businessID))
	if err := g.doJSON(ctx, http.MethodPost, path, payload, &out); err != nil {
		return "", httperr.ErrProvider("create appointment", businessID, err)
	}
	return out.ID, nil
}

func (g *GraphCalendars) CancelAppointment(ctx context.Context, businessID, appointmentID, message string) error {
	payload := map[string]string{"cancellationMessage": message}

	path := fmt.Sprintf(
		"/solutions/bookingBusinesses/%s/appointments/%s/cancel",
		url.PathEscape(businessID),
		url.PathEscape(appointmentID),
	)
	if err := g.doJSON(ctx, http.MethodPost, path, payload, nil); err != nil {
		return httperr.ErrProvider("cancel appointment", businessID, err)
	}
	return nil
}

func (g *GraphCalendars) SendMail(ctx context.Context, mailbox string, mail Mail) error {
	payload := map[string]any{
		"message": map[string]any{
			"subject": mail.Subject,
			"body": map[string]string{
				"contentType": "HTML",
				"content":     mail.HTML,
			},
			"toRecipients": []map[string]any{{
				"emailAddress": map[string]string{
					"address": mail.To,
					"name":    mail.ToName,
				},
			}},
		},
		"saveToSentItems": true,
	}

	path := fmt.Sprintf("/users/%s/sendMail", url.PathEscape(mailbox))
	if err := g.doJSON(ctx, http.MethodPost, path, payload, nil); err != nil {
		return httperr.ErrProvider("send mail", mailbox, err)
	}
	return nil
}

var _ Calendars = (*GraphCalendars)(nil)
