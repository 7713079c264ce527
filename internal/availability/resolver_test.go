package availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KundeServices/booking-gateway/internal/config"
	"github.com/KundeServices/booking-gateway/internal/httperr"
	"github.com/KundeServices/booking-gateway/internal/models"
	"github.com/KundeServices/booking-gateway/internal/provider"
	"github.com/KundeServices/booking-gateway/internal/slots"
)

// ===============================
// fake provider
// ===============================

type interval struct {
	start, end time.Time
}

type fakeCalendars struct {
	mu sync.Mutex

	busy      map[string][]interval
	tentative map[string][]interval
	failing   map[string]bool
	hours     map[string][]provider.DayHours

	conflictCalls int
}

func newFakeCalendars() *fakeCalendars {
	return &fakeCalendars{
		busy:      make(map[string][]interval),
		tentative: make(map[string][]interval),
		failing:   make(map[string]bool),
		hours:     make(map[string][]provider.DayHours),
	}
}

func (f *fakeCalendars) addBusy(calendarID string, start, end time.Time) {
	f.busy[calendarID] = append(f.busy[calendarID], interval{start, end})
}

func (f *fakeCalendars) addTentative(calendarID string, start, end time.Time) {
	f.tentative[calendarID] = append(f.tentative[calendarID], interval{start, end})
}

func overlaps(iv interval, start, end time.Time) bool {
	return start.Before(iv.end) && iv.start.Before(end)
}

func (f *fakeCalendars) HasConflict(_ context.Context, calendarID string, start, end time.Time, tentativeBlocks bool) (bool, error) {
	f.mu.Lock()
	f.conflictCalls++
	f.mu.Unlock()

	if f.failing[calendarID] {
		return false, errors.New("provider unavailable")
	}
	for _, iv := range f.busy[calendarID] {
		if overlaps(iv, start, end) {
			return true, nil
		}
	}
	if tentativeBlocks {
		for _, iv := range f.tentative[calendarID] {
			if overlaps(iv, start, end) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeCalendars) ListEvents(context.Context, string, time.Time, time.Time) ([]provider.Event, error) {
	return nil, nil
}

func (f *fakeCalendars) GetBusinessHours(_ context.Context, calendarID string) ([]provider.DayHours, error) {
	return f.hours[calendarID], nil
}

func (f *fakeCalendars) RecurringPattern(context.Context, string, string, time.Time, time.Time) ([]provider.PatternWindow, error) {
	return nil, nil
}

func (f *fakeCalendars) CreateEvent(context.Context, string, provider.EventSpec) (string, error) {
	return "evt", nil
}

func (f *fakeCalendars) DeleteEvent(context.Context, string, string) error { return nil }

func (f *fakeCalendars) CreateAppointment(context.Context, string, provider.AppointmentSpec) (string, error) {
	return "appt", nil
}

func (f *fakeCalendars) CancelAppointment(context.Context, string, string, string) error { return nil }

func (f *fakeCalendars) SendMail(context.Context, string, provider.Mail) error { return nil }

var _ provider.Calendars = (*fakeCalendars)(nil)

// ===============================
// fixture
// ===============================

func testSettings(skipSameDay bool) *config.Settings {
	return &config.Settings{
		Brands: []models.Brand{
			{
				ID:          "kunde-a",
				Name:        "Kunde A",
				CalendarID:  "cal-brand",
				SkipSameDay: skipSameDay,
				Services: []models.Service{
					{ID: "cut", BrandID: "kunde-a", Name: "Klipning", CalendarID: "cal-svc", DurationMin: 60},
				},
			},
		},
		Employees: []models.Employee{
			{ID: "anna", Name: "Anna", PrimaryCalendarID: "cal-anna", Brands: []string{"kunde-a"}},
			{ID: "bo", Name: "Bo", PrimaryCalendarID: "cal-bo", Brands: []string{"kunde-a"}},
		},
	}
}

func newTestResolver(f *fakeCalendars, s *config.Settings, tentativeBlocks bool) *Resolver {
	return NewResolver(f, s, Policy{
		TentativeBlocks: tentativeBlocks,
		Step:            30 * time.Minute,
		Location:        time.UTC,
	}, 8)
}

// segunda-feira
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func baseRequest(employeeID string) Request {
	return Request{
		BrandID:    "kunde-a",
		ServiceID:  "cut",
		EmployeeID: employeeID,
		From:       monday,
		To:         monday.AddDate(0, 0, 1),
		Now:        monday.Add(-12 * time.Hour),
	}
}

func starts(got []slots.Slot) []time.Time {
	out := make([]time.Time, len(got))
	for i, s := range got {
		out[i] = s.Start
	}
	return out
}

// ===============================
// tests
// ===============================

func TestResolve_BusyStaffExcludesOverlappingStarts(t *testing.T) {
	f := newFakeCalendars()
	f.addBusy("cal-anna", monday.Add(10*time.Hour), monday.Add(11*time.Hour))

	r := newTestResolver(f, testSettings(false), false)
	got, err := r.Resolve(context.Background(), baseRequest("anna"))
	require.NoError(t, err)

	excluded := map[time.Time]bool{
		monday.Add(9*time.Hour + 30*time.Minute):  true,
		monday.Add(10 * time.Hour):                true,
		monday.Add(10*time.Hour + 30*time.Minute): true,
	}
	for _, s := range got {
		assert.False(t, excluded[s.Start], "slot %v overlaps the busy block", s.Start)
	}
	assert.Contains(t, starts(got), monday.Add(9*time.Hour))
	assert.Contains(t, starts(got), monday.Add(11*time.Hour))
	// 09:00–17:00, 60 min, step 30 = 15 candidatos, 3 excluídos
	assert.Len(t, got, 12)
}

func TestResolve_IntersectionAcrossAllCalendars(t *testing.T) {
	f := newFakeCalendars()
	f.addBusy("cal-svc", monday.Add(9*time.Hour), monday.Add(10*time.Hour))
	f.addBusy("cal-brand", monday.Add(12*time.Hour), monday.Add(13*time.Hour))
	f.addBusy("cal-anna", monday.Add(15*time.Hour), monday.Add(16*time.Hour))

	r := newTestResolver(f, testSettings(false), false)
	got, err := r.Resolve(context.Background(), baseRequest("anna"))
	require.NoError(t, err)

	for _, s := range got {
		for _, busy := range []interval{
			{monday.Add(9 * time.Hour), monday.Add(10 * time.Hour)},
			{monday.Add(12 * time.Hour), monday.Add(13 * time.Hour)},
			{monday.Add(15 * time.Hour), monday.Add(16 * time.Hour)},
		} {
			assert.False(t, overlaps(busy, s.Start, s.End), "slot %v survives a busy calendar", s.Start)
		}
	}
	assert.Contains(t, starts(got), monday.Add(10*time.Hour))
	assert.Contains(t, starts(got), monday.Add(16*time.Hour))
}

func TestResolve_FailClosed(t *testing.T) {
	f := newFakeCalendars()
	f.failing["cal-brand"] = true

	r := newTestResolver(f, testSettings(false), false)
	got, err := r.Resolve(context.Background(), baseRequest("anna"))

	// erro de leitura degrada os slots, nunca a resolução
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolve_EveryoneModeAnnotatesFreeStaff(t *testing.T) {
	f := newFakeCalendars()
	f.addBusy("cal-anna", monday.Add(10*time.Hour), monday.Add(11*time.Hour))

	r := newTestResolver(f, testSettings(false), false)
	got, err := r.Resolve(context.Background(), baseRequest(""))
	require.NoError(t, err)

	byStart := make(map[time.Time][]string, len(got))
	for _, s := range got {
		byStart[s.Start] = s.FreeStaff
	}

	// anna ocupada: o slot sobrevive só com bo
	assert.Equal(t, []string{"bo"}, byStart[monday.Add(10*time.Hour)])
	assert.Equal(t, []string{"anna", "bo"}, byStart[monday.Add(9*time.Hour)])
	// nenhum candidato é descartado: sempre há alguém livre
	assert.Len(t, got, 15)
}

func TestResolve_SingleEmployeeModeOmitsFreeStaff(t *testing.T) {
	f := newFakeCalendars()
	r := newTestResolver(f, testSettings(false), false)

	got, err := r.Resolve(context.Background(), baseRequest("anna"))
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, s := range got {
		assert.Nil(t, s.FreeStaff)
	}
}

func TestResolve_EmployeeNotInBrand(t *testing.T) {
	s := testSettings(false)
	s.Employees = append(s.Employees, models.Employee{
		ID: "carl", Name: "Carl", PrimaryCalendarID: "cal-carl", Brands: []string{"kunde-b"},
	})

	r := newTestResolver(newFakeCalendars(), s, false)
	_, err := r.Resolve(context.Background(), baseRequest("carl"))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeEmployeeNotInBrand))
}

func TestResolve_MetadataErrorsAbort(t *testing.T) {
	r := newTestResolver(newFakeCalendars(), testSettings(false), false)

	req := baseRequest("anna")
	req.BrandID = "missing"
	_, err := r.Resolve(context.Background(), req)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBrandNotFound))

	req = baseRequest("anna")
	req.ServiceID = "missing"
	_, err = r.Resolve(context.Background(), req)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeServiceNotFound))

	req = baseRequest("missing")
	_, err = r.Resolve(context.Background(), req)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeEmployeeNotFound))
}

func TestResolve_EmptyRosterReturnsEmpty(t *testing.T) {
	s := testSettings(false)
	s.Employees = nil

	r := newTestResolver(newFakeCalendars(), s, false)
	got, err := r.Resolve(context.Background(), baseRequest(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolve_PastSlotsFiltered(t *testing.T) {
	f := newFakeCalendars()
	r := newTestResolver(f, testSettings(false), false)

	req := baseRequest("anna")
	req.Now = monday.Add(12*time.Hour + 10*time.Minute)
	got, err := r.Resolve(context.Background(), req)
	require.NoError(t, err)

	require.NotEmpty(t, got)
	for _, s := range got {
		assert.True(t, s.Start.After(req.Now))
	}
	assert.Equal(t, monday.Add(12*time.Hour+30*time.Minute), got[0].Start)
}

func TestResolve_SkipSameDay(t *testing.T) {
	f := newFakeCalendars()
	r := newTestResolver(f, testSettings(true), false)

	req := baseRequest("anna")
	req.To = monday.AddDate(0, 0, 2)
	req.Now = monday.Add(8 * time.Hour) // segunda de manhã
	got, err := r.Resolve(context.Background(), req)
	require.NoError(t, err)

	require.NotEmpty(t, got)
	for _, s := range got {
		assert.True(t, s.Start.After(monday.AddDate(0, 0, 1).Add(-time.Nanosecond)),
			"slot %v still on the current day", s.Start)
	}
	// primeiro slot é terça 09:00
	assert.Equal(t, monday.AddDate(0, 0, 1).Add(9*time.Hour), got[0].Start)
}

func TestResolve_TentativePolicy(t *testing.T) {
	f := newFakeCalendars()
	f.addTentative("cal-anna", monday.Add(9*time.Hour), monday.Add(10*time.Hour))

	blocking := newTestResolver(f, testSettings(false), true)
	got, err := blocking.Resolve(context.Background(), baseRequest("anna"))
	require.NoError(t, err)
	assert.NotContains(t, starts(got), monday.Add(9*time.Hour))

	transparent := newTestResolver(f, testSettings(false), false)
	got, err = transparent.Resolve(context.Background(), baseRequest("anna"))
	require.NoError(t, err)
	assert.Contains(t, starts(got), monday.Add(9*time.Hour))
}

func TestResolve_SortedAndLimited(t *testing.T) {
	f := newFakeCalendars()
	r := newTestResolver(f, testSettings(false), false)

	req := baseRequest("anna")
	req.Limit = 3
	got, err := r.Resolve(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Start.Before(got[i].Start))
	}
	assert.Equal(t, monday.Add(9*time.Hour), got[0].Start)
}

func TestResolve_ProviderBusinessHoursPreferred(t *testing.T) {
	f := newFakeCalendars()
	f.hours["cal-svc"] = []provider.DayHours{
		{Weekday: time.Monday, Windows: []provider.HM{{Start: "13:00", End: "15:00"}}},
	}

	r := newTestResolver(f, testSettings(false), false)
	got, err := r.Resolve(context.Background(), baseRequest("anna"))
	require.NoError(t, err)

	// expediente do provider substitui o fallback 09:00–17:00
	require.Len(t, got, 3)
	assert.Equal(t, monday.Add(13*time.Hour), got[0].Start)
	assert.Equal(t, monday.Add(14*time.Hour), got[2].Start)
}

func TestCheckInterval(t *testing.T) {
	f := newFakeCalendars()
	f.addBusy("cal-anna", monday.Add(10*time.Hour), monday.Add(11*time.Hour))

	s := testSettings(false)
	r := newTestResolver(f, s, false)

	brand := &s.Brands[0]
	service := &s.Brands[0].Services[0]
	anna := &s.Employees[0]

	assert.True(t, r.CheckInterval(context.Background(), brand, service, anna, monday.Add(11*time.Hour), monday.Add(12*time.Hour)))
	assert.False(t, r.CheckInterval(context.Background(), brand, service, anna, monday.Add(10*time.Hour), monday.Add(11*time.Hour)))
}

func TestServiceBrandFreeAndStaffFree(t *testing.T) {
	f := newFakeCalendars()
	f.addBusy("cal-brand", monday.Add(10*time.Hour), monday.Add(11*time.Hour))
	f.addBusy("cal-bo", monday.Add(11*time.Hour), monday.Add(12*time.Hour))

	s := testSettings(false)
	r := newTestResolver(f, s, false)
	brand := &s.Brands[0]
	service := &s.Brands[0].Services[0]
	bo := &s.Employees[1]

	assert.False(t, r.ServiceBrandFree(context.Background(), brand, service, monday.Add(10*time.Hour), monday.Add(11*time.Hour)))
	assert.True(t, r.ServiceBrandFree(context.Background(), brand, service, monday.Add(11*time.Hour), monday.Add(12*time.Hour)))

	assert.False(t, r.StaffFree(context.Background(), bo, monday.Add(11*time.Hour), monday.Add(12*time.Hour)))
	assert.True(t, r.StaffFree(context.Background(), bo, monday.Add(12*time.Hour), monday.Add(13*time.Hour)))
}
