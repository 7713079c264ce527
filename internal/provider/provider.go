package provider

import (
	"context"
	"time"
)

// ShowAs é o status de ocupação de um evento no calendário.
type ShowAs string

const (
	ShowAsFree      ShowAs = "free"
	ShowAsTentative ShowAs = "tentative"
	ShowAsBusy      ShowAs = "busy"
	ShowAsOOF       ShowAs = "oof"
	ShowAsUnknown   ShowAs = "unknown"
)

// Event é um evento de calendário como exposto pelo provider. Todos os
// instantes cruzam essa borda em UTC.
type Event struct {
	ID      string
	Subject string
	Start   time.Time
	End     time.Time
	ShowAs  ShowAs

	// Recurring indica occurrence/seriesMaster.
	Recurring bool
	SeriesID  string
}

// EventSpec descreve um evento a criar.
type EventSpec struct {
	Subject       string
	Body          string
	Start         time.Time
	End           time.Time
	AttendeeName  string
	AttendeeEmail string
	ShowAs        ShowAs
}

// AppointmentSpec descreve um appointment canônico no business de bookings.
type AppointmentSpec struct {
	ServiceID     string
	StaffMemberID string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Start         time.Time
	End           time.Time
}

// HM é um horário local "15:04".
type HM struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayHours são as sub-janelas de expediente de um dia da semana.
type DayHours struct {
	Weekday time.Weekday `json:"weekday"`
	Windows []HM         `json:"windows"`
}

// PatternWindow é uma janela recorrente de disponibilidade minerada do
// calendário compartilhado (eventos cujo subject contém o marker da marca).
type PatternWindow struct {
	Weekday  time.Weekday
	Start    string // "15:04"
	End      string // "15:04"
	SeriesID string
}

// Mail é uma mensagem enviada pelo mailbox da marca. Falhas de envio nunca
// afetam o resultado da reserva.
type Mail struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Calendars é a capacidade externa de leitura/escrita de calendários.
// O core depende só desta interface; o shaping de requisições do backend
// real fica inteiramente atrás dela.
type Calendars interface {
	// HasConflict informa se existe evento com ShowAs ≠ free no intervalo.
	// tentativeBlocks controla se "tentative" conta como conflito.
	HasConflict(ctx context.Context, calendarID string, start, end time.Time, tentativeBlocks bool) (bool, error)

	ListEvents(ctx context.Context, calendarID string, from, to time.Time) ([]Event, error)

	GetBusinessHours(ctx context.Context, calendarID string) ([]DayHours, error)

	// RecurringPattern devolve janelas recorrentes: eventos cujo subject
	// contém marker e cujo status não é busy.
	RecurringPattern(ctx context.Context, calendarID, marker string, from, to time.Time) ([]PatternWindow, error)

	CreateEvent(ctx context.Context, calendarID string, spec EventSpec) (string, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error

	CreateAppointment(ctx context.Context, businessID string, spec AppointmentSpec) (string, error)
	CancelAppointment(ctx context.Context, businessID, appointmentID, message string) error

	SendMail(ctx context.Context, mailbox string, mail Mail) error
}
