package models

// Brand é uma unidade de negócio (tenant) com calendário compartilhado próprio.
type Brand struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`

	// CalendarID é o shared mailbox da marca (ex: hr@kunde.dk).
	CalendarID string `json:"calendar_id"`

	// BookingsBusinessID identifica o business no MS Bookings onde os
	// appointments canônicos são criados.
	BookingsBusinessID string `json:"bookings_business_id"`

	// AvailabilityMarker marca eventos do calendário compartilhado que
	// representam janelas abertas (ex: "Available").
	AvailabilityMarker string `json:"availability_marker"`

	// SkipSameDay exclui o restante do dia corrente da disponibilidade
	// (política por marca, não universal).
	SkipSameDay bool `json:"skip_same_day"`

	Services []Service `json:"services"`
}
