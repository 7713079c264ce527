package models

// Service é um serviço agendável de uma marca.
type Service struct {
	ID          string `json:"id"`
	BrandID     string `json:"brand_id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// CalendarID é o calendário do serviço (ex: onboarding@kunde.dk).
	CalendarID string `json:"calendar_id"`

	// DurationMin é a duração fixa em minutos. Quando o provider devolve
	// duração ISO-8601 ("PT1H30M"), ela é convertida para minutos na borda.
	DurationMin int `json:"duration_min"`
}
