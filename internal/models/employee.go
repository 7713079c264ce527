package models

// Employee é um funcionário atribuível a reservas de uma ou mais marcas.
type Employee struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	// PrimaryCalendarID é o calendário pessoal (ex: torben@kunde.dk).
	PrimaryCalendarID string `json:"primary_calendar_id"`

	// StaffMemberID é o id do staff member no MS Bookings, quando mapeado.
	StaffMemberID string `json:"staff_member_id"`

	// Brands lista as marcas para as quais o funcionário trabalha.
	Brands []string `json:"brands"`
}

// WorksFor indica se o funcionário atende a marca.
func (e *Employee) WorksFor(brandID string) bool {
	for _, b := range e.Brands {
		if b == brandID {
			return true
		}
	}
	return false
}
