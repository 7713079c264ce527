package booking

import "github.com/KundeServices/booking-gateway/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ===============================
// Validations
// ===============================

// CanCancel rejeita cancelamento duplo: cancelar um booking já cancelado é
// erro explícito, não no-op.
func CanCancel(current Status) error {
	switch current {
	case StatusCancelled:
		return httperr.ErrBusiness(httperr.CodeAlreadyCancelled)
	case StatusPending, StatusConfirmed:
		return nil
	default:
		return httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}
}

// CanReschedule só permite remarcar bookings vivos.
func CanReschedule(current Status) error {
	if current == StatusCancelled {
		return httperr.ErrBusiness(httperr.CodeAlreadyCancelled)
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
