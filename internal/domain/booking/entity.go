package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KundeServices/booking-gateway/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// NewID gera um id de booking no formato BK-<uuid>.
func NewID() string {
	return "BK-" + strings.ToUpper(uuid.NewString())
}

// Confirm marca o booking confirmado após a escrita no provider.
func Confirm(b *models.Booking) {
	b.Status = string(StatusConfirmed)
}

func Cancel(b *models.Booking, reason string, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelReason = reason
	b.CancelledAt = &now
	return nil
}

// Reschedule troca intervalo e ids de correlação in place, após a nova
// reserva já estar confirmada no provider.
func Reschedule(b *models.Booking, start, end time.Time, appointmentID, brandEventID, staffEventID string) error {
	if err := CanReschedule(Status(b.Status)); err != nil {
		return err
	}

	b.StartTime = start
	b.EndTime = end
	b.AppointmentID = appointmentID
	b.BrandEventID = brandEventID
	b.StaffEventID = staffEventID
	return nil
}

// Subject monta o assunto dos eventos-espelho ("[Booking] Serviço - Cliente").
func Subject(serviceName, customerName string) string {
	return fmt.Sprintf("[Booking] %s - %s", serviceName, customerName)
}
