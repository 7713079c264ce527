package booking

import (
	"context"
	"log"

	domain "github.com/KundeServices/booking-gateway/internal/domain/booking"
	"github.com/KundeServices/booking-gateway/internal/httperr"
	"github.com/KundeServices/booking-gateway/internal/models"
	"github.com/KundeServices/booking-gateway/internal/provider"
	"github.com/KundeServices/booking-gateway/internal/slots"
)

// reservation agrupa os ids de correlação criados no provider.
type reservation struct {
	appointmentID string
	brandEventID  string
	staffEventID  string
}

// reserve executa a sequência de escritas: appointment canônico no business
// de bookings, depois espelhos no calendário da marca e no calendário
// pessoal do funcionário. Se uma escrita posterior falha, as anteriores são
// desfeitas (compensating deletes); se o rollback também falha, devolve
// PartialReservationError com o que ficou aplicado — nunca sucesso parcial
// silencioso.
func reserve(
	ctx context.Context,
	calendars provider.Calendars,
	brand *models.Brand,
	service *models.Service,
	employee *models.Employee,
	in CreateInput,
	slot slots.Slot,
) (reservation, error) {

	var res reservation

	appointmentID, err := calendars.CreateAppointment(ctx, brand.BookingsBusinessID, provider.AppointmentSpec{
		ServiceID:     service.ID,
		StaffMemberID: employee.StaffMemberID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		Start:         slot.Start,
		End:           slot.End,
	})
	if err != nil {
		return res, err
	}
	res.appointmentID = appointmentID

	subject := domain.Subject(service.Name, in.CustomerName)

	brandEventID, err := calendars.CreateEvent(ctx, brand.CalendarID, provider.EventSpec{
		Subject:       subject,
		Body:          in.Notes,
		Start:         slot.Start,
		End:           slot.End,
		AttendeeName:  in.CustomerName,
		AttendeeEmail: in.CustomerEmail,
		ShowAs:        provider.ShowAsBusy,
	})
	if err != nil {
		return res, rollback(ctx, calendars, brand, res, err)
	}
	res.brandEventID = brandEventID

	staffEventID, err := calendars.CreateEvent(ctx, employee.PrimaryCalendarID, provider.EventSpec{
		Subject: subject,
		Body:    in.Notes,
		Start:   slot.Start,
		End:     slot.End,
		ShowAs:  provider.ShowAsBusy,
	})
	if err != nil {
		return res, rollback(ctx, calendars, brand, res, err)
	}
	res.staffEventID = staffEventID

	return res, nil
}

// rollback desfaz as escritas já aplicadas e devolve o erro original, ou
// PartialReservationError quando algum delete compensatório falha.
func rollback(
	ctx context.Context,
	calendars provider.Calendars,
	brand *models.Brand,
	res reservation,
	cause error,
) error {

	var remaining []string

	if res.brandEventID != "" {
		if err := calendars.DeleteEvent(ctx, brand.CalendarID, res.brandEventID); err != nil {
			log.Println("rollback: brand mirror delete failed:", err)
			remaining = append(remaining, "brand_event:"+res.brandEventID)
		}
	}

	if res.appointmentID != "" {
		if err := calendars.CancelAppointment(ctx, brand.BookingsBusinessID, res.appointmentID,
			"Reservation rolled back"); err != nil {
			log.Println("rollback: appointment cancel failed:", err)
			remaining = append(remaining, "appointment:"+res.appointmentID)
		}
	}

	if len(remaining) > 0 {
		return &httperr.PartialReservationError{Created: remaining, Err: cause}
	}
	return cause
}
