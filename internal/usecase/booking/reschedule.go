package booking

import (
	"context"
	"log"
	"time"

	"github.com/KundeServices/booking-gateway/internal/audit"
	"github.com/KundeServices/booking-gateway/internal/availability"
	domain "github.com/KundeServices/booking-gateway/internal/domain/booking"
	"github.com/KundeServices/booking-gateway/internal/httperr"
	"github.com/KundeServices/booking-gateway/internal/models"
	"github.com/KundeServices/booking-gateway/internal/notify"
	"github.com/KundeServices/booking-gateway/internal/provider"
	"github.com/KundeServices/booking-gateway/internal/slots"
	"github.com/KundeServices/booking-gateway/internal/store"
)

type RescheduleBooking struct {
	registry  availability.Registry
	resolver  *availability.Resolver
	calendars provider.Calendars
	store     store.Store
	notify    *notify.Dispatcher
	audit     *audit.Dispatcher
	locks     *Locks
	now       func() time.Time
}

func NewRescheduleBooking(
	registry availability.Registry,
	resolver *availability.Resolver,
	calendars provider.Calendars,
	st store.Store,
	notifier *notify.Dispatcher,
	auditor *audit.Dispatcher,
	locks *Locks,
	now func() time.Time,
) *RescheduleBooking {
	if now == nil {
		now = time.Now
	}
	return &RescheduleBooking{
		registry:  registry,
		resolver:  resolver,
		calendars: calendars,
		store:     st,
		notify:    notifier,
		audit:     auditor,
		locks:     locks,
		now:       now,
	}
}

// Execute remarca com a ordem segura: valida e cria a NOVA reserva primeiro
// e só então cancela a antiga. Se a nova criação falhar, a reserva original
// permanece intacta — o cliente nunca fica sem reserva nenhuma.
func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	bookingID string,
	newStart, newEnd time.Time,
) (*models.Booking, error) {

	release := uc.locks.Acquire(bookingID)
	defer release()

	b, err := uc.store.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanReschedule(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	brand, err := uc.registry.Brand(b.BrandID)
	if err != nil {
		return nil, err
	}
	service, err := uc.registry.Service(b.BrandID, b.ServiceID)
	if err != nil {
		return nil, err
	}
	employee, err := uc.registry.Employee(b.EmployeeID)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(service.DurationMin) * time.Minute
	if !newEnd.After(newStart) || newEnd.Sub(newStart) != duration {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRange)
	}
	if !newStart.After(uc.now()) {
		return nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable)
	}

	slot := slots.Slot{Start: newStart.UTC(), End: newEnd.UTC()}

	// mesma regra da criação: re-validação imediatamente antes da escrita
	if !uc.resolver.CheckInterval(ctx, brand, service, employee, slot.Start, slot.End) {
		return nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable)
	}

	// --------------------------------------------------
	// 1. Nova reserva primeiro
	// --------------------------------------------------
	in := CreateInput{
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Notes:         b.Notes,
	}

	res, err := reserve(ctx, uc.calendars, brand, service, employee, in, slot)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Só então desfazer a antiga (best-effort, logado)
	// --------------------------------------------------
	old := reservation{
		appointmentID: b.AppointmentID,
		brandEventID:  b.BrandEventID,
		staffEventID:  b.StaffEventID,
	}
	uc.releaseOld(ctx, brand, employee, old)

	// --------------------------------------------------
	// 3. Atualizar o registro in place
	// --------------------------------------------------
	if err := domain.Reschedule(b, slot.Start, slot.End,
		res.appointmentID, res.brandEventID, res.staffEventID); err != nil {
		return nil, err
	}

	if err := uc.store.Update(ctx, b); err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notify.Message{
		Mailbox: brand.CalendarID,
		Mail:    notify.ConfirmationMail(b, service.Name, brand.Name),
	})

	uc.audit.Dispatch(audit.Event{
		BrandID:   b.BrandID,
		BookingID: b.ID,
		Action:    "booking_rescheduled",
		Entity:    "booking",
		Metadata: map[string]string{
			"new_start": slot.Start.Format(time.RFC3339),
			"new_end":   slot.End.Format(time.RFC3339),
		},
	})

	return b, nil
}

func (uc *RescheduleBooking) releaseOld(
	ctx context.Context,
	brand *models.Brand,
	employee *models.Employee,
	old reservation,
) {
	if old.appointmentID != "" {
		if err := uc.calendars.CancelAppointment(ctx, brand.BookingsBusinessID, old.appointmentID,
			"Rescheduled to a new time"); err != nil {
			log.Println("reschedule: old appointment cancel failed:", err)
		}
	}
	if old.brandEventID != "" {
		if err := uc.calendars.DeleteEvent(ctx, brand.CalendarID, old.brandEventID); err != nil {
			log.Println("reschedule: old brand mirror delete failed:", err)
		}
	}
	if old.staffEventID != "" {
		if err := uc.calendars.DeleteEvent(ctx, employee.PrimaryCalendarID, old.staffEventID); err != nil {
			log.Println("reschedule: old staff mirror delete failed:", err)
		}
	}
}
