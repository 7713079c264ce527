package booking

import (
	"context"
	"log"
	"time"

	"github.com/KundeServices/booking-gateway/internal/audit"
	"github.com/KundeServices/booking-gateway/internal/availability"
	domain "github.com/KundeServices/booking-gateway/internal/domain/booking"
	"github.com/KundeServices/booking-gateway/internal/models"
	"github.com/KundeServices/booking-gateway/internal/notify"
	"github.com/KundeServices/booking-gateway/internal/provider"
	"github.com/KundeServices/booking-gateway/internal/store"
)

type CancelBooking struct {
	registry  availability.Registry
	calendars provider.Calendars
	store     store.Store
	notify    *notify.Dispatcher
	audit     *audit.Dispatcher
	locks     *Locks
	now       func() time.Time
}

func NewCancelBooking(
	registry availability.Registry,
	calendars provider.Calendars,
	st store.Store,
	notifier *notify.Dispatcher,
	auditor *audit.Dispatcher,
	locks *Locks,
	now func() time.Time,
) *CancelBooking {
	if now == nil {
		now = time.Now
	}
	return &CancelBooking{
		registry:  registry,
		calendars: calendars,
		store:     st,
		notify:    notifier,
		audit:     auditor,
		locks:     locks,
		now:       now,
	}
}

func (uc *CancelBooking) Execute(ctx context.Context, bookingID, reason string) (*models.Booking, error) {

	release := uc.locks.Acquire(bookingID)
	defer release()

	b, err := uc.store.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanCancel(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	brand, err := uc.registry.Brand(b.BrandID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Cancelamento canônico: precisa suceder. Espelhos são best-effort —
	// falha individual é logada, não derruba o cancel.
	// --------------------------------------------------
	message := reason
	if message == "" {
		message = "Your booking has been cancelled"
	}

	if b.AppointmentID != "" {
		if err := uc.calendars.CancelAppointment(ctx, brand.BookingsBusinessID, b.AppointmentID, message); err != nil {
			return nil, err
		}
	}

	if b.BrandEventID != "" {
		if err := uc.calendars.DeleteEvent(ctx, brand.CalendarID, b.BrandEventID); err != nil {
			log.Println("cancel: brand mirror delete failed:", err)
		}
	}

	if b.StaffEventID != "" {
		if emp, err := uc.registry.Employee(b.EmployeeID); err == nil {
			if err := uc.calendars.DeleteEvent(ctx, emp.PrimaryCalendarID, b.StaffEventID); err != nil {
				log.Println("cancel: staff mirror delete failed:", err)
			}
		}
	}

	// --------------------------------------------------
	// Status atômico (compare-and-set) + metadados
	// --------------------------------------------------
	updated, err := uc.store.TransitionStatus(ctx, b.ID, b.Status, string(domain.StatusCancelled))
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	updated.CancelReason = reason
	updated.CancelledAt = &now
	if err := uc.store.Update(ctx, updated); err != nil {
		return nil, err
	}

	serviceName := b.ServiceID
	if svc, err := uc.registry.Service(b.BrandID, b.ServiceID); err == nil {
		serviceName = svc.Name
	}

	uc.notify.Dispatch(notify.Message{
		Mailbox: brand.CalendarID,
		Mail:    notify.CancellationMail(updated, serviceName, brand.Name, reason),
	})

	uc.audit.Dispatch(audit.Event{
		BrandID:   b.BrandID,
		BookingID: b.ID,
		Action:    "booking_cancelled",
		Entity:    "booking",
		Metadata:  map[string]string{"reason": reason},
	})

	return updated, nil
}
