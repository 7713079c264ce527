package booking

import (
	"context"
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

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	BrandID   string
	ServiceID string

	// EmployeeID vazio = auto-assign: primeiro funcionário livre na ordem
	// estável do roster.
	EmployeeID string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	Start time.Time
	End   time.Time
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	registry  availability.Registry
	resolver  *availability.Resolver
	calendars provider.Calendars
	store     store.Store
	notify    *notify.Dispatcher
	audit     *audit.Dispatcher
	now       func() time.Time
}

func NewCreateBooking(
	registry availability.Registry,
	resolver *availability.Resolver,
	calendars provider.Calendars,
	st store.Store,
	notifier *notify.Dispatcher,
	auditor *audit.Dispatcher,
	now func() time.Time,
) *CreateBooking {
	if now == nil {
		now = time.Now
	}
	return &CreateBooking{
		registry:  registry,
		resolver:  resolver,
		calendars: calendars,
		store:     st,
		notify:    notifier,
		audit:     auditor,
		now:       now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(ctx context.Context, in CreateInput) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Metadados: marca, serviço, funcionário
	// --------------------------------------------------
	brand, err := uc.registry.Brand(in.BrandID)
	if err != nil {
		return nil, err
	}

	service, err := uc.registry.Service(in.BrandID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	if err := uc.validateInterval(service, in); err != nil {
		return nil, err
	}

	slot := slots.Slot{Start: in.Start.UTC(), End: in.End.UTC()}

	// --------------------------------------------------
	// 2. Re-validação obrigatória do intervalo exato.
	// O slot pode ter sido listado segundos atrás de um snapshot já
	// obsoleto; a checagem aqui fecha a corrida read-then-write.
	// --------------------------------------------------
	var employee *models.Employee

	if in.EmployeeID != "" {
		employee, err = uc.registry.Employee(in.EmployeeID)
		if err != nil {
			return nil, err
		}
		if !employee.WorksFor(brand.ID) {
			return nil, httperr.ErrBusiness(httperr.CodeEmployeeNotInBrand)
		}

		if !uc.resolver.CheckInterval(ctx, brand, service, employee, slot.Start, slot.End) {
			return nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable)
		}
	} else {
		if !uc.resolver.ServiceBrandFree(ctx, brand, service, slot.Start, slot.End) {
			return nil, httperr.ErrBusiness(httperr.CodeSlotUnavailable)
		}

		employee, err = uc.autoAssign(ctx, brand, slot)
		if err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 3. Escritas no provider (com rollback compensatório)
	// --------------------------------------------------
	res, err := reserve(ctx, uc.calendars, brand, service, employee, in, slot)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Persistência + confirmação
	// --------------------------------------------------
	b := &models.Booking{
		ID:            domain.NewID(),
		BrandID:       brand.ID,
		ServiceID:     service.ID,
		EmployeeID:    employee.ID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		StartTime:     slot.Start,
		EndTime:       slot.End,
		Status:        string(domain.InitialStatus()),
		AppointmentID: res.appointmentID,
		BrandEventID:  res.brandEventID,
		StaffEventID:  res.staffEventID,
		Notes:         in.Notes,
	}
	domain.Confirm(b)

	if err := uc.store.Put(ctx, b); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Side effects best-effort
	// --------------------------------------------------
	uc.notify.Dispatch(notify.Message{
		Mailbox: brand.CalendarID,
		Mail:    notify.ConfirmationMail(b, service.Name, brand.Name),
	})

	uc.audit.Dispatch(audit.Event{
		BrandID:   brand.ID,
		BookingID: b.ID,
		Action:    "booking_created",
		Entity:    "booking",
	})

	return b, nil
}

func (uc *CreateBooking) validateInterval(service *models.Service, in CreateInput) error {
	duration := time.Duration(service.DurationMin) * time.Minute

	if !in.End.After(in.Start) || in.End.Sub(in.Start) != duration {
		return httperr.ErrBusiness(httperr.CodeInvalidRange)
	}
	if !in.Start.After(uc.now()) {
		return httperr.ErrBusiness(httperr.CodeSlotUnavailable)
	}
	return nil
}

// autoAssign percorre o roster da marca em ordem estável e escolhe o
// primeiro funcionário com calendário livre no intervalo.
func (uc *CreateBooking) autoAssign(
	ctx context.Context,
	brand *models.Brand,
	slot slots.Slot,
) (*models.Employee, error) {

	for _, emp := range uc.registry.EmployeesForBrand(brand.ID) {
		if uc.resolver.StaffFree(ctx, &emp, slot.Start, slot.End) {
			out := emp
			return &out, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeNoStaffAvailable)
}
