package booking

import (
	"context"
	"time"

	"github.com/KundeServices/booking-gateway/internal/availability"
	"github.com/KundeServices/booking-gateway/internal/dto"
	"github.com/KundeServices/booking-gateway/internal/models"
	"github.com/KundeServices/booking-gateway/internal/store"
)

type ListBookings struct {
	registry availability.Registry
	store    store.Store
}

func NewListBookings(registry availability.Registry, st store.Store) *ListBookings {
	return &ListBookings{registry: registry, store: st}
}

// ByCustomer lista reservas do cliente num intervalo. Sem intervalo, o
// padrão é 1 mês atrás até 3 meses à frente.
func (uc *ListBookings) ByCustomer(
	ctx context.Context,
	email string,
	from, to time.Time,
) ([]dto.BookingListDTO, error) {

	if from.IsZero() {
		from = time.Now().AddDate(0, -1, 0)
	}
	if to.IsZero() {
		to = time.Now().AddDate(0, 3, 0)
	}

	bookings, err := uc.store.ListByCustomer(ctx, email, from, to)
	if err != nil {
		return nil, err
	}
	return uc.project(bookings), nil
}

func (uc *ListBookings) ByEmployee(
	ctx context.Context,
	employeeID string,
	from, to time.Time,
) ([]dto.BookingListDTO, error) {

	bookings, err := uc.store.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	return uc.project(bookings), nil
}

func (uc *ListBookings) All(ctx context.Context) ([]dto.BookingListDTO, error) {
	bookings, err := uc.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.project(bookings), nil
}

// ByEventID resolve uma reserva pelo id de evento do provider (reconciliação
// de cancelamentos vindos do calendário).
func (uc *ListBookings) ByEventID(ctx context.Context, eventID string) (*models.Booking, error) {
	return uc.store.FindByEventID(ctx, eventID)
}

func (uc *ListBookings) project(bookings []models.Booking) []dto.BookingListDTO {
	out := make([]dto.BookingListDTO, 0, len(bookings))

	for _, b := range bookings {
		item := dto.BookingListDTO{
			ID:            b.ID,
			BrandID:       b.BrandID,
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
			Status:        b.Status,
			CustomerName:  b.CustomerName,
			CustomerEmail: b.CustomerEmail,
		}

		if svc, err := uc.registry.Service(b.BrandID, b.ServiceID); err == nil {
			item.ServiceName = svc.Name
		}
		if emp, err := uc.registry.Employee(b.EmployeeID); err == nil {
			item.EmployeeName = emp.Name
		}

		out = append(out, item)
	}
	return out
}
