package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KundeServices/booking-gateway/internal/httperr"
	"github.com/KundeServices/booking-gateway/internal/models"
)

// GormStore é a variante durável do Booking Store, para produção com
// postgres. Mesmo contrato do MemoryStore.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Put(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
		}
		return nil, err
	}
	return &b, nil
}

func (s *GormStore) Update(ctx context.Context, b *models.Booking) error {
	return s.db.WithContext(ctx).Save(b).Error
}

func (s *GormStore) FindByEventID(ctx context.Context, eventID string) (*models.Booking, error) {
	var b models.Booking
	err := s.db.WithContext(ctx).
		Where("appointment_id = ? OR brand_event_id = ? OR staff_event_id = ?",
			eventID, eventID, eventID).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
		}
		return nil, err
	}
	return &b, nil
}

func (s *GormStore) ListByCustomer(ctx context.Context, email string, from, to time.Time) ([]models.Booking, error) {
	var out []models.Booking
	q := s.db.WithContext(ctx).Where("LOWER(customer_email) = LOWER(?)", email)
	q = rangeScope(q, from, to)

	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]models.Booking, error) {
	var out []models.Booking
	q := s.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	q = rangeScope(q, from, to)

	if err := q.Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) ListAll(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	if err := s.db.WithContext(ctx).Order("start_time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) TransitionStatus(ctx context.Context, id string, from, to string) (*models.Booking, error) {
	var b models.Booking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.ErrBusiness(httperr.CodeBookingNotFound)
			}
			return err
		}

		if b.Status != from {
			if b.Status == to {
				return httperr.ErrBusiness(httperr.CodeAlreadyCancelled)
			}
			return httperr.ErrBusiness(httperr.CodeBookingNotFound)
		}

		b.Status = to
		return tx.Save(&b).Error
	})
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func rangeScope(q *gorm.DB, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		q = q.Where("start_time >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("start_time < ?", to)
	}
	return q
}

var _ Store = (*GormStore)(nil)
