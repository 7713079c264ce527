package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/KundeServices/booking-gateway/internal/httperr"
	"github.com/KundeServices/booking-gateway/internal/models"
)

// MemoryStore é a implementação de referência, em memória. Projetada para
// ser trocada por um store durável (ver GormStore) sem tocar o orquestrador.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings: make(map[string]models.Booking),
	}
}

func (s *MemoryStore) Put(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	s.bookings[b.ID] = *b
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}
	return &b, nil
}

func (s *MemoryStore) Update(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[b.ID]; !ok {
		return httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}
	b.UpdatedAt = time.Now().UTC()
	s.bookings[b.ID] = *b
	return nil
}

func (s *MemoryStore) FindByEventID(_ context.Context, eventID string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bookings {
		if b.AppointmentID == eventID || b.BrandEventID == eventID || b.StaffEventID == eventID {
			out := b
			return &out, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
}

func (s *MemoryStore) ListByCustomer(_ context.Context, email string, from, to time.Time) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if !strings.EqualFold(b.CustomerEmail, email) {
			continue
		}
		if inRange(b.StartTime, from, to) {
			out = append(out, b)
		}
	}
	sortByStart(out)
	return out, nil
}

func (s *MemoryStore) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.EmployeeID != employeeID {
			continue
		}
		if inRange(b.StartTime, from, to) {
			out = append(out, b)
		}
	}
	sortByStart(out)
	return out, nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sortByStart(out)
	return out, nil
}

// TransitionStatus é o compare-and-set: status é lido e trocado sob o mesmo
// lock, sem janela read-modify-write.
func (s *MemoryStore) TransitionStatus(_ context.Context, id string, from, to string) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}

	if b.Status != from {
		if b.Status == to {
			return nil, httperr.ErrBusiness(httperr.CodeAlreadyCancelled)
		}
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}

	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	s.bookings[id] = b

	out := b
	return &out, nil
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

func sortByStart(bs []models.Booking) {
	sort.Slice(bs, func(i, j int) bool {
		return bs[i].StartTime.Before(bs[j].StartTime)
	})
}

var _ Store = (*MemoryStore)(nil)
