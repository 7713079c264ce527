package store

import (
	"context"
	"time"

	"github.com/KundeServices/booking-gateway/internal/models"
)

// Store é a persistência chaveada de bookings. O orquestrador é o único
// escritor; o store serve lookups e a transição atômica de status usada
// pela checagem de "já cancelado".
type Store interface {
	Put(ctx context.Context, b *models.Booking) error
	Get(ctx context.Context, id string) (*models.Booking, error)
	Update(ctx context.Context, b *models.Booking) error

	// FindByEventID localiza pelo id de qualquer evento de correlação.
	FindByEventID(ctx context.Context, eventID string) (*models.Booking, error)

	ListByCustomer(ctx context.Context, email string, from, to time.Time) ([]models.Booking, error)
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)

	// TransitionStatus aplica compare-and-set de status; devolve o booking
	// já atualizado ou o erro de negócio da transição inválida.
	TransitionStatus(ctx context.Context, id string, from, to string) (*models.Booking, error)
}
