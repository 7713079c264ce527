package httperr

import (
	"errors"
	"fmt"
	"strings"
)

// ProviderError indica falha no backend de calendário. Leituras de
// disponibilidade nunca o propagam por slot (fail-closed); lookups de
// metadados e escritas sim.
type ProviderError struct {
	Op         string
	CalendarID string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.CalendarID != "" {
		return fmt.Sprintf("provider: %s (%s): %v", e.Op, e.CalendarID, e.Err)
	}
	return fmt.Sprintf("provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func ErrProvider(op, calendarID string, err error) error {
	return &ProviderError{Op: op, CalendarID: calendarID, Err: err}
}

func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// PartialReservationError sinaliza que uma sequência de escritas foi
// parcialmente aplicada e o rollback não conseguiu desfazer tudo. Carrega
// quais escritas ficaram aplicadas para reconciliação — nunca vira sucesso.
type PartialReservationError struct {
	Created []string
	Err     error
}

func (e *PartialReservationError) Error() string {
	return fmt.Sprintf(
		"partial reservation: created [%s]: %v",
		strings.Join(e.Created, ", "),
		e.Err,
	)
}

func (e *PartialReservationError) Unwrap() error {
	return e.Err
}

func IsPartialReservation(err error) bool {
	var pr *PartialReservationError
	return errors.As(err, &pr)
}
