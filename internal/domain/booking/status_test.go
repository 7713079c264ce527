package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KundeServices/booking-gateway/internal/httperr"
	"github.com/KundeServices/booking-gateway/internal/models"
)

func TestCanCancel(t *testing.T) {
	assert.NoError(t, CanCancel(StatusPending))
	assert.NoError(t, CanCancel(StatusConfirmed))

	err := CanCancel(StatusCancelled)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAlreadyCancelled))

	err = CanCancel(Status("garbage"))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBookingNotFound))
}

func TestCanReschedule(t *testing.T) {
	assert.NoError(t, CanReschedule(StatusPending))
	assert.NoError(t, CanReschedule(StatusConfirmed))

	err := CanReschedule(StatusCancelled)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAlreadyCancelled))
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()

	assert.True(t, strings.HasPrefix(a, "BK-"))
	assert.Equal(t, strings.ToUpper(a), a)
	assert.NotEqual(t, a, b)
}

func TestCancelSetsMetadata(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	b := &models.Booking{Status: string(StatusConfirmed)}

	require.NoError(t, Cancel(b, "no-show", now))
	assert.Equal(t, string(StatusCancelled), b.Status)
	assert.Equal(t, "no-show", b.CancelReason)
	require.NotNil(t, b.CancelledAt)
	assert.Equal(t, now, *b.CancelledAt)

	err := Cancel(b, "again", now)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAlreadyCancelled))
}

func TestRescheduleSwapsCorrelationIDs(t *testing.T) {
	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	b := &models.Booking{
		Status:        string(StatusConfirmed),
		AppointmentID: "appt-old",
	}

	require.NoError(t, Reschedule(b, start, start.Add(time.Hour), "appt-new", "brand-new", "staff-new"))
	assert.Equal(t, "appt-new", b.AppointmentID)
	assert.Equal(t, "brand-new", b.BrandEventID)
	assert.Equal(t, "staff-new", b.StaffEventID)
	assert.Equal(t, start, b.StartTime)

	b.Status = string(StatusCancelled)
	err := Reschedule(b, start, start.Add(time.Hour), "x", "y", "z")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeAlreadyCancelled))
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "[Booking] Klipning - Jens", Subject("Klipning", "Jens"))
}
