package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, "Europe/Copenhagen", Location("").String())
	assert.Equal(t, "Europe/Copenhagen", Location("Not/AZone").String())
	assert.Equal(t, "America/Sao_Paulo", Location("America/Sao_Paulo").String())
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("Europe/Copenhagen"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Mars/Olympus"))
}

func TestDayBoundsIn(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	require.NoError(t, err)

	// 23:30 UTC de domingo já é segunda 00:30 local (CET)
	ts := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	start, next := DayBoundsIn(ts, loc)

	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, loc), next)
	assert.Equal(t, time.Monday, start.Weekday())
}
