package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KundeServices/booking-gateway/internal/httperr"
)

const settingsFixture = `{
  "brands": [
    {
      "id": "kunde-a",
      "name": "Kunde A",
      "domain": "kunde-a.dk",
      "calendar_id": "cal-brand-a",
      "bookings_business_id": "biz-a",
      "availability_marker": "[Ledig]",
      "skip_same_day": true,
      "services": [
        {
          "id": "cut",
          "name": "Klipning",
          "calendar_id": "cal-svc-cut",
          "duration": 30
        },
        {
          "id": "color",
          "name": "Farvning",
          "calendar_id": "cal-svc-color",
          "duration": "PT1H30M"
        }
      ]
    }
  ],
  "employees": [
    {
      "id": "anna",
      "name": "Anna",
      "email": "anna@kunde-a.dk",
      "primary_calendar_id": "cal-anna",
      "brands": ["kunde-a"]
    },
    {
      "id": "bo",
      "name": "Bo",
      "email": "bo@kunde-a.dk",
      "primary_calendar_id": "cal-bo",
      "brands": ["kunde-a", "kunde-b"]
    }
  ]
}`

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadSettings(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, settingsFixture))
	require.NoError(t, err)
	require.Len(t, s.Brands, 1)
	require.Len(t, s.Employees, 2)

	b, err := s.Brand("kunde-a")
	require.NoError(t, err)
	assert.True(t, b.SkipSameDay)
	assert.Equal(t, "[Ledig]", b.AvailabilityMarker)

	cut, err := s.Service("kunde-a", "cut")
	require.NoError(t, err)
	assert.Equal(t, 30, cut.DurationMin)
	assert.Equal(t, "kunde-a", cut.BrandID)

	// duração ISO-8601 convertida para minutos
	color, err := s.Service("kunde-a", "color")
	require.NoError(t, err)
	assert.Equal(t, 90, color.DurationMin)
}

func TestLoadSettings_FileMissing(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadSettings_DuplicateBrand(t *testing.T) {
	body := `{
  "brands": [
    {"id": "x", "name": "X", "calendar_id": "c", "services": [{"id": "s", "name": "S", "calendar_id": "cs", "duration": 30}]},
    {"id": "x", "name": "X2", "calendar_id": "c2", "services": []}
  ],
  "employees": [{"id": "e", "name": "E", "email": "e@x.dk", "primary_calendar_id": "ce", "brands": ["x"]}]
}`
	_, err := LoadSettings(writeSettings(t, body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate brand")
}

func TestLoadSettings_InvalidDuration(t *testing.T) {
	body := `{
  "brands": [
    {"id": "x", "name": "X", "calendar_id": "c", "services": [{"id": "s", "name": "S", "calendar_id": "cs", "duration": "P1D"}]}
  ],
  "employees": []
}`
	_, err := LoadSettings(writeSettings(t, body))
	require.Error(t, err)
}

func TestLoadSettings_EmployeeWithoutBrand(t *testing.T) {
	body := `{
  "brands": [],
  "employees": [{"id": "e", "name": "E", "email": "e@x.dk", "primary_calendar_id": "ce", "brands": []}]
}`
	_, err := LoadSettings(writeSettings(t, body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "belongs to no brand")
}

func TestSettings_Lookups(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, settingsFixture))
	require.NoError(t, err)

	_, err = s.Brand("missing")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBrandNotFound))

	_, err = s.Service("kunde-a", "missing")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeServiceNotFound))

	_, err = s.Service("missing", "cut")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeBrandNotFound))

	_, err = s.Employee("missing")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeEmployeeNotFound))

	e, err := s.Employee("bo")
	require.NoError(t, err)
	assert.True(t, e.WorksFor("kunde-b"))
	assert.False(t, e.WorksFor("kunde-c"))
}

func TestSettings_EmployeesForBrandKeepsFileOrder(t *testing.T) {
	s, err := LoadSettings(writeSettings(t, settingsFixture))
	require.NoError(t, err)

	staff := s.EmployeesForBrand("kunde-a")
	require.Len(t, staff, 2)
	assert.Equal(t, "anna", staff[0].ID)
	assert.Equal(t, "bo", staff[1].ID)

	assert.Empty(t, s.EmployeesForBrand("kunde-z"))
}
