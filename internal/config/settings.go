package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/KundeServices/booking-gateway/internal/httperr"
	"github.com/KundeServices/booking-gateway/internal/models"
	"github.com/KundeServices/booking-gateway/internal/provider"
)

// Settings é o registro estático de marcas, serviços e funcionários,
// carregado uma vez na subida do processo. Lookups são puros, sem I/O.
type Settings struct {
	Brands    []models.Brand    `json:"brands"`
	Employees []models.Employee `json:"employees"`
}

func LoadSettings(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	if err := s.normalize(); err != nil {
		return nil, err
	}

	return &s, nil
}

// normalize preenche BrandID dos serviços e converte durações ISO-8601
// ("PT1H30M") vindas do arquivo para minutos.
func (s *Settings) normalize() error {
	seen := make(map[string]bool, len(s.Brands))

	for bi := range s.Brands {
		b := &s.Brands[bi]
		if seen[b.ID] {
			return fmt.Errorf("settings: duplicate brand id %q", b.ID)
		}
		seen[b.ID] = true

		for si := range b.Services {
			svc := &b.Services[si]
			svc.BrandID = b.ID

			if svc.DurationMin <= 0 {
				return fmt.Errorf(
					"settings: service %q of brand %q has no positive duration",
					svc.ID, b.ID,
				)
			}
		}
	}

	for _, e := range s.Employees {
		if len(e.Brands) == 0 {
			return fmt.Errorf("settings: employee %q belongs to no brand", e.ID)
		}
	}

	return nil
}

// toModel aceita duration como minutos ou string ISO-8601.
func (s *serviceJSON) toModel() (models.Service, error) {
	svc := models.Service{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CalendarID:  s.CalendarID,
	}

	switch d := s.Duration.(type) {
	case float64:
		svc.DurationMin = int(d)
	case string:
		min, err := provider.ParseISODuration(d)
		if err != nil {
			return svc, fmt.Errorf("settings: service %q duration: %w", s.ID, err)
		}
		svc.DurationMin = min
	default:
		return svc, fmt.Errorf("settings: service %q has no duration", s.ID)
	}

	return svc, nil
}

type serviceJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CalendarID  string `json:"calendar_id"`
	Duration    any    `json:"duration"`
}

type brandJSON struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Domain             string        `json:"domain"`
	CalendarID         string        `json:"calendar_id"`
	BookingsBusinessID string        `json:"bookings_business_id"`
	AvailabilityMarker string        `json:"availability_marker"`
	SkipSameDay        bool          `json:"skip_same_day"`
	Services           []serviceJSON `json:"services"`
}

func (s *Settings) UnmarshalJSON(data []byte) error {
	var aux struct {
		Brands    []brandJSON       `json:"brands"`
		Employees []models.Employee `json:"employees"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.Employees = aux.Employees
	s.Brands = make([]models.Brand, 0, len(aux.Brands))

	for _, b := range aux.Brands {
		brand := models.Brand{
			ID:                 b.ID,
			Name:               b.Name,
			Domain:             b.Domain,
			CalendarID:         b.CalendarID,
			BookingsBusinessID: b.BookingsBusinessID,
			AvailabilityMarker: b.AvailabilityMarker,
			SkipSameDay:        b.SkipSameDay,
		}

		for _, sj := range b.Services {
			svc, err := sj.toModel()
			if err != nil {
				return err
			}
			brand.Services = append(brand.Services, svc)
		}

		s.Brands = append(s.Brands, brand)
	}

	return nil
}

// ===============================
// Lookups
// ===============================

func (s *Settings) Brand(id string) (*models.Brand, error) {
	for i := range s.Brands {
		if s.Brands[i].ID == id {
			return &s.Brands[i], nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeBrandNotFound)
}

func (s *Settings) Service(brandID, serviceID string) (*models.Service, error) {
	b, err := s.Brand(brandID)
	if err != nil {
		return nil, err
	}

	for i := range b.Services {
		if b.Services[i].ID == serviceID {
			return &b.Services[i], nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
}

func (s *Settings) Employee(id string) (*models.Employee, error) {
	for i := range s.Employees {
		if s.Employees[i].ID == id {
			return &s.Employees[i], nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeEmployeeNotFound)
}

// EmployeesForBrand preserva a ordem do arquivo: é a ordem estável usada
// pelo auto-assign.
func (s *Settings) EmployeesForBrand(brandID string) []models.Employee {
	var out []models.Employee
	for _, e := range s.Employees {
		if e.WorksFor(brandID) {
			out = append(out, e)
		}
	}
	return out
}
