package availability

import (
	"context"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/KundeServices/booking-gateway/internal/httperr"
	"github.com/KundeServices/booking-gateway/internal/models"
	"github.com/KundeServices/booking-gateway/internal/provider"
	"github.com/KundeServices/booking-gateway/internal/slots"
	"github.com/KundeServices/booking-gateway/internal/timezone"
)

// Registry são os lookups estáticos de marca/serviço/funcionário.
type Registry interface {
	Brand(id string) (*models.Brand, error)
	Service(brandID, serviceID string) (*models.Service, error)
	Employee(id string) (*models.Employee, error)
	EmployeesForBrand(brandID string) []models.Employee
}

// Policy concentra as decisões configuráveis do resolver.
type Policy struct {
	// TentativeBlocks: eventos "tentative" bloqueiam o slot (padrão seguro).
	TentativeBlocks bool

	// Step é o intervalo entre inícios candidatos (padrão 30 min).
	Step time.Duration

	// Location é o timezone do negócio para dia/weekday locais.
	Location *time.Location

	CallTimeout time.Duration
}

func (p Policy) step() time.Duration {
	if p.Step > 0 {
		return p.Step
	}
	return 30 * time.Minute
}

func (p Policy) location() *time.Location {
	if p.Location != nil {
		return p.Location
	}
	return timezone.Location("")
}

func (p Policy) callTimeout() time.Duration {
	if p.CallTimeout > 0 {
		return p.CallTimeout
	}
	return 10 * time.Second
}

type Request struct {
	BrandID   string
	ServiceID string

	// EmployeeID vazio = modo "todos": qualquer funcionário da marca.
	EmployeeID string

	From time.Time
	To   time.Time

	// Now é o instante corrente injetado (determinismo em teste).
	Now time.Time

	// Limit > 0 corta a saída — preocupação de apresentação, opcional.
	Limit int
}

type Resolver struct {
	calendars provider.Calendars
	registry  Registry
	policy    Policy
	sem       *semaphore.Weighted
}

func NewResolver(calendars provider.Calendars, registry Registry, policy Policy, maxCalls int) *Resolver {
	if maxCalls <= 0 {
		maxCalls = 8
	}
	return &Resolver{
		calendars: calendars,
		registry:  registry,
		policy:    policy,
		sem:       semaphore.NewWeighted(int64(maxCalls)),
	}
}

// Resolve devolve os slots simultaneamente livres em todos os calendários
// exigidos, ordenados por início. Falha de leitura de um calendário degrada
// aquele slot para indisponível (fail-closed); só lookups de metadados
// abortam a resolução.
func (r *Resolver) Resolve(ctx context.Context, req Request) ([]slots.Slot, error) {

	brand, err := r.registry.Brand(req.BrandID)
	if err != nil {
		return nil, err
	}

	service, err := r.registry.Service(req.BrandID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	staff, err := r.staffFor(brand, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if len(staff) == 0 {
		return []slots.Slot{}, nil
	}

	candidates := r.candidates(ctx, brand, service, req)
	candidates = r.filterPast(candidates, brand, req.Now)

	out := make([]slots.Slot, len(candidates))
	keep := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i := range candidates {
		i := i
		g.Go(func() error {
			free, freeStaff := r.checkSlot(gctx, brand, service, staff, candidates[i])
			if free {
				s := candidates[i]
				if req.EmployeeID == "" {
					s.FreeStaff = freeStaff
				}
				out[i] = s
				keep[i] = true
			}
			return nil
		})
	}
	_ = g.Wait()

	result := make([]slots.Slot, 0, len(candidates))
	for i, ok := range keep {
		if ok {
			result = append(result, out[i])
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.Before(result[j].Start)
	})

	if req.Limit > 0 && len(result) > req.Limit {
		result = result[:req.Limit]
	}

	return result, nil
}

// CheckInterval re-valida um intervalo exato contra os mesmos calendários da
// resolução. É a checagem obrigatória imediatamente antes de escrever.
func (r *Resolver) CheckInterval(
	ctx context.Context,
	brand *models.Brand,
	service *models.Service,
	employee *models.Employee,
	start, end time.Time,
) bool {
	free, _ := r.checkSlot(ctx, brand, service, []models.Employee{*employee}, slots.Slot{Start: start, End: end})
	return free
}

// ServiceBrandFree verifica só os calendários do serviço e da marca, usado
// pelo auto-assign antes de iterar o roster.
func (r *Resolver) ServiceBrandFree(
	ctx context.Context,
	brand *models.Brand,
	service *models.Service,
	start, end time.Time,
) bool {
	return r.calendarFree(ctx, service.CalendarID, start, end) &&
		r.calendarFree(ctx, brand.CalendarID, start, end)
}

// StaffFree verifica só o calendário pessoal do funcionário (auto-assign).
func (r *Resolver) StaffFree(ctx context.Context, employee *models.Employee, start, end time.Time) bool {
	return r.calendarFree(ctx, employee.PrimaryCalendarID, start, end)
}

// ===============================
// internals
// ===============================

func (r *Resolver) staffFor(brand *models.Brand, employeeID string) ([]models.Employee, error) {
	if employeeID == "" {
		return r.registry.EmployeesForBrand(brand.ID), nil
	}

	emp, err := r.registry.Employee(employeeID)
	if err != nil {
		return nil, err
	}
	if !emp.WorksFor(brand.ID) {
		return nil, httperr.ErrBusiness(httperr.CodeEmployeeNotInBrand)
	}
	return []models.Employee{*emp}, nil
}

// candidates resolve a fonte de expediente e gera os slots candidatos.
// Precedência: expediente do provider → padrão recorrente do marker →
// fallback fixo 09:00–17:00.
func (r *Resolver) candidates(
	ctx context.Context,
	brand *models.Brand,
	service *models.Service,
	req Request,
) []slots.Slot {

	duration := time.Duration(service.DurationMin) * time.Minute
	loc := r.policy.location()

	var windows slots.DayWindows

	if hours, err := r.businessHours(ctx, service.CalendarID); err == nil && len(hours) > 0 {
		windows = slots.FromBusinessHours(hours)
	} else if brand.AvailabilityMarker != "" {
		if pattern, err := r.recurringPattern(ctx, brand, req.From, req.To); err == nil && len(pattern) > 0 {
			windows = slots.FromPattern(pattern)
		}
	}

	if len(windows) == 0 {
		windows = slots.FixedDay("09:00", "17:00")
	}

	return slots.Generate(req.From, req.To, duration, r.policy.step(), windows, loc)
}

func (r *Resolver) businessHours(ctx context.Context, calendarID string) ([]provider.DayHours, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)

	cctx, cancel := context.WithTimeout(ctx, r.policy.callTimeout())
	defer cancel()

	return r.calendars.GetBusinessHours(cctx, calendarID)
}

func (r *Resolver) recurringPattern(ctx context.Context, brand *models.Brand, from, to time.Time) ([]provider.PatternWindow, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)

	cctx, cancel := context.WithTimeout(ctx, r.policy.callTimeout())
	defer cancel()

	return r.calendars.RecurringPattern(cctx, brand.CalendarID, brand.AvailabilityMarker, from, to)
}

// filterPast exclui slots não estritamente futuros; com SkipSameDay, exclui
// também o restante do dia local corrente.
func (r *Resolver) filterPast(candidates []slots.Slot, brand *models.Brand, now time.Time) []slots.Slot {
	if now.IsZero() {
		now = time.Now()
	}

	cutoff := now
	if brand.SkipSameDay {
		_, nextDay := timezone.DayBoundsIn(now, r.policy.location())
		cutoff = nextDay.Add(-time.Nanosecond)
	}

	out := candidates[:0:0]
	for _, s := range candidates {
		if s.Start.After(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

// checkSlot avalia um slot: calendário do serviço, da marca e de cada
// funcionário candidato, todos em paralelo. Disponível sse todos os
// calendários exigidos reportam ausência de conflito; no modo "todos",
// basta um funcionário livre, e o subconjunto livre é anotado.
func (r *Resolver) checkSlot(
	ctx context.Context,
	brand *models.Brand,
	service *models.Service,
	staff []models.Employee,
	slot slots.Slot,
) (bool, []string) {

	type result struct {
		calendar string
		free     bool
	}

	calendars := []string{service.CalendarID, brand.CalendarID}
	for _, e := range staff {
		calendars = append(calendars, e.PrimaryCalendarID)
	}

	results := make([]result, len(calendars))

	g, gctx := errgroup.WithContext(ctx)
	for i, cal := range calendars {
		i, cal := i, cal
		g.Go(func() error {
			results[i] = result{
				calendar: cal,
				free:     r.calendarFree(gctx, cal, slot.Start, slot.End),
			}
			return nil
		})
	}
	_ = g.Wait()

	if !results[0].free || !results[1].free {
		return false, nil
	}

	var freeStaff []string
	for i, e := range staff {
		if results[2+i].free {
			freeStaff = append(freeStaff, e.ID)
		}
	}

	return len(freeStaff) > 0, freeStaff
}

func (r *Resolver) calendarFree(ctx context.Context, calendarID string, start, end time.Time) bool {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer r.sem.Release(1)

	cctx, cancel := context.WithTimeout(ctx, r.policy.callTimeout())
	defer cancel()

	conflict, err := r.calendars.HasConflict(cctx, calendarID, start, end, r.policy.TentativeBlocks)
	if err != nil {
		// fail-closed: calendário com erro conta como indisponível
		log.Printf("availability: calendar %s check failed, treating as busy: %v", calendarID, err)
		return false
	}
	return !conflict
}
