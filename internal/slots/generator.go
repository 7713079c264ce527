package slots

import (
	"time"

	"github.com/KundeServices/booking-gateway/internal/provider"
)

// Slot é uma janela candidata ou confirmada de duração fixa.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// FreeStaff é preenchido pelo resolver no modo "todos": subconjunto de
	// funcionários livres para o slot.
	FreeStaff []string `json:"free_staff,omitempty"`
}

// DayWindows mapeia dia da semana → sub-janelas locais de expediente.
type DayWindows map[time.Weekday][]provider.HM

// FixedDay devolve a tabela com a mesma janela em todos os dias úteis.
// Fallback 09:00–17:00 quando o provider não expõe expediente.
func FixedDay(start, end string) DayWindows {
	dw := make(DayWindows, 5)
	for wd := time.Monday; wd <= time.Friday; wd++ {
		dw[wd] = []provider.HM{{Start: start, End: end}}
	}
	return dw
}

// FromBusinessHours converte o expediente do provider na tabela local.
func FromBusinessHours(hours []provider.DayHours) DayWindows {
	dw := make(DayWindows, len(hours))
	for _, dh := range hours {
		dw[dh.Weekday] = append(dw[dh.Weekday], dh.Windows...)
	}
	return dw
}

// FromPattern converte janelas recorrentes mineradas do calendário
// compartilhado na tabela local.
func FromPattern(windows []provider.PatternWindow) DayWindows {
	dw := make(DayWindows, len(windows))
	for _, w := range windows {
		dw[w.Weekday] = append(dw[w.Weekday], provider.HM{Start: w.Start, End: w.End})
	}
	return dw
}

// Generate produz a sequência ordenada e finita de slots candidatos dentro
// de [rangeStart, rangeEnd), respeitando as janelas por dia da semana no
// timezone do negócio. Candidatos avançam pelo step (não pela duração), o
// que permite inícios sobrepostos; o slot final satisfaz end <= windowEnd.
// Função pura: sem relógio, sem efeitos.
func Generate(
	rangeStart time.Time,
	rangeEnd time.Time,
	duration time.Duration,
	step time.Duration,
	hours DayWindows,
	loc *time.Location,
) []Slot {

	if !rangeEnd.After(rangeStart) || duration <= 0 || step <= 0 {
		return nil
	}

	var out []Slot

	day := startOfDay(rangeStart, loc)
	for day.Before(rangeEnd) {
		windows := hours[day.Weekday()]

		for _, w := range windows {
			winStart, okStart := atTime(day, w.Start, loc)
			winEnd, okEnd := atTime(day, w.End, loc)
			if !okStart || !okEnd || !winEnd.After(winStart) {
				continue
			}

			// janelas nunca cruzam a meia-noite: são ancoradas no dia local
			for cur := winStart; ; cur = cur.Add(step) {
				slotEnd := cur.Add(duration)
				if slotEnd.After(winEnd) {
					break
				}
				if !cur.Before(rangeEnd) {
					break
				}
				if cur.Before(rangeStart) {
					continue
				}
				out = append(out, Slot{Start: cur.UTC(), End: slotEnd.UTC()})
			}
		}

		day = day.AddDate(0, 0, 1)
	}

	return out
}

// GenerateWithin produz slots dentro de uma única janela explícita, usada
// quando eventos-marcador delimitam a disponibilidade diretamente.
func GenerateWithin(winStart, winEnd time.Time, duration, step time.Duration) []Slot {
	if !winEnd.After(winStart) || duration <= 0 || step <= 0 {
		return nil
	}

	var out []Slot
	for cur := winStart; ; cur = cur.Add(step) {
		slotEnd := cur.Add(duration)
		if slotEnd.After(winEnd) {
			break
		}
		out = append(out, Slot{Start: cur.UTC(), End: slotEnd.UTC()})
	}
	return out
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func atTime(day time.Time, hm string, loc *time.Location) (time.Time, bool) {
	parsed, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0,
		loc,
	), true
}
