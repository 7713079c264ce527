package provider

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseISODuration converte durações ISO-8601 do provider ("PT30M", "PT1H",
// "PT1H30M") em minutos: horas*60 + minutos.
func ParseISODuration(raw string) (int, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if !strings.HasPrefix(s, "PT") || len(s) == 2 {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", raw)
	}
	s = s[2:]

	minutes := 0
	num := ""
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
		case r == 'H':
			if num == "" {
				return 0, fmt.Errorf("invalid ISO-8601 duration %q", raw)
			}
			h, _ := strconv.Atoi(num)
			minutes += h * 60
			num = ""
		case r == 'M':
			if num == "" {
				return 0, fmt.Errorf("invalid ISO-8601 duration %q", raw)
			}
			m, _ := strconv.Atoi(num)
			minutes += m
			num = ""
		case r == 'S':
			// segundos são ignorados
			num = ""
		default:
			return 0, fmt.Errorf("invalid ISO-8601 duration %q", raw)
		}
	}

	if num != "" {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", raw)
	}
	if minutes <= 0 {
		return 0, fmt.Errorf("non-positive ISO-8601 duration %q", raw)
	}

	return minutes, nil
}
