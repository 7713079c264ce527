package provider

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const businessHoursTTL = 15 * time.Minute

// CachedCalendars decora um Calendars com cache redis do expediente por
// calendário. O provider é rate-limited e o expediente muda raramente;
// falha de cache degrada para a chamada direta, nunca para erro.
type CachedCalendars struct {
	Calendars
	rdb *redis.Client
}

func NewCachedCalendars(inner Calendars, rdb *redis.Client) *CachedCalendars {
	return &CachedCalendars{Calendars: inner, rdb: rdb}
}

func (c *CachedCalendars) GetBusinessHours(ctx context.Context, calendarID string) ([]DayHours, error) {
	key := "bizhours:" + calendarID

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var hours []DayHours
		if err := json.Unmarshal(raw, &hours); err == nil {
			return hours, nil
		}
	}

	hours, err := c.Calendars.GetBusinessHours(ctx, calendarID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(hours); err == nil {
		if err := c.rdb.Set(ctx, key, raw, businessHoursTTL).Err(); err != nil {
			log.Println("business hours cache set:", err)
		}
	}

	return hours, nil
}

var _ Calendars = (*CachedCalendars)(nil)
