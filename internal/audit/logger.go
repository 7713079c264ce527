package audit

import (
	"encoding/json"
	"log"

	"gorm.io/gorm"

	"github.com/KundeServices/booking-gateway/internal/models"
)

// GormSink persiste eventos de auditoria no banco.
type GormSink struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Log(ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	entry := models.AuditLog{
		BrandID:   ev.BrandID,
		BookingID: ev.BookingID,
		Action:    ev.Action,
		Entity:    ev.Entity,
		Metadata:  metaJSON,
	}

	return s.db.Create(&entry).Error
}

// StdoutSink é o fallback quando não há banco configurado.
type StdoutSink struct{}

func (StdoutSink) Log(ev Event) error {
	log.Printf("audit: brand=%s booking=%s action=%s", ev.BrandID, ev.BookingID, ev.Action)
	return nil
}

var (
	_ Sink = (*GormSink)(nil)
	_ Sink = StdoutSink{}
)
