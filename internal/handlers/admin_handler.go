package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KundeServices/booking-gateway/internal/httperr"
	"github.com/KundeServices/booking-gateway/internal/httpresp"
	"github.com/KundeServices/booking-gateway/internal/models"
	ucBooking "github.com/KundeServices/booking-gateway/internal/usecase/booking"
)

type AdminHandler struct {
	listUC *ucBooking.ListBookings
	db     *gorm.DB // nil quando não há banco: audit logs indisponíveis
}

func NewAdminHandler(listUC *ucBooking.ListBookings, db *gorm.DB) *AdminHandler {
	return &AdminHandler{listUC: listUC, db: db}
}

func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, err := h.listUC.All(c.Request.Context())
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.List(c, bookings)
}

type statsResponse struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	ByBrand  map[string]int `json:"by_brand"`
}

// Stats agrega contagens por status e por marca para o dashboard.
func (h *AdminHandler) Stats(c *gin.Context) {
	bookings, err := h.listUC.All(c.Request.Context())
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	resp := statsResponse{
		Total:    len(bookings),
		ByStatus: make(map[string]int),
		ByBrand:  make(map[string]int),
	}
	for _, b := range bookings {
		resp.ByStatus[b.Status]++
		resp.ByBrand[b.BrandID]++
	}

	httpresp.OK(c, resp)
}

func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	if h.db == nil {
		httpresp.List(c, []models.AuditLog{})
		return
	}

	var logs []models.AuditLog
	q := h.db.WithContext(c.Request.Context()).Order("created_at DESC").Limit(200)

	if brand := c.Query("brand"); brand != "" {
		q = q.Where("brand_id = ?", brand)
	}

	if err := q.Find(&logs).Error; err != nil {
		httperr.Internal(c, "audit_query_failed", "failed to load audit logs")
		return
	}

	httpresp.List(c, logs)
}
