package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KundeServices/booking-gateway/internal/availability"
	"github.com/KundeServices/booking-gateway/internal/httperr"
	"github.com/KundeServices/booking-gateway/internal/httpresp"
)

// maxSlotsPerResponse limita a resposta pública; o resolver nunca trunca
// por conta própria — corte é preocupação desta camada.
const maxSlotsPerResponse = 20

type AvailabilityHandler struct {
	resolver *availability.Resolver
}

func NewAvailabilityHandler(resolver *availability.Resolver) *AvailabilityHandler {
	return &AvailabilityHandler{resolver: resolver}
}

type availabilityRequest struct {
	BrandID    string `json:"brand_id" binding:"required"`
	ServiceID  string `json:"service_id" binding:"required"`
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
}

func (h *AvailabilityHandler) Resolve(c *gin.Context) {
	var req availabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_payload", err.Error())
		return
	}

	from, err1 := time.Parse(time.RFC3339, req.StartDate)
	to, err2 := time.Parse(time.RFC3339, req.EndDate)
	if err1 != nil || err2 != nil || !to.After(from) {
		httperr.BadRequest(c, httperr.CodeInvalidRange, "start_date/end_date must be RFC3339 with end after start")
		return
	}

	result, err := h.resolver.Resolve(c.Request.Context(), availability.Request{
		BrandID:    req.BrandID,
		ServiceID:  req.ServiceID,
		EmployeeID: req.EmployeeID,
		From:       from.UTC(),
		To:         to.UTC(),
		Now:        time.Now().UTC(),
		Limit:      maxSlotsPerResponse,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.List(c, result)
}
