package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KundeServices/booking-gateway/internal/httperr"
	"github.com/KundeServices/booking-gateway/internal/httpresp"
	ucBooking "github.com/KundeServices/booking-gateway/internal/usecase/booking"
	"github.com/KundeServices/booking-gateway/internal/validators"
)

type BookingHandler struct {
	createUC     *ucBooking.CreateBooking
	cancelUC     *ucBooking.CancelBooking
	rescheduleUC *ucBooking.RescheduleBooking
	listUC       *ucBooking.ListBookings
}

func NewBookingHandler(
	createUC *ucBooking.CreateBooking,
	cancelUC *ucBooking.CancelBooking,
	rescheduleUC *ucBooking.RescheduleBooking,
	listUC *ucBooking.ListBookings,
) *BookingHandler {
	return &BookingHandler{
		createUC:     createUC,
		cancelUC:     cancelUC,
		rescheduleUC: rescheduleUC,
		listUC:       listUC,
	}
}

// ======================================================
// CREATE
// ======================================================

type createBookingRequest struct {
	BrandID    string `json:"brand_id" binding:"required"`
	ServiceID  string `json:"service_id" binding:"required"`
	EmployeeID string `json:"employee_id"`

	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone"`

	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
	Notes string `json:"notes"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_payload", err.Error())
		return
	}

	if !validators.IsEmailDomainValid(req.CustomerEmail) {
		httperr.BadRequest(c, "invalid_email_domain", "customer email domain does not resolve")
		return
	}

	start, err1 := time.Parse(time.RFC3339, req.Start)
	end, err2 := time.Parse(time.RFC3339, req.End)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRange, "start/end must be RFC3339")
		return
	}

	b, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateInput{
		BrandID:       req.BrandID,
		ServiceID:     req.ServiceID,
		EmployeeID:    req.EmployeeID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Start:         start,
		End:           end,
		Notes:         req.Notes,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// CANCEL
// ======================================================

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	var req cancelBookingRequest
	_ = c.ShouldBindJSON(&req) // reason é opcional

	b, err := h.cancelUC.Execute(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// RESCHEDULE
// ======================================================

type rescheduleBookingRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	var req rescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_payload", err.Error())
		return
	}

	start, err1 := time.Parse(time.RFC3339, req.Start)
	end, err2 := time.Parse(time.RFC3339, req.End)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRange, "start/end must be RFC3339")
		return
	}

	b, err := h.rescheduleUC.Execute(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// ======================================================
// LIST (por cliente)
// ======================================================

func (h *BookingHandler) ListByCustomer(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		httperr.BadRequest(c, "missing_email", "email query param is required")
		return
	}

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		from, _ = time.Parse(time.RFC3339, v)
	}
	if v := c.Query("to"); v != "" {
		to, _ = time.Parse(time.RFC3339, v)
	}

	bookings, err := h.listUC.ByCustomer(c.Request.Context(), email, from, to)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.List(c, bookings)
}
