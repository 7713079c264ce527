package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string   `json:"error_code"`
	Message string   `json:"message"`
	Detail  []string `json:"detail,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// ===============================
// Mapeamento de erros → HTTP
// ===============================

var statusByCode = map[string]int{
	CodeBrandNotFound:      http.StatusNotFound,
	CodeServiceNotFound:    http.StatusNotFound,
	CodeEmployeeNotFound:   http.StatusNotFound,
	CodeBookingNotFound:    http.StatusNotFound,
	CodeEmployeeNotInBrand: http.StatusBadRequest,
	CodeInvalidRange:       http.StatusBadRequest,
	CodeSlotUnavailable:    http.StatusConflict,
	CodeNoStaffAvailable:   http.StatusConflict,
	CodeAlreadyCancelled:   http.StatusConflict,
}

var messageByCode = map[string]string{
	CodeSlotUnavailable:  "the selected time slot is no longer available, please pick another",
	CodeNoStaffAvailable: "no staff member is free for the requested time",
	CodeAlreadyCancelled: "this booking has already been cancelled",
}

// WriteError resolve o status e o corpo a partir do tipo do erro.
func WriteError(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		status, ok := statusByCode[be.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		msg := messageByCode[be.Code]
		if msg == "" {
			msg = be.Code
		}
		Write(c, status, be.Code, msg)
		return
	}

	var pr *PartialReservationError
	if errors.As(err, &pr) {
		c.JSON(http.StatusBadGateway, HTTPError{
			Code:    "partial_reservation",
			Message: "reservation was only partially applied",
			Detail:  pr.Created,
		})
		return
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		Write(c, http.StatusBadGateway, "provider_error", "calendar provider request failed")
		return
	}

	Internal(c, "internal_error", "unexpected error")
}
