package httperr

import "errors"

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// ===============================
// Códigos de negócio
// ===============================

const (
	CodeBrandNotFound      = "brand_not_found"
	CodeServiceNotFound    = "service_not_found"
	CodeEmployeeNotFound   = "employee_not_found"
	CodeBookingNotFound    = "booking_not_found"
	CodeEmployeeNotInBrand = "employee_not_in_brand"
	CodeSlotUnavailable    = "slot_unavailable"
	CodeNoStaffAvailable   = "no_staff_available"
	CodeAlreadyCancelled   = "already_cancelled"
	CodeInvalidRange       = "invalid_range"
)
