package dto

import "time"

type BookingListDTO struct {
	ID            string    `json:"id"`
	BrandID       string    `json:"brand_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	ServiceName   string    `json:"service_name"`
	EmployeeName  string    `json:"employee_name"`
}
