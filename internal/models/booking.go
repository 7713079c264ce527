package models

import "time"

type Booking struct {
	ID string `gorm:"primaryKey;size:40" json:"id"`

	BrandID    string `gorm:"size:60;index" json:"brand_id"`
	ServiceID  string `gorm:"size:60" json:"service_id"`
	EmployeeID string `gorm:"size:60;index" json:"employee_id"`

	CustomerName  string `gorm:"size:100" json:"customer_name"`
	CustomerEmail string `gorm:"size:100;index" json:"customer_email"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	// IDs de correlação no provider, necessários para cancelar depois.
	AppointmentID string `gorm:"size:120;index" json:"appointment_id"`
	BrandEventID  string `gorm:"size:120;index" json:"brand_event_id"`
	StaffEventID  string `gorm:"size:120;index" json:"staff_event_id"`

	Notes        string     `gorm:"size:255" json:"notes"`
	CancelReason string     `gorm:"size:255" json:"cancel_reason"`
	CancelledAt  *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
