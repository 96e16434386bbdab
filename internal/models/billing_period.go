package models

import "time"

// BillingPeriod groups deliveries invoiced together, one per month.
type BillingPeriod struct {
	ID        string `gorm:"primaryKey;size:32"`
	Month     int    `gorm:"not null;uniqueIndex:idx_billing_period_month_year"`
	Year      int    `gorm:"not null;uniqueIndex:idx_billing_period_month_year"`
	Closed    bool   `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Deliveries []Delivery `gorm:"foreignKey:BillingPeriodID"`
}
