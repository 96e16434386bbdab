package models

import "time"

// Requester is a client contact who requests development work.
type Requester struct {
	ID        string `gorm:"primaryKey;size:32"`
	Name      string `gorm:"size:128;not null"`
	Email     string `gorm:"size:128;uniqueIndex"`
	Company   string `gorm:"size:128"`
	Phone     string `gorm:"size:32"`
	Active    bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Tasks []Task `gorm:"foreignKey:RequesterID"`
}
