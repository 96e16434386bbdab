package models

import "time"

// Quote estimates the cost of a task.
type Quote struct {
	ID         string  `gorm:"primaryKey;size:32"`
	TaskID     string  `gorm:"size:32;index"`
	Hours      float64 `gorm:"default:0"`
	HourlyRate float64 `gorm:"default:0"`
	Approved   bool    `gorm:"default:false"`
	Notes      string  `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Task  *Task       `gorm:"foreignKey:TaskID"`
	Items []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// QuoteItem is a line item within a quote.
type QuoteItem struct {
	ID          string  `gorm:"primaryKey;size:32"`
	QuoteID     string  `gorm:"size:32;index"`
	Description string  `gorm:"size:256;not null"`
	Hours       float64 `gorm:"default:0"`
}
