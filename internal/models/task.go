package models

import "time"

// Task is a requested unit of development work. TrackerTaskID links it to
// the external tracker's task; deliveries for a task with an empty tracker
// id are never pushed outbound.
type Task struct {
	ID            string  `gorm:"primaryKey;size:32"`
	Title         string  `gorm:"size:256;not null"`
	Description   string  `gorm:"type:text"`
	RequesterID   string  `gorm:"size:32;index"`
	ProjectID     *string `gorm:"size:32;index"`
	TrackerTaskID string  `gorm:"size:64;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Requester *Requester `gorm:"foreignKey:RequesterID"`
	Project   *Project   `gorm:"foreignKey:ProjectID"`
	Quotes    []Quote    `gorm:"foreignKey:TaskID"`
}
