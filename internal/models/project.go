package models

import "time"

// Project is a codebase deliveries are made against.
type Project struct {
	ID          string `gorm:"primaryKey;size:32"`
	Name        string `gorm:"size:128;not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	Repository  string `gorm:"size:256"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
