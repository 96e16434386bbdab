package models

import (
	"time"

	"github.com/squadworks/backoffice/internal/status"
)

// Delivery groups the items delivered against a task. Status is a cached
// aggregate of the item statuses; it is recomputed and written back on
// every item mutation, never patched incrementally.
type Delivery struct {
	ID              string  `gorm:"primaryKey;size:32"`
	TaskID          string  `gorm:"size:32;index"`
	BillingPeriodID *string `gorm:"size:32;index"`
	Status          string  `gorm:"size:16;default:PENDING;index"`
	Notes           string  `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Task          *Task          `gorm:"foreignKey:TaskID"`
	BillingPeriod *BillingPeriod `gorm:"foreignKey:BillingPeriodID"`
	Items         []DeliveryItem `gorm:"foreignKey:DeliveryID;constraint:OnDelete:CASCADE"`
}

// RecomputeStatus refreshes the cached aggregate status from the loaded
// item collection. Callers persist the change alongside the item mutation.
func (d *Delivery) RecomputeStatus() {
	statuses := make([]status.Status, len(d.Items))
	for i, item := range d.Items {
		statuses[i] = status.Parse(item.Status)
	}
	d.Status = string(status.Aggregate(statuses))
}

// DeliveryItem is the smallest trackable unit of delivery, optionally
// linked to a branch and pull request. Merged and MergedAt are set at most
// once by PR reconciliation and never unset.
type DeliveryItem struct {
	ID           string  `gorm:"primaryKey;size:32"`
	DeliveryID   string  `gorm:"size:32;index"`
	ProjectID    *string `gorm:"size:32;index"`
	Status       string  `gorm:"size:16;default:PENDING;index"`
	Description  string  `gorm:"size:256"`
	Branch       string  `gorm:"size:128"`
	SourceBranch string  `gorm:"size:128"`
	PullRequest  *string `gorm:"size:256"`
	Merged       bool    `gorm:"default:false;index"`
	MergedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Project *Project `gorm:"foreignKey:ProjectID"`
}
