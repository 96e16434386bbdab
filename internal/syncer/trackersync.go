package syncer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/squadworks/backoffice/internal/models"
	"github.com/squadworks/backoffice/internal/status"
	"github.com/squadworks/backoffice/internal/tracker"
	"gorm.io/gorm"
)

// TrackerAPI is the subset of the tracker client the sync job uses,
// abstracted for testability.
type TrackerAPI interface {
	GetTask(ctx context.Context, taskID string) (*tracker.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID, label string) error
}

// TrackerSync pushes delivery status forward into the external tracker.
// The tracker is the system of record for its own workflow position: its
// currently reported label is fetched fresh on every candidate, and an
// update is issued only when it represents forward progress.
type TrackerSync struct {
	db     *gorm.DB
	client TrackerAPI
	now    func() time.Time
}

// NewTrackerSync builds the sync job. A nil client means the integration is
// not configured; Run reports that instead of scanning.
func NewTrackerSync(db *gorm.DB, client TrackerAPI) *TrackerSync {
	return &TrackerSync{db: db, client: client, now: time.Now}
}

// Run executes one sync batch and returns its summary.
func (s *TrackerSync) Run(ctx context.Context) (*Summary, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: tracker client missing (missing token?)", ErrNotConfigured)
	}

	sum := &Summary{StartedAt: s.now()}
	log.Printf("syncer: tracker sync started")

	syncable := make([]string, 0, 3)
	for _, st := range tracker.SyncableStatuses() {
		syncable = append(syncable, string(st))
	}

	var deliveries []models.Delivery
	err := s.db.Preload("Task").
		Where("status IN ?", syncable).
		Find(&deliveries).Error
	if err != nil {
		return nil, fmt.Errorf("syncer: load sync candidates: %w", err)
	}

	for i := range deliveries {
		if ctx.Err() != nil {
			log.Printf("syncer: tracker sync interrupted: %v", ctx.Err())
			break
		}
		d := &deliveries[i]
		if d.Task == nil || d.Task.TrackerTaskID == "" {
			continue // not linked to the tracker, never eligible
		}
		sum.Processed++
		s.syncDelivery(ctx, d, sum)
	}

	sum.FinishedAt = s.now()
	log.Printf("syncer: tracker sync finished: %s", sum)
	return sum, nil
}

// syncDelivery pushes one delivery's status if it advances the tracker.
func (s *TrackerSync) syncDelivery(ctx context.Context, d *models.Delivery, sum *Summary) {
	trackerID := d.Task.TrackerTaskID

	label, ok := tracker.Label(status.Parse(d.Status))
	if !ok {
		// Mapping gap: not an error, just no action.
		sum.Skipped++
		return
	}

	task, err := s.client.GetTask(ctx, trackerID)
	if err != nil {
		log.Printf("syncer: delivery %s: fetch tracker task %s: %v", d.ID, trackerID, err)
		sum.Failed++
		return
	}

	current := task.Status.Status
	if !tracker.CanAdvanceTo(current, label) {
		// Already equal or the tracker is ahead; never overwrite
		// tracker-side progress.
		sum.Skipped++
		return
	}

	if err := s.client.UpdateTaskStatus(ctx, trackerID, label); err != nil {
		log.Printf("syncer: delivery %s: update tracker task %s to %q: %v", d.ID, trackerID, label, err)
		sum.Failed++
		return
	}

	log.Printf("syncer: delivery %s: tracker task %s advanced %q -> %q", d.ID, trackerID, current, label)
	sum.Synced++
}
