package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/squadworks/backoffice/internal/models"
	"github.com/squadworks/backoffice/internal/tracker"
	"gorm.io/gorm"
)

// fakeTracker serves task labels from a canned table and records updates.
type fakeTracker struct {
	labels  map[string]string // taskID -> current label
	getErrs map[string]error
	putErrs map[string]error
	updates []string // "taskID:label" in call order
}

func (f *fakeTracker) GetTask(ctx context.Context, taskID string) (*tracker.Task, error) {
	if err, ok := f.getErrs[taskID]; ok {
		return nil, err
	}
	task := &tracker.Task{ID: taskID}
	task.Status.Status = f.labels[taskID]
	return task, nil
}

func (f *fakeTracker) UpdateTaskStatus(ctx context.Context, taskID, label string) error {
	if err, ok := f.putErrs[taskID]; ok {
		return err
	}
	f.updates = append(f.updates, taskID+":"+label)
	f.labels[taskID] = label
	return nil
}

func seedLinkedDelivery(t *testing.T, gdb *gorm.DB, deliveryStatus, trackerTaskID string) *models.Delivery {
	t.Helper()
	task := &models.Task{
		ID:            models.NewID(),
		Title:         "task for " + deliveryStatus,
		RequesterID:   models.NewID(),
		TrackerTaskID: trackerTaskID,
	}
	if err := gdb.Create(task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	d := &models.Delivery{
		ID:     models.NewID(),
		TaskID: task.ID,
		Status: deliveryStatus,
	}
	if err := gdb.Create(d).Error; err != nil {
		t.Fatalf("seed delivery: %v", err)
	}
	return d
}

func TestTrackerSync_ForwardProgressPushed(t *testing.T) {
	gdb := testDB(t)
	seedLinkedDelivery(t, gdb, "DELIVERED", "cu-1")

	fake := &fakeTracker{labels: map[string]string{"cu-1": "em progresso"}}
	s := NewTrackerSync(gdb, fake)

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Processed != 1 || sum.Synced != 1 {
		t.Errorf("summary = %s, want 1 processed, 1 synced", sum)
	}
	if len(fake.updates) != 1 || fake.updates[0] != "cu-1:entregue" {
		t.Errorf("updates = %v, want [cu-1:entregue]", fake.updates)
	}
}

func TestTrackerSync_TrackerAheadNeverOverwritten(t *testing.T) {
	gdb := testDB(t)
	seedLinkedDelivery(t, gdb, "DEVELOPMENT", "cu-1")

	// Tracker already reports a later workflow position than the candidate.
	fake := &fakeTracker{labels: map[string]string{"cu-1": "em homologação"}}
	s := NewTrackerSync(gdb, fake)

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Skipped != 1 || sum.Synced != 0 {
		t.Errorf("summary = %s, want 1 skipped, 0 synced", sum)
	}
	if len(fake.updates) != 0 {
		t.Errorf("updates = %v, want none", fake.updates)
	}
}

func TestTrackerSync_EqualLabelSkipped(t *testing.T) {
	gdb := testDB(t)
	seedLinkedDelivery(t, gdb, "DELIVERED", "cu-1")

	fake := &fakeTracker{labels: map[string]string{"cu-1": "entregue"}}
	s := NewTrackerSync(gdb, fake)

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", sum.Skipped)
	}
	if len(fake.updates) != 0 {
		t.Errorf("updates = %v, want none", fake.updates)
	}
}

func TestTrackerSync_NonSyncableAndUnlinkedExcluded(t *testing.T) {
	gdb := testDB(t)
	seedLinkedDelivery(t, gdb, "HOMOLOGATION", "cu-1") // not in the syncable set
	seedLinkedDelivery(t, gdb, "DEVELOPMENT", "")      // no tracker link

	fake := &fakeTracker{labels: map[string]string{"cu-1": "backlog"}}
	s := NewTrackerSync(gdb, fake)

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Processed != 0 {
		t.Errorf("Processed = %d, want 0", sum.Processed)
	}
	if len(fake.updates) != 0 {
		t.Errorf("updates = %v, want none", fake.updates)
	}
}

func TestTrackerSync_BatchIsolation(t *testing.T) {
	gdb := testDB(t)
	seedLinkedDelivery(t, gdb, "DEVELOPMENT", "cu-bad")
	seedLinkedDelivery(t, gdb, "DEVELOPMENT", "cu-good")

	fake := &fakeTracker{
		labels:  map[string]string{"cu-good": "backlog"},
		getErrs: map[string]error{"cu-bad": &tracker.TrackerError{Code: tracker.CodeHTTPError, StatusCode: 500}},
	}
	s := NewTrackerSync(gdb, fake)

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Processed != 2 {
		t.Errorf("Processed = %d, want 2", sum.Processed)
	}
	if sum.Failed != 1 || sum.Synced != 1 {
		t.Errorf("summary = %s, want 1 failed, 1 synced", sum)
	}
	if len(fake.updates) != 1 || fake.updates[0] != "cu-good:em progresso" {
		t.Errorf("updates = %v, want [cu-good:em progresso]", fake.updates)
	}
}

func TestTrackerSync_UpdateFailureCounted(t *testing.T) {
	gdb := testDB(t)
	seedLinkedDelivery(t, gdb, "PRODUCTION", "cu-1")

	fake := &fakeTracker{
		labels:  map[string]string{"cu-1": "entregue"},
		putErrs: map[string]error{"cu-1": &tracker.TrackerError{Code: tracker.CodeHTTPError, StatusCode: 502}},
	}
	s := NewTrackerSync(gdb, fake)

	sum, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Failed != 1 || sum.Synced != 0 {
		t.Errorf("summary = %s, want 1 failed, 0 synced", sum)
	}
}

func TestTrackerSync_NilClient_NotConfigured(t *testing.T) {
	gdb := testDB(t)
	s := NewTrackerSync(gdb, nil)

	_, err := s.Run(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}
