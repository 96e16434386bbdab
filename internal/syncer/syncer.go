// Package syncer implements the batch reconciliation jobs that keep
// delivery state consistent with the external git hosting and task-tracker
// systems. Jobs process candidates one at a time; a failure on one item is
// logged and never aborts the batch.
package syncer

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotConfigured is returned by a job whose integration credentials are
// missing. The caller decides how loudly to surface it; per-item errors
// never bubble up this way.
var ErrNotConfigured = errors.New("syncer: integration not configured")

// Summary aggregates per-item outcomes of one batch run.
type Summary struct {
	Processed  int       `json:"processed"`
	Synced     int       `json:"synced"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Elapsed returns the run duration.
func (s *Summary) Elapsed() time.Duration {
	return s.FinishedAt.Sub(s.StartedAt)
}

func (s *Summary) String() string {
	return fmt.Sprintf("processed=%d synced=%d skipped=%d failed=%d elapsed=%s",
		s.Processed, s.Synced, s.Skipped, s.Failed, s.Elapsed().Round(time.Millisecond))
}
