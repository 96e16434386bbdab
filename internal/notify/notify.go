// Package notify posts batch-run summaries to chat platforms. Delivery is
// best-effort: failures are logged and never surfaced to the jobs.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/squadworks/backoffice/internal/syncer"
)

const postTimeout = 10 * time.Second

// Notifier delivers one run summary to a single platform.
type Notifier interface {
	Name() string
	PostSummary(ctx context.Context, title string, sum *syncer.Summary) error
}

// FormatSummary renders a run summary as a single chat line.
func FormatSummary(title string, sum *syncer.Summary) string {
	return fmt.Sprintf("%s: %d processed, %d synced, %d skipped, %d failed (%s)",
		title, sum.Processed, sum.Synced, sum.Skipped, sum.Failed,
		sum.Elapsed().Round(time.Millisecond))
}

// All fans a summary out to every notifier, logging failures. The returned
// function is shaped for scheduler.AfterRunFunc.
func All(notifiers []Notifier) func(name string, sum *syncer.Summary) {
	return func(name string, sum *syncer.Summary) {
		for _, n := range notifiers {
			ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
			if err := n.PostSummary(ctx, name, sum); err != nil {
				log.Printf("notify: %s: post summary: %v", n.Name(), err)
			}
			cancel()
		}
	}
}
