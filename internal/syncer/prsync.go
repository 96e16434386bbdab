package syncer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/squadworks/backoffice/internal/gitprovider"
	"github.com/squadworks/backoffice/internal/models"
	"github.com/squadworks/backoffice/internal/status"
	"gorm.io/gorm"
)

// PRReconciler scans delivery items awaiting merge confirmation and
// advances any whose pull request has merged. Eligibility is gated only on
// the merged flag, not on internal status: a PR can merge after any status
// transition, and the flag is set at most once, which makes re-runs no-ops.
type PRReconciler struct {
	db       *gorm.DB
	registry *gitprovider.Registry
	now      func() time.Time
}

// NewPRReconciler builds the reconciliation job over the given provider
// registry. A nil or empty registry means the integration is not
// configured; Run reports that instead of scanning.
func NewPRReconciler(db *gorm.DB, registry *gitprovider.Registry) *PRReconciler {
	return &PRReconciler{db: db, registry: registry, now: time.Now}
}

// Run executes one reconciliation batch and returns its summary.
func (r *PRReconciler) Run(ctx context.Context) (*Summary, error) {
	if r.registry.Len() == 0 {
		return nil, fmt.Errorf("%w: no git providers registered (missing token?)", ErrNotConfigured)
	}

	sum := &Summary{StartedAt: r.now()}
	log.Printf("syncer: pull request reconciliation started")

	var items []models.DeliveryItem
	err := r.db.
		Where("pull_request IS NOT NULL AND pull_request <> '' AND merged = ?", false).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("syncer: load merge candidates: %w", err)
	}

	for i := range items {
		if ctx.Err() != nil {
			log.Printf("syncer: pull request reconciliation interrupted: %v", ctx.Err())
			break
		}
		sum.Processed++
		r.reconcileItem(ctx, &items[i], sum)
	}

	sum.FinishedAt = r.now()
	log.Printf("syncer: pull request reconciliation finished: %s", sum)
	return sum, nil
}

// reconcileItem handles one candidate. All failures are absorbed into the
// summary so the batch keeps moving.
func (r *PRReconciler) reconcileItem(ctx context.Context, item *models.DeliveryItem, sum *Summary) {
	url := *item.PullRequest

	provider := r.registry.FindProvider(url)
	if provider == nil {
		log.Printf("syncer: item %s: no git provider matches %q, skipping", item.ID, url)
		sum.Skipped++
		return
	}

	merged, err := provider.CheckIfMerged(ctx, url)
	if err != nil {
		log.Printf("syncer: item %s: %s merge check failed: %v", item.ID, provider.Name(), err)
		sum.Failed++
		return
	}
	if !merged {
		sum.Skipped++
		return
	}

	now := r.now()
	item.Merged = true
	item.MergedAt = &now
	item.Status = string(status.Production)
	if err := r.db.Save(item).Error; err != nil {
		log.Printf("syncer: item %s: save after merge: %v", item.ID, err)
		sum.Failed++
		return
	}

	if err := r.recomputeDeliveryStatus(item.DeliveryID); err != nil {
		// The item itself advanced; the cached aggregate catches up on the
		// next mutation or run.
		log.Printf("syncer: delivery %s: recompute status: %v", item.DeliveryID, err)
	}

	log.Printf("syncer: item %s merged via %s, advanced to %s", item.ID, provider.Name(), item.Status)
	sum.Synced++
}

// recomputeDeliveryStatus refreshes the parent delivery's cached aggregate
// from its full item collection.
func (r *PRReconciler) recomputeDeliveryStatus(deliveryID string) error {
	var delivery models.Delivery
	if err := r.db.Preload("Items").First(&delivery, "id = ?", deliveryID).Error; err != nil {
		return err
	}
	delivery.RecomputeStatus()
	return r.db.Model(&models.Delivery{}).
		Where("id = ?", delivery.ID).
		Update("status", delivery.Status).Error
}
