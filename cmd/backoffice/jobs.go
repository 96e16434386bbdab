package main

import (
	"time"

	"github.com/squadworks/backoffice/internal/config"
	"github.com/squadworks/backoffice/internal/gitprovider"
	"github.com/squadworks/backoffice/internal/syncer"
	"github.com/squadworks/backoffice/internal/tracker"
	"gorm.io/gorm"
)

// buildRegistry assembles the git provider registry from config. An empty
// GitHub token yields an empty registry, which the reconciler reports as
// not configured.
func buildRegistry(cfg *config.Config) *gitprovider.Registry {
	timeout := time.Duration(cfg.Sync.HTTPTimeoutSeconds) * time.Second
	gh, err := gitprovider.NewGitHub(cfg.GitHub.Token, cfg.GitHub.APIBase, timeout)
	if err != nil {
		return gitprovider.NewRegistry()
	}
	return gitprovider.NewRegistry(gh)
}

// buildTrackerJob wires the tracker forward sync. The TrackerAPI must stay
// a true nil when no token is configured, so the interface value is only
// assigned from a non-nil client.
func buildTrackerJob(gormDB *gorm.DB, cfg *config.Config) *syncer.TrackerSync {
	var api syncer.TrackerAPI
	timeout := time.Duration(cfg.Sync.HTTPTimeoutSeconds) * time.Second
	if client, err := tracker.NewClient(cfg.ClickUp.Token, cfg.ClickUp.APIBase, timeout); err == nil {
		api = client
	}
	return syncer.NewTrackerSync(gormDB, api)
}

func buildPRJob(gormDB *gorm.DB, cfg *config.Config) *syncer.PRReconciler {
	return syncer.NewPRReconciler(gormDB, buildRegistry(cfg))
}
