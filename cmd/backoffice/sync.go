package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/squadworks/backoffice/internal/config"
	"github.com/squadworks/backoffice/internal/db"
	"github.com/squadworks/backoffice/internal/scheduler"
	"github.com/squadworks/backoffice/internal/syncer"
	"gorm.io/gorm"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a reconciliation job once and exit",
	}

	cmd.AddCommand(newSyncPRsCmd())
	cmd.AddCommand(newSyncTrackerCmd())
	return cmd
}

func newSyncPRsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "prs",
		Short: "Reconcile delivery items against their pull requests",
		Long:  "Checks every unmerged delivery item with a pull request URL against its git provider and flags merged ones.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSyncOnce(cmd, configPath, func(cfg *config.Config) {
				if cfg.GitHub.Token == "" {
					cfg.GitHub.Token = promptToken(cmd, "GitHub token")
				}
			}, buildPRJobAdapter)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "backoffice.yaml", "path to config file")
	return cmd
}

func newSyncTrackerCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tracker",
		Short: "Push delivery statuses forward to the task tracker",
		Long:  "Maps syncable delivery statuses to tracker labels and advances linked tracker tasks that are behind.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSyncOnce(cmd, configPath, func(cfg *config.Config) {
				if cfg.ClickUp.Token == "" {
					cfg.ClickUp.Token = promptToken(cmd, "ClickUp token")
				}
			}, buildTrackerJobAdapter)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "backoffice.yaml", "path to config file")
	return cmd
}

type jobBuilder func(gormDB *gorm.DB, cfg *config.Config) scheduler.Job

func buildPRJobAdapter(gormDB *gorm.DB, cfg *config.Config) scheduler.Job {
	return buildPRJob(gormDB, cfg)
}

func buildTrackerJobAdapter(gormDB *gorm.DB, cfg *config.Config) scheduler.Job {
	return buildTrackerJob(gormDB, cfg)
}

func runSyncOnce(cmd *cobra.Command, configPath string, ensureToken func(*config.Config), build jobBuilder) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ensureToken(cfg)

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}

	job := build(gormDB, cfg)
	sum, err := job.Run(context.Background())
	if err != nil {
		if errors.Is(err, syncer.ErrNotConfigured) {
			return fmt.Errorf("job is not configured: provide the integration token via config or environment")
		}
		return err
	}

	fmt.Fprintln(out, sum.String())
	return nil
}
