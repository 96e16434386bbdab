package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/squadworks/backoffice/internal/config"
	"github.com/squadworks/backoffice/internal/db"
	"github.com/squadworks/backoffice/internal/notify"
	"github.com/squadworks/backoffice/internal/scheduler"
	"github.com/squadworks/backoffice/internal/server"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API server and scheduled sync jobs",
		Long: `Starts the REST API and the cron scheduler in one process.
Pull request reconciliation and tracker forward sync run on their
configured schedules; both can also be triggered through the API.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "backoffice.yaml", "path to config file")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}

	prJob := buildPRJob(gormDB, cfg)
	trackerJob := buildTrackerJob(gormDB, cfg)

	var notifiers []notify.Notifier
	if cfg.Notify.Slack.Token != "" {
		notifiers = append(notifiers, notify.NewSlack(cfg.Notify.Slack.Token, cfg.Notify.Slack.Channel))
	}
	if cfg.Notify.Discord.BotToken != "" {
		discord, err := notify.NewDiscord(cfg.Notify.Discord.BotToken, cfg.Notify.Discord.Channel)
		if err != nil {
			return err
		}
		notifiers = append(notifiers, discord)
	}

	sched := scheduler.New(notify.All(notifiers))
	if err := sched.AddJob("pull-request-sync", cfg.Sync.PullRequestCron, prJob); err != nil {
		return err
	}
	if err := sched.AddJob("tracker-sync", cfg.Sync.TrackerCron, trackerJob); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sched.Run(ctx)

	fmt.Fprintf(out, "Scheduled pull-request-sync (%s), next in %s\n",
		cfg.Sync.PullRequestCron, scheduler.NextRun(cfg.Sync.PullRequestCron).Round(time.Second))
	fmt.Fprintf(out, "Scheduled tracker-sync (%s), next in %s\n",
		cfg.Sync.TrackerCron, scheduler.NextRun(cfg.Sync.TrackerCron).Round(time.Second))

	return server.Start(ctx, server.Opts{
		DB:         gormDB,
		Port:       cfg.Server.Port,
		PRJob:      prJob,
		TrackerJob: trackerJob,
		Out:        out,
	})
}
