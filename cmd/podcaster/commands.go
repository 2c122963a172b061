package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"podcaster/internal/domain"
)

func withApp(cmd *cobra.Command, opts *options, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, opts.cfg, opts.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			opts.logger.Warn("close resources", "error", err)
		}
	}()
	return fn(ctx, a)
}

func newServeCommand(opts *options) *cobra.Command {
	var noWorker bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve feeds and run the import worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				ctx, cancel := context.WithCancel(ctx)
				defer cancel()

				errCh := make(chan error, 2)
				running := 1
				go func() { errCh <- a.server.Start(ctx) }()
				if !noWorker {
					running++
					go func() { errCh <- a.scheduler.Start(ctx) }()
				}

				var firstErr error
				for range running {
					err := <-errCh
					if err != nil && !errors.Is(err, context.Canceled) && firstErr == nil {
						firstErr = err
					}
					cancel()
				}
				a.logger.Info("shutdown complete")
				return firstErr
			})
		},
	}
	cmd.Flags().BoolVar(&noWorker, "no-worker", false, "serve feeds without processing import jobs")
	return cmd
}

func newImportCommand(opts *options) *cobra.Command {
	var (
		job     domain.ImportJob
		queue   bool
		fromIdx []int64
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import episodes from an RSS feed or indexed assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			job.Source = domain.JobSourceRSS
			if len(fromIdx) > 0 {
				job.Source = domain.JobSourceAssetIndex
				job.AssetIDs = fromIdx
			}
			if job.PodcastID <= 0 {
				return fmt.Errorf("--podcast is required")
			}
			if job.Source == domain.JobSourceRSS && job.FeedURL == "" {
				return fmt.Errorf("--feed or --assets is required")
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.jobs.Enqueue(ctx, &job); err != nil {
					return err
				}
				if queue {
					fmt.Fprintf(cmd.OutOrStdout(), "queued job %d\n", job.ID)
					return nil
				}
				// Run the queue now, including the job just added.
				processed := a.scheduler.Drain(ctx)
				done, err := a.jobs.Job(ctx, job.ID)
				if err != nil {
					return err
				}
				opts.logger.Info("import finished", "jobs_processed", processed, "job_id", done.ID, "status", done.Status)
				return printJSON(cmd, done)
			})
		},
	}

	cmd.Flags().Int64Var(&job.PodcastID, "podcast", 0, "podcast id")
	cmd.Flags().Int64Var(&job.SiteID, "site", 0, "site id")
	cmd.Flags().StringVar(&job.FeedURL, "feed", "", "RSS feed url")
	cmd.Flags().IntVar(&job.Limit, "limit", 0, "maximum number of episodes to import")
	cmd.Flags().Int64SliceVar(&fromIdx, "assets", nil, "indexed asset ids to import as episodes")
	cmd.Flags().BoolVar(&queue, "queue", false, "only enqueue the job for the worker")
	return cmd
}

func newMetaCommand(opts *options) *cobra.Command {
	var (
		episodeID int64
		siteID    int64
		apply     bool
		flags     domain.ImportFlags
	)

	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Import tag metadata from an episode's audio file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if episodeID <= 0 {
				return fmt.Errorf("--episode is required")
			}
			flags.Preview = !apply
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				plan, err := a.meta.Import(ctx, episodeID, siteID, flags)
				if err != nil {
					return err
				}
				return printJSON(cmd, plan)
			})
		},
	}

	cmd.Flags().Int64Var(&episodeID, "episode", 0, "episode id")
	cmd.Flags().Int64Var(&siteID, "site", 0, "site id")
	cmd.Flags().BoolVar(&apply, "apply", false, "save the merged values instead of previewing them")
	cmd.Flags().BoolVar(&flags.OverwriteTitle, "overwrite-title", false, "replace a non-empty title")
	cmd.Flags().BoolVar(&flags.OverwriteNumber, "overwrite-number", false, "replace a non-empty episode number")
	cmd.Flags().BoolVar(&flags.OverwriteImage, "overwrite-image", false, "replace a non-empty cover image")
	cmd.Flags().BoolVar(&flags.OverwritePubDate, "overwrite-pubdate", false, "replace a non-empty publish date")
	return cmd
}

func newRetryCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <job-id>",
		Short: "Queue a failed or stale import job again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if err := a.jobs.Retry(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "requeued job %d\n", id)
				return nil
			})
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
