package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/caption-digest/internal/processor"
	"github.com/nguyentantai21042004/caption-digest/internal/watcher"
	"github.com/spf13/cobra"
)

func newWatchCommand(opts *options) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Summarize every URL list dropped into the input folder",
		Long: `Watch paths.input for URL-list files (.txt or .urls, one URL per line,
'#' starts a comment). Each video's summary is written to
paths.output/<video-id>.<ext> and the list is moved to paths.archived.

Examples:
  digest watch
  digest watch --once      # process pending lists and exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, once)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "process lists already in the input folder, then exit")
	return cmd
}

func runWatch(cmd *cobra.Command, opts *options, once bool) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	cfg := a.cfg

	if err := ensureDirectories(cfg.Paths.Input, cfg.Paths.Output, cfg.Paths.Archived); err != nil {
		return err
	}
	if err := a.handle.Ready(); err != nil {
		return err
	}
	if v, err := a.source.Version(ctx); err != nil {
		a.logger.Warn(ctx, "yt-dlp not usable, every video will fail: %v", err)
	} else {
		a.logger.Info(ctx, "yt-dlp %s", v)
	}

	proc := processor.New(cfg, a.pipeline, a.logger)

	if once {
		return processPending(ctx, proc, cfg.Paths.Input)
	}

	// Create watcher with processor as handler and concurrency control
	w, err := watcher.New(watcher.Options{
		Dir:           cfg.Paths.Input,
		MaxConcurrent: cfg.Performance.MaxConcurrent,
	}, proc.Process, a.logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	a.logger.Info(ctx, "========================================")
	a.logger.Info(ctx, "Caption digest is ready!")
	a.logger.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	a.logger.Info(ctx, "Output: %s (%s)", cfg.Paths.Output, cfg.Output.Format)
	a.logger.Info(ctx, "Provider: %s, %d chunk workers", cfg.Summarizer.Provider, cfg.Summary.ChunkWorkers)
	a.logger.Info(ctx, "Press Ctrl+C to stop")
	a.logger.Info(ctx, "========================================")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher: %w", err)
	}
	a.logger.Info(ctx, "Caption digest stopped")
	return nil
}

// processPending handles every list currently in dir, one after another
func processPending(ctx context.Context, proc processor.Processor, dir string) error {
	lists, err := watcher.Pending(dir)
	if err != nil {
		return fmt.Errorf("scan input dir: %w", err)
	}

	var failed int
	for _, path := range lists {
		if err := proc.Process(ctx, path); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d URL lists failed", failed, len(lists))
	}
	return nil
}
