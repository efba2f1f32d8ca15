package cli

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/server"
	"github.com/spf13/cobra"
)

func newServeCommand(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start an HTTP server that summarizes videos on request.

API Endpoints:
  GET  /api/health        # Health check
  POST /api/summaries     # {"url": "...", "max_output_length": 4000}

Requests must carry X-API-Key when server.api_key is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	return cmd
}

func runServe(cmd *cobra.Command, opts *options, addr string) error {
	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if addr != "" {
		a.cfg.Server.Addr = addr
	}
	if err := a.handle.Ready(); err != nil {
		a.logger.Warn(ctx, "Summarizer not ready, /api/health will report degraded: %v", err)
	}

	srv := server.New(a.cfg.Server, a.pipeline, a.handle.Ready, a.logger)

	errChan := make(chan error, 1)
	go func() { errChan <- srv.Start(ctx) }()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	a.logger.Info(ctx, "Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errChan
}
