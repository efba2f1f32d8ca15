package cli

import (
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/pipeline"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
	"github.com/nguyentantai21042004/caption-digest/pkg/executor"
	"github.com/spf13/cobra"
)

// app wires the components shared by every subcommand
type app struct {
	cfg      *config.Config
	logger   logger.Logger
	source   *transcript.YTDLP
	handle   *summarizer.Handle
	pipeline pipeline.Pipeline
}

func newApp(cmd *cobra.Command, opts *options) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithOutput(cfg.Logging.Level, cmd.ErrOrStderr())

	// The backend is built on first use, so commands that fail early
	// never need an API key.
	handle := summarizer.NewHandle(cfg.Summarizer, log)
	source := transcript.NewYTDLP(cfg.Transcript, cfg.Paths.Temp, executor.New(), log)

	return &app{
		cfg:      cfg,
		logger:   log,
		source:   source,
		handle:   handle,
		pipeline: pipeline.New(cfg.Summary, source, handle, log),
	}, nil
}
