package pipeline

import (
	"github.com/nguyentantai21042004/caption-digest/internal/aggregator"
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

type implPipeline struct {
	cfg        config.SummaryConfig
	source     transcript.Source
	summarizer summarizer.Summarizer
	aggregator aggregator.Aggregator
	observer   Observer
	logger     logger.Logger
}

// Option configures a Pipeline
type Option func(*implPipeline)

// WithObserver reports every state transition to fn
func WithObserver(fn Observer) Option {
	return func(p *implPipeline) {
		p.observer = fn
	}
}

// New creates a Pipeline. cfg must have passed config validation.
func New(cfg config.SummaryConfig, source transcript.Source, s summarizer.Summarizer, log logger.Logger, opts ...Option) Pipeline {
	p := &implPipeline{
		cfg:        cfg,
		source:     source,
		summarizer: s,
		logger:     log,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.aggregator = aggregator.New(aggregator.Options{
		InputCapacity: s.InputCapacity(),
		DepthLimit:    cfg.RecursionDepthLimit,
		Workers:       cfg.ChunkWorkers,
	}, log)

	return p
}
