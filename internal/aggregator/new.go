package aggregator

import (
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

const (
	DefaultInputCapacity = 4000
	DefaultDepthLimit    = 3
	DefaultWorkers       = 1
)

// Options tunes recombination.
type Options struct {
	// InputCapacity is the chunk size used when a combined summary is re-chunked
	InputCapacity int
	// DepthLimit caps the number of summarization rounds
	DepthLimit int
	// Workers caps concurrent SummarizeFunc calls within a round
	Workers int
}

type implAggregator struct {
	opts   Options
	logger logger.Logger
}

// New creates an Aggregator. Zero options take their defaults.
func New(opts Options, log logger.Logger) Aggregator {
	if opts.InputCapacity <= 0 {
		opts.InputCapacity = DefaultInputCapacity
	}
	if opts.DepthLimit <= 0 {
		opts.DepthLimit = DefaultDepthLimit
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}

	return &implAggregator{
		opts:   opts,
		logger: log,
	}
}
