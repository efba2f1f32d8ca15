package watcher

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
)

// Options configures a directory watcher. Zero values take defaults.
type Options struct {
	Dir           string
	MaxConcurrent int           // lists handled at once, default 2
	Settle        time.Duration // wait after a create event before reading, default 500ms
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 2
	}
	if o.Settle <= 0 {
		o.Settle = 500 * time.Millisecond
	}
	return o
}

// New watches opts.Dir, creating it when missing
func New(opts Options, handler EventHandler, log logger.Logger) (Watcher, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("watch dir is empty")
	}
	opts = opts.withDefaults()

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create watch dir: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(opts.Dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", opts.Dir, err)
	}

	return &implWatcher{
		inputDir:      opts.Dir,
		handler:       handler,
		logger:        log,
		watcher:       fsw,
		maxConcurrent: opts.MaxConcurrent,
		semaphore:     make(chan struct{}, opts.MaxConcurrent),
		settle:        opts.Settle,
		inFlight:      make(map[string]bool),
	}, nil
}
