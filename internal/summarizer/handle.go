package summarizer

import (
	"context"
	"sync"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

// Handle builds the configured backend on first use and shares it between
// callers. A failed build is remembered and returned on every call.
type Handle struct {
	cfg    config.SummarizerConfig
	logger logger.Logger
	build  func(config.SummarizerConfig, logger.Logger) (Summarizer, error)

	once sync.Once
	s    Summarizer
	err  error
}

func NewHandle(cfg config.SummarizerConfig, log logger.Logger) *Handle {
	return &Handle{cfg: cfg, logger: log, build: New}
}

// Ready initializes the backend if needed and reports whether it is usable
func (h *Handle) Ready() error {
	_, err := h.get()
	return err
}

func (h *Handle) get() (Summarizer, error) {
	h.once.Do(func() {
		h.s, h.err = h.build(h.cfg, h.logger)
		if h.err != nil {
			h.err = models.NewError(models.CodeModelError, "initialize summarizer", h.err)
		}
	})
	return h.s, h.err
}

func (h *Handle) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	s, err := h.get()
	if err != nil {
		return "", err
	}
	return s.Summarize(ctx, text, minLength, maxLength)
}

// InputCapacity is known from config before the backend exists
func (h *Handle) InputCapacity() int {
	return capacityOrDefault(h.cfg.InputCapacity)
}

func (h *Handle) Name() string { return h.cfg.Provider }
