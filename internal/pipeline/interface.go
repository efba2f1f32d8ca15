package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

// Pipeline turns a video URL into a bounded-length summary.
// One Pipeline is safe for concurrent Run calls.
type Pipeline interface {
	// Run summarizes the video using the configured max output length.
	Run(ctx context.Context, videoURL string) (models.FinalSummary, error)
	// RunWithLimit overrides the max output length; n <= 0 uses the configured one.
	RunWithLimit(ctx context.Context, videoURL string, n int) (models.FinalSummary, error)
}
