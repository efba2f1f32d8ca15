package aggregator

import (
	"context"

	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

// SummarizeFunc produces the summary of one chunk.
type SummarizeFunc func(ctx context.Context, chunk models.Chunk) (string, error)

// Aggregator maps SummarizeFunc over chunks and folds the partial summaries
// into one summary of at most targetLength runes.
type Aggregator interface {
	Summarize(ctx context.Context, chunks []models.Chunk, targetLength int, fn SummarizeFunc) (models.FinalSummary, error)
}
