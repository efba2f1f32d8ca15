package aggregator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/nguyentantai21042004/caption-digest/internal/chunker"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

type chunkResult struct {
	text string
	err  error
}

// Summarize runs rounds of map (summarize every chunk) and reduce (join the
// partial summaries in chunk order). A round whose joined text still exceeds
// targetLength is re-chunked and summarized again, up to DepthLimit rounds.
func (a *implAggregator) Summarize(ctx context.Context, chunks []models.Chunk, targetLength int, fn SummarizeFunc) (models.FinalSummary, error) {
	if targetLength <= 0 {
		return models.FinalSummary{}, models.NewError(models.CodeInvalidInput,
			fmt.Sprintf("target length must be positive, got %d", targetLength), nil)
	}
	if len(chunks) == 0 {
		return models.FinalSummary{}, models.NewError(models.CodeAllChunksFailed, "no chunks to summarize", nil)
	}

	result := models.FinalSummary{Chunks: len(chunks)}
	inputLen := totalRunes(chunks)

	for round := 1; ; round++ {
		a.logger.Info(ctx, "Round %d: summarizing %d chunks (%d runes, %d workers)",
			round, len(chunks), inputLen, a.opts.Workers)

		partials, failed, err := a.summarizeRound(ctx, round, chunks, fn)
		if err != nil {
			return models.FinalSummary{}, err
		}
		if round == 1 {
			result.FailedChunks = failed
		}
		if len(partials) == 0 {
			if round == 1 {
				return models.FinalSummary{}, models.NewError(models.CodeAllChunksFailed,
					fmt.Sprintf("all %d chunks failed", len(chunks)), nil)
			}
			// Fall back to the previous round's text
			a.logger.Warn(ctx, "Round %d: all %d chunks failed, keeping round %d summary",
				round, len(chunks), result.Rounds)
			result.Text = Truncate(join(result.Partials), targetLength)
			result.Truncated = true
			return result, nil
		}

		combined := join(partials)
		combinedLen := utf8.RuneCountInString(combined)
		result.Partials = partials
		result.Rounds = round

		if combinedLen <= targetLength {
			result.Text = Truncate(combined, targetLength)
			a.logger.Info(ctx, "Round %d: combined summary fits (%d/%d runes)", round, combinedLen, targetLength)
			return result, nil
		}

		if round >= a.opts.DepthLimit || combinedLen >= inputLen {
			a.logger.Warn(ctx, "Round %d: combined summary still %d runes (limit %d), truncating",
				round, combinedLen, targetLength)
			result.Text = Truncate(combined, targetLength)
			result.Truncated = true
			return result, nil
		}

		next, err := chunker.Split(combined, a.opts.InputCapacity)
		if err != nil {
			return models.FinalSummary{}, fmt.Errorf("re-chunk combined summary: %w", err)
		}
		chunks, inputLen = next, combinedLen
	}
}

// summarizeRound calls fn for every chunk with at most Workers in flight.
// Failed chunks are skipped; their indexes are returned.
func (a *implAggregator) summarizeRound(ctx context.Context, round int, chunks []models.Chunk, fn SummarizeFunc) ([]models.PartialSummary, []int, error) {
	results := make([]chunkResult, len(chunks))
	sem := newSlots(a.opts.Workers)
	var wg sync.WaitGroup

	for i, chunk := range chunks {
		if err := sem.acquire(ctx); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, chunk models.Chunk) {
			defer wg.Done()
			defer sem.release()

			text, err := fn(ctx, chunk)
			if err == nil && strings.TrimSpace(text) == "" {
				err = models.NewError(models.CodeModelError, "empty summary", nil)
			}
			results[i] = chunkResult{text: text, err: err}
		}(i, chunk)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, models.NewError(models.CodeCancelled, "summarization cancelled", err)
	}

	var partials []models.PartialSummary
	var failed []int
	for i, r := range results {
		if r.err != nil {
			a.logger.Warn(ctx, "Round %d: chunk %d/%d failed: %v", round, i+1, len(chunks), r.err)
			failed = append(failed, chunks[i].Index)
			continue
		}
		partials = append(partials, models.PartialSummary{
			Text:             r.text,
			SourceChunkIndex: chunks[i].Index,
		})
	}

	a.logger.Debug(ctx, "Round %d: %d succeeded, %d failed", round, len(partials), len(failed))
	return partials, failed, nil
}

func join(partials []models.PartialSummary) string {
	parts := make([]string, len(partials))
	for i, p := range partials {
		parts[i] = p.Text
	}
	return strings.Join(parts, " ")
}

func totalRunes(chunks []models.Chunk) int {
	n := 0
	for _, c := range chunks {
		n += utf8.RuneCountInString(c.Text)
	}
	return n
}
