package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/caption-digest/internal/chunker"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// run tracks the state of a single invocation
type run struct {
	id    string
	state State
	p     *implPipeline
}

func (p *implPipeline) Run(ctx context.Context, videoURL string) (models.FinalSummary, error) {
	return p.RunWithLimit(ctx, videoURL, 0)
}

func (p *implPipeline) RunWithLimit(ctx context.Context, videoURL string, n int) (models.FinalSummary, error) {
	if n <= 0 {
		n = p.cfg.MaxOutputLength
	}

	r := &run{id: uuid.NewString(), state: StateIdle, p: p}
	start := time.Now()

	r.transition(ctx, StateFetchingTranscript, nil)
	videoID, err := transcript.ParseVideoID(videoURL)
	if err != nil {
		return r.fail(ctx, err)
	}

	tr, err := p.source.Fetch(ctx, videoID)
	if err != nil {
		return r.fail(ctx, sourceError(videoID, err))
	}

	text := tr.FullText()
	if strings.TrimSpace(text) == "" {
		return r.fail(ctx, models.NewError(models.CodeInvalidInput,
			fmt.Sprintf("transcript for %s is empty", videoID), nil))
	}

	r.transition(ctx, StateChunking, nil)
	chunks, err := chunker.Split(text, p.summarizer.InputCapacity())
	if err != nil {
		return r.fail(ctx, err)
	}
	p.logger.Info(ctx, "[%s] %s: %d chars of transcript in %d chunks", r.short(), videoID, len(text), len(chunks))

	r.transition(ctx, StateSummarizing, nil)
	summary, err := p.aggregator.Summarize(ctx, chunks, n, func(ctx context.Context, c models.Chunk) (string, error) {
		return p.summarizer.Summarize(ctx, c.Text, p.cfg.MinLength, p.cfg.MaxLength)
	})
	if err != nil {
		return r.fail(ctx, err)
	}

	summary.RunID = r.id
	summary.VideoID = videoID

	r.transition(ctx, StateDone, nil)
	p.logger.Info(ctx, "[%s] %s: summary of %d chars in %d rounds (%s)",
		r.short(), videoID, len([]rune(summary.Text)), summary.Rounds, time.Since(start).Round(time.Millisecond))

	return summary, nil
}

func (r *run) transition(ctx context.Context, to State, err error) {
	from := r.state
	r.state = to
	r.p.logger.Debug(ctx, "[%s] %s -> %s", r.short(), from, to)

	if r.p.observer != nil {
		r.p.observer(Event{RunID: r.id, From: from, To: to, Err: err})
	}
}

// fail moves the run to Failed. Cancellation of ctx wins over whatever
// error the interrupted step produced.
func (r *run) fail(ctx context.Context, err error) (models.FinalSummary, error) {
	if ctx.Err() != nil && !errors.Is(err, models.ErrCancelled) {
		err = models.NewError(models.CodeCancelled, fmt.Sprintf("cancelled during %s", r.state), ctx.Err())
	}

	r.p.logger.Error(ctx, "[%s] %s failed: %v", r.short(), r.state, err)
	r.transition(ctx, StateFailed, err)
	return models.FinalSummary{}, err
}

func (r *run) short() string {
	return r.id[:8]
}

// sourceError maps any transcript source failure to TranscriptUnavailable
func sourceError(videoID string, err error) error {
	if errors.Is(err, models.ErrTranscriptUnavailable) {
		return err
	}
	return models.NewError(models.CodeTranscriptUnavailable,
		fmt.Sprintf("fetch transcript for %s", videoID), err)
}
