package aggregator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/nguyentantai21042004/caption-digest/internal/chunker"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

func makeChunks(texts ...string) []models.Chunk {
	chunks := make([]models.Chunk, len(texts))
	offset := 0
	for i, text := range texts {
		chunks[i] = models.Chunk{Index: i, Text: text, Start: offset, End: offset + len(text)}
		offset += len(text)
	}
	return chunks
}

func TestSummarizePartialFailure(t *testing.T) {
	agg := New(Options{}, logger.Nop())
	chunks := makeChunks("first chunk", "second chunk", "third chunk")

	fn := func(ctx context.Context, c models.Chunk) (string, error) {
		if c.Index == 1 {
			return "", models.NewError(models.CodeModelError, "backend down", nil)
		}
		return "summary-" + c.Text, nil
	}

	got, err := agg.Summarize(context.Background(), chunks, 4000, fn)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if want := "summary-first chunk summary-third chunk"; got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
	if len(got.Partials) != 2 || got.Partials[0].SourceChunkIndex != 0 || got.Partials[1].SourceChunkIndex != 2 {
		t.Errorf("Partials = %+v, want chunks 0 and 2", got.Partials)
	}
	if len(got.FailedChunks) != 1 || got.FailedChunks[0] != 1 {
		t.Errorf("FailedChunks = %v, want [1]", got.FailedChunks)
	}
}

func TestSummarizeAllFail(t *testing.T) {
	agg := New(Options{Workers: 3}, logger.Nop())
	chunks := makeChunks("a", "b", "c", "d")

	fn := func(ctx context.Context, c models.Chunk) (string, error) {
		return "", errors.New("model exploded")
	}

	_, err := agg.Summarize(context.Background(), chunks, 100, fn)
	if !errors.Is(err, models.ErrAllChunksFailed) {
		t.Errorf("Summarize() error = %v, want ErrAllChunksFailed", err)
	}
}

func TestSummarizeEmptyOutputCountsAsFailure(t *testing.T) {
	agg := New(Options{}, logger.Nop())
	chunks := makeChunks("a", "b")

	fn := func(ctx context.Context, c models.Chunk) (string, error) {
		if c.Index == 0 {
			return "   ", nil
		}
		return "ok", nil
	}

	got, err := agg.Summarize(context.Background(), chunks, 100, fn)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got.Text != "ok" || len(got.FailedChunks) != 1 {
		t.Errorf("got %+v, want only chunk 1 to succeed", got)
	}
}

func TestSummarizeNoChunks(t *testing.T) {
	agg := New(Options{}, logger.Nop())

	_, err := agg.Summarize(context.Background(), nil, 100, func(ctx context.Context, c models.Chunk) (string, error) {
		return "x", nil
	})
	if !errors.Is(err, models.ErrAllChunksFailed) {
		t.Errorf("Summarize() error = %v, want ErrAllChunksFailed", err)
	}
}

func TestSummarizeInvalidTarget(t *testing.T) {
	agg := New(Options{}, logger.Nop())

	_, err := agg.Summarize(context.Background(), makeChunks("a"), 0, func(ctx context.Context, c models.Chunk) (string, error) {
		return "x", nil
	})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("Summarize() error = %v, want ErrInvalidInput", err)
	}
}

func TestSummarizeTerminatesWithIdentity(t *testing.T) {
	const depthLimit = 3
	agg := New(Options{InputCapacity: 50, DepthLimit: depthLimit}, logger.Nop())

	text := strings.Repeat("word ", 200)
	chunks, err := chunker.Split(text, 50)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	var calls atomic.Int32
	fn := func(ctx context.Context, c models.Chunk) (string, error) {
		calls.Add(1)
		return c.Text, nil
	}

	got, err := agg.Summarize(context.Background(), chunks, 120, fn)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if got.Rounds > depthLimit {
		t.Errorf("Rounds = %d, want <= %d", got.Rounds, depthLimit)
	}
	if !got.Truncated {
		t.Error("Truncated = false, want true")
	}
	if n := utf8.RuneCountInString(got.Text); n > 120 {
		t.Errorf("Text has %d runes, want <= 120", n)
	}
	if int(calls.Load()) > depthLimit*len(chunks)*2 {
		t.Errorf("summarize called %d times, recursion did not stop", calls.Load())
	}
}

func TestSummarizeStopsAtDepthLimit(t *testing.T) {
	agg := New(Options{InputCapacity: 200, DepthLimit: 3}, logger.Nop())

	var texts []string
	for i := 0; i < 10; i++ {
		texts = append(texts, strings.Repeat("a ", 50))
	}
	chunks := makeChunks(texts...)

	// Shrinks every chunk by a single rune so each round makes a little progress
	fn := func(ctx context.Context, c models.Chunk) (string, error) {
		r := []rune(c.Text)
		return string(r[:len(r)-1]), nil
	}

	got, err := agg.Summarize(context.Background(), chunks, 50, fn)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if got.Rounds != 3 {
		t.Errorf("Rounds = %d, want 3", got.Rounds)
	}
	if !got.Truncated {
		t.Error("Truncated = false, want true")
	}
	if n := utf8.RuneCountInString(got.Text); n > 50 {
		t.Errorf("Text has %d runes, want <= 50", n)
	}
	if got.Chunks != 10 {
		t.Errorf("Chunks = %d, want 10", got.Chunks)
	}
}

func TestSummarizeRecursesUntilFit(t *testing.T) {
	agg := New(Options{InputCapacity: 100, DepthLimit: 5}, logger.Nop())

	var texts []string
	for i := 0; i < 8; i++ {
		texts = append(texts, strings.Repeat("lorem ipsum ", 8))
	}
	chunks := makeChunks(texts...)

	// Halves its input, keeping whole words
	fn := func(ctx context.Context, c models.Chunk) (string, error) {
		words := strings.Fields(c.Text)
		return strings.Join(words[:(len(words)+1)/2], " "), nil
	}

	got, err := agg.Summarize(context.Background(), chunks, 150, fn)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if got.Rounds < 2 {
		t.Errorf("Rounds = %d, want recursion", got.Rounds)
	}
	if got.Truncated {
		t.Error("Truncated = true, want a fitting summary")
	}
	if n := utf8.RuneCountInString(got.Text); n > 150 {
		t.Errorf("Text has %d runes, want <= 150", n)
	}
}

func TestSummarizeKeepsPreviousRoundWhenRecursionFails(t *testing.T) {
	agg := New(Options{InputCapacity: 100, DepthLimit: 3}, logger.Nop())

	var texts []string
	for i := 0; i < 4; i++ {
		texts = append(texts, "raw "+strings.Repeat("x", 96))
	}
	chunks := makeChunks(texts...)

	// First-round chunks summarize, re-chunked summaries all fail
	fn := func(ctx context.Context, c models.Chunk) (string, error) {
		if strings.HasPrefix(c.Text, "raw") {
			return strings.TrimSpace(strings.Repeat("part ", 8)), nil
		}
		return "", models.NewError(models.CodeModelError, "backend down", nil)
	}

	got, err := agg.Summarize(context.Background(), chunks, 50, fn)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if got.Rounds != 1 {
		t.Errorf("Rounds = %d, want 1", got.Rounds)
	}
	if !got.Truncated {
		t.Error("Truncated = false, want true")
	}
	if len(got.Partials) != 4 {
		t.Errorf("Partials = %d, want the 4 first-round partials", len(got.Partials))
	}
	if len(got.FailedChunks) != 0 {
		t.Errorf("FailedChunks = %v, want none", got.FailedChunks)
	}
	if n := utf8.RuneCountInString(got.Text); n == 0 || n > 50 {
		t.Errorf("Text has %d runes, want 1..50", n)
	}
	if !strings.HasPrefix(got.Text, "part part") {
		t.Errorf("Text = %q, want the first-round summary", got.Text)
	}
}

func TestSummarizeKeepsChunkOrderWithWorkers(t *testing.T) {
	agg := New(Options{Workers: 4}, logger.Nop())
	chunks := makeChunks("0", "1", "2", "3", "4", "5", "6", "7")

	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0

	fn := func(ctx context.Context, c models.Chunk) (string, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		// Later chunks finish first
		time.Sleep(time.Duration(len(chunks)-c.Index) * 5 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return "s" + c.Text, nil
	}

	got, err := agg.Summarize(context.Background(), chunks, 1000, fn)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if want := "s0 s1 s2 s3 s4 s5 s6 s7"; got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
	if maxInFlight > 4 {
		t.Errorf("max in flight = %d, want <= 4", maxInFlight)
	}
}

func TestSummarizeCancelled(t *testing.T) {
	agg := New(Options{Workers: 2}, logger.Nop())
	chunks := makeChunks("a", "b", "c", "d")

	ctx, cancel := context.WithCancel(context.Background())
	fn := func(ctx context.Context, c models.Chunk) (string, error) {
		if c.Index == 1 {
			cancel()
		}
		<-ctx.Done()
		return "", ctx.Err()
	}

	got, err := agg.Summarize(ctx, chunks, 100, fn)
	if !errors.Is(err, models.ErrCancelled) {
		t.Errorf("Summarize() error = %v, want ErrCancelled", err)
	}
	if got.Text != "" {
		t.Errorf("Text = %q, want no summary on cancellation", got.Text)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"fits", "short text", 20, "short text"},
		{"exact", "exact", 5, "exact"},
		{"cut at whitespace", "hello brave new world", 13, "hello brave"},
		{"boundary right after limit", "hello world", 5, "hello"},
		{"single long word", "abcdefghij", 4, "abcd"},
		{"multibyte", "xin chào các bạn", 9, "xin chào"},
		{"zero limit", "anything", 0, ""},
		{"trailing spaces trimmed", "one   two", 5, "one"},
		{"leading space then long word", " abcdefgh", 4, "abcd"},
		{"leading spaces then words", "  hello world", 7, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.limit)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
			}
			if utf8.RuneCountInString(got) > tt.limit && tt.limit >= 0 {
				t.Errorf("Truncate() result exceeds limit")
			}
		})
	}
}
