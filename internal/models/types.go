package models

import (
	"strings"
	"time"
)

// TranscriptSegment is a single timed caption line.
type TranscriptSegment struct {
	Text     string
	Start    time.Duration
	Duration time.Duration
}

// End returns the offset at which the segment stops being displayed.
func (s TranscriptSegment) End() time.Duration {
	return s.Start + s.Duration
}

// Transcript holds the ordered captions of one video
type Transcript struct {
	VideoID  string
	Language string
	Segments []TranscriptSegment
}

// FullText joins segment texts with single spaces, preserving order.
func (t Transcript) FullText() string {
	parts := make([]string, len(t.Segments))
	for i, seg := range t.Segments {
		parts[i] = seg.Text
	}
	return strings.Join(parts, " ")
}

// Chunk is a contiguous piece of a larger text.
// Start and End are byte offsets: source[Start:End] == Text.
type Chunk struct {
	Index int
	Text  string
	Start int
	End   int
}

// PartialSummary is the summarizer output for one chunk.
type PartialSummary struct {
	Text             string
	SourceChunkIndex int
}

// FinalSummary is the length-bounded result returned to callers.
type FinalSummary struct {
	RunID        string
	VideoID      string
	Text         string
	Partials     []PartialSummary // partial summaries of the last round
	Chunks       int              // chunks in the first round
	FailedChunks []int            // first-round chunk indexes that failed
	Rounds       int
	Truncated    bool
}
