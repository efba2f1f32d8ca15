// Package chunker splits long transcripts into model-sized pieces.
package chunker

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

// span is a byte range of the source text together with its rune count
type span struct {
	start, end int
	runes      int
}

// Split cuts text into contiguous chunks of at most maxChunkSize runes.
//
// Sentences are kept whole when they fit. A sentence that does not fit is
// broken between words, and a word that does not fit is cut every
// maxChunkSize runes. Whitespace stays attached to the unit before it, so
// concatenating the chunk texts gives back text unchanged.
func Split(text string, maxChunkSize int) ([]models.Chunk, error) {
	if maxChunkSize <= 0 {
		return nil, models.NewError(models.CodeInvalidInput,
			fmt.Sprintf("chunk size must be positive, got %d", maxChunkSize), nil)
	}

	b := &builder{text: text, max: maxChunkSize, chunks: []models.Chunk{}}
	for _, sentence := range sentenceUnits(text) {
		if sentence.runes <= maxChunkSize {
			b.add(sentence)
			continue
		}
		for _, word := range wordUnits(text, sentence) {
			if word.runes <= maxChunkSize {
				b.add(word)
				continue
			}
			for _, piece := range forceSplit(text, word, maxChunkSize) {
				b.add(piece)
			}
		}
	}
	b.flush()

	return b.chunks, nil
}

// builder greedily packs consecutive units into chunks
type builder struct {
	text   string
	max    int
	cur    span
	open   bool
	chunks []models.Chunk
}

func (b *builder) add(u span) {
	if b.open && b.cur.runes+u.runes > b.max {
		b.flush()
	}
	if !b.open {
		b.cur = u
		b.open = true
		return
	}
	b.cur.end = u.end
	b.cur.runes += u.runes
}

func (b *builder) flush() {
	if !b.open {
		return
	}
	b.chunks = append(b.chunks, models.Chunk{
		Index: len(b.chunks),
		Text:  b.text[b.cur.start:b.cur.end],
		Start: b.cur.start,
		End:   b.cur.end,
	})
	b.open = false
}

// sentenceUnits splits text after '.', '!' or '?' followed by whitespace.
// The whitespace run belongs to the sentence it follows.
func sentenceUnits(text string) []span {
	var units []span
	start, count := 0, 0

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		count++

		if !isTerminator(r) || i >= len(text) {
			continue
		}
		if next, _ := utf8.DecodeRuneInString(text[i:]); !unicode.IsSpace(next) {
			continue
		}

		i, count = skipSpace(text, i, count)
		units = append(units, span{start: start, end: i, runes: count})
		start, count = i, 0
	}

	if start < len(text) {
		units = append(units, span{start: start, end: len(text), runes: count})
	}
	return units
}

// wordUnits splits s into runs of non-space followed by their trailing space
func wordUnits(text string, s span) []span {
	var units []span

	for i := s.start; i < s.end; {
		start, count := i, 0
		for i < s.end {
			r, size := utf8.DecodeRuneInString(text[i:s.end])
			if unicode.IsSpace(r) {
				break
			}
			i += size
			count++
		}
		for i < s.end {
			r, size := utf8.DecodeRuneInString(text[i:s.end])
			if !unicode.IsSpace(r) {
				break
			}
			i += size
			count++
		}
		units = append(units, span{start: start, end: i, runes: count})
	}

	return units
}

// forceSplit cuts s every max runes
func forceSplit(text string, s span, max int) []span {
	var pieces []span
	start, count := s.start, 0

	for i := s.start; i < s.end; {
		_, size := utf8.DecodeRuneInString(text[i:s.end])
		i += size
		count++
		if count == max {
			pieces = append(pieces, span{start: start, end: i, runes: count})
			start, count = i, 0
		}
	}
	if count > 0 {
		pieces = append(pieces, span{start: start, end: s.end, runes: count})
	}

	return pieces
}

func skipSpace(text string, i, count int) (int, int) {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
		count++
	}
	return i, count
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
