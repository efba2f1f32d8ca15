package chunker

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

func TestSplitRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		" ",
		"a",
		"Hello world.",
		"Hello world. This is a test! Is it? Yes.",
		"  leading spaces. trailing spaces.   ",
		"no terminators at all just many words in a row",
		"Dots.in.the.middle.are.not.boundaries. Right?",
		"Xin chào các bạn. Hôm nay chúng ta học Go! 日本語のテキストです。終わり。",
		"supercalifragilisticexpialidocious " + strings.Repeat("x", 57) + " end.",
		"line one.\nline two.\n\nline three.\t tabbed.",
		"\xff\xfe broken utf8. still here.",
	}

	for _, input := range inputs {
		for size := 1; size <= 20; size++ {
			chunks, err := Split(input, size)
			if err != nil {
				t.Fatalf("Split(%q, %d) error = %v", input, size, err)
			}
			assertChunks(t, input, size, chunks)
		}
	}
}

func TestSplitRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abc xyz.!? \n\téü世")

	for i := 0; i < 200; i++ {
		n := rng.Intn(300)
		var sb strings.Builder
		for j := 0; j < n; j++ {
			sb.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		input := sb.String()
		size := 1 + rng.Intn(50)

		chunks, err := Split(input, size)
		if err != nil {
			t.Fatalf("Split() error = %v", err)
		}
		assertChunks(t, input, size, chunks)
	}
}

func TestSplitEmpty(t *testing.T) {
	chunks, err := Split("", 100)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("Split(\"\") returned %d chunks, want 0", len(chunks))
	}
}

func TestSplitInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		_, err := Split("some text", size)
		if !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("Split(size=%d) error = %v, want ErrInvalidInput", size, err)
		}
	}
}

func TestSplitPrefersSentenceBoundaries(t *testing.T) {
	input := "One two three. Four five six. Seven eight nine."

	chunks, err := Split(input, 30)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	want := []string{"One two three. Four five six. ", "Seven eight nine."}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks %q, want %d", len(chunks), texts(chunks), len(want))
	}
	for i := range want {
		if chunks[i].Text != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, chunks[i].Text, want[i])
		}
	}
}

func TestSplitFallsBackToWords(t *testing.T) {
	input := "alpha beta gamma delta epsilon"

	chunks, err := Split(input, 12)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	want := []string{"alpha beta ", "gamma delta ", "epsilon"}
	if got := texts(chunks); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("chunks = %q, want %q", got, want)
	}
}

func TestSplitForcesLongTokens(t *testing.T) {
	input := strings.Repeat("z", 25)

	chunks, err := Split(input, 10)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if chunks[2].Text != strings.Repeat("z", 5) {
		t.Errorf("last chunk = %q, want 5 runes", chunks[2].Text)
	}
}

func TestSplitFillerExample(t *testing.T) {
	input := strings.Repeat("abcdefghi ", 900)

	chunks, err := Split(input, 3000)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c.Text); n != 3000 {
			t.Errorf("chunk %d has %d runes, want 3000", i, n)
		}
	}
}

func assertChunks(t *testing.T, input string, size int, chunks []models.Chunk) {
	t.Helper()

	var sb strings.Builder
	prevEnd := 0
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c.Text); n > size || n == 0 {
			t.Fatalf("Split(%q, %d): chunk %d has %d runes", input, size, i, n)
		}
		if c.Index != i {
			t.Fatalf("chunk %d has Index %d", i, c.Index)
		}
		if c.Start != prevEnd {
			t.Fatalf("chunk %d starts at %d, previous ended at %d", i, c.Start, prevEnd)
		}
		if input[c.Start:c.End] != c.Text {
			t.Fatalf("chunk %d range [%d,%d) does not match its text", i, c.Start, c.End)
		}
		prevEnd = c.End
		sb.WriteString(c.Text)
	}

	if sb.String() != input {
		t.Fatalf("Split(%q, %d) round trip = %q", input, size, sb.String())
	}
}

func texts(chunks []models.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}
