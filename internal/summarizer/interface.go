package summarizer

import "context"

// Summarizer condenses one bounded piece of text.
type Summarizer interface {
	// Summarize returns a summary of text between minLength and maxLength words.
	// len(text) must not exceed InputCapacity.
	Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error)

	// InputCapacity is the largest input, in characters, the backend accepts.
	InputCapacity() int

	// Name returns the provider name.
	Name() string
}
