package processor

import "context"

// Processor summarizes every video listed in a URL-list file
type Processor interface {
	// Process handles one list file and archives it afterwards.
	Process(ctx context.Context, listPath string) error
	// ProcessURLs summarizes urls and writes one output file per video.
	ProcessURLs(ctx context.Context, urls []string) Report
}

// Report counts the outcome of one batch
type Report struct {
	Total     int
	Succeeded int
	Failed    int
	Outputs   []string
	Failures  map[string]error
}
