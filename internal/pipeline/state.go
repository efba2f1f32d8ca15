package pipeline

// State is a step of one pipeline run.
type State int

const (
	StateIdle State = iota
	StateFetchingTranscript
	StateChunking
	StateSummarizing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateFetchingTranscript:
		return "FetchingTranscript"
	case StateChunking:
		return "Chunking"
	case StateSummarizing:
		return "Summarizing"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition can follow s
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Event describes one state transition. Err is set when To is StateFailed.
type Event struct {
	RunID string
	From  State
	To    State
	Err   error
}

// Observer is called synchronously on every transition
type Observer func(Event)
