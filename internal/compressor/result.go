package compressor

import "time"

// Outcome is the terminal state of one entry.
type Outcome int

const (
	OutcomeTranscoded Outcome = iota
	OutcomePassedThrough
	OutcomeSkipped
	OutcomeFailed
	OutcomeDuplicate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTranscoded:
		return "transcoded"
	case OutcomePassedThrough:
		return "passed_through"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	case OutcomeDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// EntryResult records what happened to a single source entry.
type EntryResult struct {
	Name       string
	OutputName string
	Outcome    Outcome
	Err        error
}

// Result summarizes one Compress call.
type Result struct {
	Source string
	Output string
	// Unsupported is set when the source extension is not a known container;
	// nothing else is populated in that case.
	Unsupported bool

	Entries       int
	Transcoded    int
	PassedThrough int
	Skipped       int
	Failed        int
	Duplicates    int

	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration

	// Failures lists entries that were dropped because they could not be transcoded.
	Failures []EntryResult
}

// Written reports the number of entries present in the output archive.
func (r *Result) Written() int {
	return r.Transcoded + r.PassedThrough
}

func (r *Result) fold(results []EntryResult) {
	r.Entries = len(results)
	for _, er := range results {
		switch er.Outcome {
		case OutcomeTranscoded:
			r.Transcoded++
		case OutcomePassedThrough:
			r.PassedThrough++
		case OutcomeSkipped:
			r.Skipped++
		case OutcomeDuplicate:
			r.Duplicates++
		case OutcomeFailed:
			r.Failed++
			r.Failures = append(r.Failures, er)
		}
	}
}
