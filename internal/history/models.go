package history

import (
	"time"

	"comicz/internal/compressor"
	"comicz/internal/faults"
)

// Status is the terminal state of a conversion attempt.
type Status string

const (
	StatusConverted   Status = "converted"
	StatusFailed      Status = "failed"
	StatusUnsupported Status = "unsupported"
	StatusSkipped     Status = "skipped"
)

// Record is one row of the conversion ledger.
type Record struct {
	ID            int64
	RunID         string
	SourcePath    string
	OutputPath    string
	Status        Status
	Entries       int
	Transcoded    int
	PassedThrough int
	Skipped       int
	Failed        int
	Duplicates    int
	InputBytes    int64
	OutputBytes   int64
	ErrorKind     string
	ErrorMessage  string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Duration returns the wall time of the attempt.
func (r Record) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FromResult builds a ledger row from a Compress outcome. res may be nil when
// the attempt never reached the compressor.
func FromResult(runID, source string, res *compressor.Result, err error, started, finished time.Time) Record {
	rec := Record{
		RunID:      runID,
		SourcePath: source,
		Status:     StatusConverted,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if res != nil {
		rec.OutputPath = res.Output
		rec.Entries = res.Entries
		rec.Transcoded = res.Transcoded
		rec.PassedThrough = res.PassedThrough
		rec.Skipped = res.Skipped
		rec.Failed = res.Failed
		rec.Duplicates = res.Duplicates
		rec.InputBytes = res.InputBytes
		rec.OutputBytes = res.OutputBytes
		if res.Unsupported {
			rec.Status = StatusUnsupported
		}
	}
	if err != nil {
		rec.Status = StatusFailed
		rec.ErrorKind = faults.Kind(err)
		rec.ErrorMessage = err.Error()
	}
	return rec
}
