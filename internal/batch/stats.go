package batch

import (
	"time"

	"comicz/internal/compressor"
	"comicz/internal/history"
)

// FileResult describes how one input file was handled.
type FileResult struct {
	Source  string
	Output  string
	Status  history.Status
	Result  *compressor.Result
	Err     error
	Reason  string
	Elapsed time.Duration
}

// Stats summarizes a batch run.
type Stats struct {
	RunID string
	Files []FileResult

	Total       int
	Converted   int
	Unsupported int
	Skipped     int
	Failed      int

	Entries       int
	Transcoded    int
	PassedThrough int
	EntryFailures int
	Duplicates    int

	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration
}

func (s *Stats) add(fr FileResult) {
	s.Files = append(s.Files, fr)
	s.Total++
	switch fr.Status {
	case history.StatusConverted:
		s.Converted++
	case history.StatusUnsupported:
		s.Unsupported++
	case history.StatusSkipped:
		s.Skipped++
	case history.StatusFailed:
		s.Failed++
	}
	if fr.Result == nil || fr.Status != history.StatusConverted {
		return
	}
	s.Entries += fr.Result.Entries
	s.Transcoded += fr.Result.Transcoded
	s.PassedThrough += fr.Result.PassedThrough
	s.EntryFailures += fr.Result.Failed
	s.Duplicates += fr.Result.Duplicates
	s.InputBytes += fr.Result.InputBytes
	s.OutputBytes += fr.Result.OutputBytes
}

// Savings returns the fraction of input bytes saved by converted archives.
func (s *Stats) Savings() float64 {
	if s.InputBytes <= 0 {
		return 0
	}
	return 1 - float64(s.OutputBytes)/float64(s.InputBytes)
}
