package domain

import "errors"

// Outcome is what happened to a single URL
type Outcome string

const (
	OutcomeSaved     Outcome = "saved"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// Result describes the processing of one URL
type Result struct {
	URL         string
	Outcome     Outcome
	Filename    string
	Location    string
	Hash        string
	Size        int64
	ContentType string
	DuplicateOf string
	// Replaced is set when a saved image overwrote an object of the same name
	Replaced    bool
	ErrorKind   Kind
	Err         error
}

// NewErrorResult classifies err into a rejected or failed result
func NewErrorResult(url string, err error) Result {
	result := Result{
		URL:       url,
		Outcome:   OutcomeFailed,
		ErrorKind: KindOf(err),
		Err:       err,
	}
	if result.ErrorKind.IsRejection() {
		result.Outcome = OutcomeRejected
	}

	var de *DomainError
	if errors.As(err, &de) {
		result.ContentType = de.ContentType
		result.Size = de.Size
	}

	return result
}

// Summary aggregates the results of one run
type Summary struct {
	RunID      string
	Results    []Result
	Saved      int
	Duplicates int
	Rejected   int
	Failed     int
}

// Add records a result and updates the counters
func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Outcome {
	case OutcomeSaved:
		s.Saved++
	case OutcomeDuplicate:
		s.Duplicates++
	case OutcomeRejected:
		s.Rejected++
	default:
		s.Failed++
	}
}

// Total returns the number of processed URLs
func (s *Summary) Total() int {
	return len(s.Results)
}

// Retryable reports whether any failed result may succeed on a later attempt
func (s *Summary) Retryable() bool {
	for _, r := range s.Results {
		if r.Outcome == OutcomeFailed && IsRetryable(r.Err) {
			return true
		}
	}
	return false
}
