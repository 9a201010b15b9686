package lambda

import "imagecollector/internal/domain"

// Response is returned for a direct invocation
type Response struct {
	RunID      string        `json:"run_id"`
	Saved      int           `json:"saved"`
	Duplicates int           `json:"duplicates"`
	Rejected   int           `json:"rejected"`
	Failed     int           `json:"failed"`
	Results    []ResultEntry `json:"results"`
}

// ResultEntry is the JSON form of one URL result
type ResultEntry struct {
	URL         string `json:"url"`
	Outcome     string `json:"outcome"`
	Filename    string `json:"filename,omitempty"`
	Location    string `json:"location,omitempty"`
	Hash        string `json:"sha256,omitempty"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	DuplicateOf string `json:"duplicate_of,omitempty"`
	Replaced    bool   `json:"replaced,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	Error       string `json:"error,omitempty"`
}

// NewResponse converts a run summary into the invocation response
func NewResponse(summary domain.Summary) Response {
	resp := Response{
		RunID:      summary.RunID,
		Saved:      summary.Saved,
		Duplicates: summary.Duplicates,
		Rejected:   summary.Rejected,
		Failed:     summary.Failed,
		Results:    make([]ResultEntry, 0, len(summary.Results)),
	}

	for _, r := range summary.Results {
		entry := ResultEntry{
			URL:         r.URL,
			Outcome:     string(r.Outcome),
			Filename:    r.Filename,
			Location:    r.Location,
			Hash:        r.Hash,
			Size:        r.Size,
			ContentType: r.ContentType,
			DuplicateOf: r.DuplicateOf,
			Replaced:    r.Replaced,
		}
		if r.Err != nil {
			entry.ErrorKind = string(r.ErrorKind)
			entry.Error = r.Err.Error()
		}
		resp.Results = append(resp.Results, entry)
	}

	return resp
}
