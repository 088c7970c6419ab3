package models

// ItemStatus classifies what happened to one track during a transfer.
type ItemStatus string

const (
	StatusImported ItemStatus = "imported"
	StatusNotFound ItemStatus = "not_found"
	StatusErrored  ItemStatus = "errored"
	StatusPending  ItemStatus = "pending" // not attempted because the run was interrupted
)

// ItemResult is the explicit per-track result of a transfer.
type ItemResult struct {
	Track      Track      `json:"track"`
	Status     ItemStatus `json:"status"`
	VideoID    string     `json:"video_id,omitempty"`
	Confidence float64    `json:"confidence,omitempty"`
	Err        error      `json:"-"`
}

// Error returns the failure message, if any.
func (r ItemResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// TransferOutcome partitions the input of a transfer.
//
// Every input track lands in exactly one of Imported, NotFound, Errored or Pending.
// Pending is only non-empty when the run was interrupted.
type TransferOutcome struct {
	Results  []ItemResult
	Imported []Track
	NotFound []Track
	Errored  []Track
	Pending  []Track
}

// Add classifies a result into the matching partition.
func (o *TransferOutcome) Add(r ItemResult) {
	o.Results = append(o.Results, r)
	switch r.Status {
	case StatusImported:
		o.Imported = append(o.Imported, r.Track)
	case StatusNotFound:
		o.NotFound = append(o.NotFound, r.Track)
	case StatusErrored:
		o.Errored = append(o.Errored, r.Track)
	default:
		o.Pending = append(o.Pending, r.Track)
	}
}

// Total returns the number of input tracks covered by the outcome.
func (o *TransferOutcome) Total() int {
	return len(o.Imported) + len(o.NotFound) + len(o.Errored) + len(o.Pending)
}

// Processed returns the tracks in the order they were handled, pending ones last.
func (o *TransferOutcome) Processed() []Track {
	tracks := make([]Track, 0, len(o.Results))
	for _, r := range o.Results {
		tracks = append(tracks, r.Track)
	}
	return tracks
}

// Complete reports whether every input track was attempted.
func (o *TransferOutcome) Complete() bool {
	return len(o.Pending) == 0
}
