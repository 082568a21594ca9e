package models

// SyncOutcome classifies what happened to a single fetched listing.
type SyncOutcome string

const (
	SyncInserted SyncOutcome = "inserted"
	SyncUpdated  SyncOutcome = "updated"
	SyncSkipped  SyncOutcome = "skipped"
)

// SyncItem records the per-listing outcome of a sync batch, so callers can
// observe skip counts instead of only an aggregate success number.
type SyncItem struct {
	Address string      `json:"address"`
	Outcome SyncOutcome `json:"outcome"`
	Reason  string      `json:"reason,omitempty"`
}

// SyncReport summarizes one sync run.
type SyncReport struct {
	City     string     `json:"city"`
	State    string     `json:"state"`
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Skipped  int        `json:"skipped"`
	Items    []SyncItem `json:"items,omitempty"`
}

// Count is the number of successfully processed listings.
func (r *SyncReport) Count() int {
	return r.Inserted + r.Updated
}

func (r *SyncReport) Record(address string, outcome SyncOutcome, reason string) {
	switch outcome {
	case SyncInserted:
		r.Inserted++
	case SyncUpdated:
		r.Updated++
	case SyncSkipped:
		r.Skipped++
	}
	r.Items = append(r.Items, SyncItem{Address: address, Outcome: outcome, Reason: reason})
}
