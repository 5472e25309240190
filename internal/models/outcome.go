package models

// Insert outcome statuses reported per record.
const (
	StatusInserted = "inserted"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// Skip/failure reasons.
const (
	ReasonDuplicate     = "duplicate"
	ReasonMissingFields = "missing_required_fields"
)

// Outcome is the per-record result of a batch insert or validation step.
type Outcome struct {
	Status    string       `json:"status"`
	Reason    string       `json:"reason,omitempty"`
	Missing   []string     `json:"missing,omitempty"`
	PendingID string       `json:"pending_id,omitempty"`
	Row       LedgerRecord `json:"row"`
}
