// Package pending caches combined segment texts for records that failed
// validation, keyed by a pending identifier, so callers can supply
// clarification text and resubmit.
package pending

import "scanledger/internal/parsererror"

// Entry is the cached state for one incomplete request.
type Entry struct {
	// SegmentTexts are all combined texts of the original request, valid
	// and incomplete alike, so a resubmission re-runs the full set.
	SegmentTexts []string
	// MissingIndices are the positions in SegmentTexts whose records
	// lacked required fields.
	MissingIndices []int
}

// Cache stores pending clarification state.
type Cache interface {
	// Put stores the entry under id, replacing any previous entry.
	Put(id string, entry Entry)
	// Merge appends clarification text to the segments listed in the
	// entry's MissingIndices and returns the updated segment texts. It
	// fails with a NotFoundError for an unknown id.
	Merge(id string, clarification string) ([]string, error)
	// Delete removes the entry, if present.
	Delete(id string)
}

func notFound(id string) error {
	return &parsererror.NotFoundError{Kind: "pending entry", ID: id}
}
