// Package parsererror defines the typed errors surfaced by the ingestion
// pipeline. Only validation failures, missing required fields and unknown
// pending identifiers are user-visible; upstream failures degrade to
// fallback extraction and are logged, not propagated.
package parsererror

import (
	"fmt"
	"strings"
)

// ValidationError reports that a request carried no usable text or tokens.
// It is fatal to the request and nothing is written.
type ValidationError struct {
	Source string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Source, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// MissingEntry describes one segment whose record lacks required fields.
type MissingEntry struct {
	SegmentIndex int      `json:"segment_index"`
	Missing      []string `json:"missing"`
	SegmentText  string   `json:"segment_text"`
}

// MissingFieldsError reports that every segment of a request produced an
// incomplete record. It carries the full listing so the caller can supply
// one clarification covering all of them under PendingID.
type MissingFieldsError struct {
	PendingID string
	Entries   []MissingEntry
}

func (e *MissingFieldsError) Error() string {
	seen := make(map[string]struct{})
	var names []string
	for _, entry := range e.Entries {
		for _, name := range entry.Missing {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	return fmt.Sprintf("missing required fields after extraction (%d segment(s), fields: %s), pending_id=%s",
		len(e.Entries), strings.Join(names, ", "), e.PendingID)
}

// NotFoundError reports an unknown or expired identifier, e.g. a pending
// clarification id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// UpstreamError wraps a failure of an external collaborator (recognition or
// text-completion service). The pipeline treats it as a degradation signal,
// never as a hard failure by itself.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s unavailable: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
