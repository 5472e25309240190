// Package extractor turns combined segment texts into structured ledger
// fields, using a chain of strategies with field-level merging.
package extractor

import (
	"context"

	"scanledger/internal/models"
)

// Strategy extracts structured fields from a batch of segment texts.
// Implementations return one ExtractedFields per input text in order. The
// boolean reports whether the strategy produced anything usable; a false
// with nil error means the next strategy should take over, not that the
// request failed.
type Strategy interface {
	Extract(ctx context.Context, texts []string) ([]models.ExtractedFields, bool, error)
	Name() string
}
