package extractor

import (
	"context"

	"scanledger/internal/logging"
	"scanledger/internal/models"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Extractor runs an ordered strategy chain over segment texts and merges
// the results field by field: the first strategy to fill a field wins.
type Extractor struct {
	strategies []Strategy
}

// New returns an Extractor running the given strategies in order.
func New(strategies ...Strategy) *Extractor {
	return &Extractor{strategies: strategies}
}

// Extract returns one field record per input text. A strategy that
// declines (handled=false) contributes nothing; later strategies fill
// fields still empty after earlier ones and supply whole records for texts
// an earlier short result left uncovered. When a strategy returns more
// records than the single input text, the extras are kept so one combined
// text can yield several transactions.
func (e *Extractor) Extract(ctx context.Context, texts []string) ([]models.ExtractedFields, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var merged []models.ExtractedFields
	for _, strategy := range e.strategies {
		records, handled, err := strategy.Extract(ctx, texts)
		if err != nil {
			return nil, err
		}
		if !handled || len(records) == 0 {
			log.WithField(logging.FieldStrategy, strategy.Name()).
				Debug("Extraction strategy declined")
			continue
		}
		log.WithFields(logrus.Fields{
			logging.FieldStrategy: strategy.Name(),
			logging.FieldCount:    len(records),
		}).Debug("Extraction strategy produced records")

		if merged == nil {
			merged = records
			continue
		}
		// A short earlier reply must not drop records a later strategy
		// produced for the remaining texts.
		for len(merged) < len(records) && len(merged) < len(texts) {
			merged = append(merged, records[len(merged)])
		}
		limit := len(merged)
		if len(records) < limit {
			limit = len(records)
		}
		for i := 0; i < limit; i++ {
			merged[i].FillFrom(records[i])
		}
	}

	if merged == nil {
		merged = make([]models.ExtractedFields, len(texts))
	}

	// A single combined text may legitimately describe several
	// transactions; otherwise record count follows the input.
	if len(texts) > 1 && len(merged) > len(texts) {
		merged = merged[:len(texts)]
	}
	if len(merged) < len(texts) {
		padded := make([]models.ExtractedFields, len(texts))
		copy(padded, merged)
		merged = padded
	}
	return merged, nil
}
