package extractor

import (
	"context"
	"time"

	"scanledger/internal/currencyutils"
	"scanledger/internal/dateutils"
	"scanledger/internal/models"
	"scanledger/internal/textutils"
)

// RegexStrategy recovers fields with pattern matching. It always handles
// its input, so it terminates the strategy chain.
type RegexStrategy struct {
	now func() time.Time
}

// NewRegexStrategy returns the pattern-based fallback extractor. A nil
// clock defaults to time.Now.
func NewRegexStrategy(now func() time.Time) *RegexStrategy {
	if now == nil {
		now = time.Now
	}
	return &RegexStrategy{now: now}
}

// Name identifies the strategy in logs and outcomes.
func (s *RegexStrategy) Name() string {
	return "regex"
}

// Extract derives fields per text: the last amount mention, a numeric or
// relative date resolved against the clock, a currency hint, and a merchant
// guess from a locative phrase or the text preceding the amount.
func (s *RegexStrategy) Extract(_ context.Context, texts []string) ([]models.ExtractedFields, bool, error) {
	if len(texts) == 0 {
		return nil, false, nil
	}
	now := s.now()
	records := make([]models.ExtractedFields, 0, len(texts))
	for _, text := range texts {
		fields := models.ExtractedFields{
			Date:     dateutils.ExtractDate(text, now),
			Amount:   currencyutils.ExtractAmount(text),
			Currency: currencyutils.DetectCurrency(text),
		}
		fields.Merchant = textutils.ExtractMerchant(text)
		if fields.Merchant == "" && fields.Amount != "" {
			fields.Merchant = textutils.BeforeAmount(text, fields.Amount)
		}
		records = append(records, fields)
	}
	return records, true, nil
}
