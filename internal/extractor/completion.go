package extractor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"scanledger/internal/jsonutils"
	"scanledger/internal/models"
	"scanledger/internal/textutils"

	"github.com/sirupsen/logrus"
)

// CompletionClient is the minimal surface of a text-completion backend.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// CompletionStrategy extracts fields by prompting a completion model with
// all segment texts in one batched request.
type CompletionStrategy struct {
	client        CompletionClient
	truncateLimit int
	log           *logrus.Logger
}

// NewCompletionStrategy returns a strategy backed by the given client.
// truncateLimit caps each segment text in runes; zero means the default.
func NewCompletionStrategy(client CompletionClient, truncateLimit int, log *logrus.Logger) *CompletionStrategy {
	if truncateLimit <= 0 {
		truncateLimit = textutils.DefaultTruncateLimit
	}
	if log == nil {
		log = logrus.New()
	}
	return &CompletionStrategy{client: client, truncateLimit: truncateLimit, log: log}
}

// Name identifies the strategy in logs and outcomes.
func (s *CompletionStrategy) Name() string {
	return "completion"
}

// Extract prompts the model with numbered records and decodes the JSON
// reply. Upstream or decoding failures report not-handled so the regex
// fallback can run; they never fail the request.
func (s *CompletionStrategy) Extract(ctx context.Context, texts []string) ([]models.ExtractedFields, bool, error) {
	if len(texts) == 0 || s.client == nil {
		return nil, false, nil
	}

	parts := make([]string, 0, len(texts))
	for idx, text := range texts {
		parts = append(parts, fmt.Sprintf("RECORD %d:\n%s", idx+1, textutils.Truncate(text, s.truncateLimit)))
	}
	user := strings.Join(parts, "\n\n")

	reply, err := s.client.Complete(ctx, systemPrompt, user)
	if err != nil {
		s.log.WithError(err).Warn("Completion request failed, falling back")
		return nil, false, nil
	}

	payload, ok := jsonutils.Extract(reply)
	if !ok {
		s.log.Warn("Completion reply carried no decodable JSON, falling back")
		return nil, false, nil
	}

	records := normalizeRecords(payload)
	if len(records) == 0 {
		return nil, false, nil
	}
	return records, true, nil
}

// normalizeRecords coerces a decoded JSON payload into field records: an
// object yields one record, an array one per element. Unknown keys are
// ignored; values are stringified.
func normalizeRecords(payload interface{}) []models.ExtractedFields {
	switch v := payload.(type) {
	case []interface{}:
		records := make([]models.ExtractedFields, 0, len(v))
		for _, item := range v {
			records = append(records, normalizeRecord(item))
		}
		return records
	case map[string]interface{}:
		return []models.ExtractedFields{normalizeRecord(v)}
	default:
		return nil
	}
}

func normalizeRecord(payload interface{}) models.ExtractedFields {
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return models.ExtractedFields{}
	}
	return models.ExtractedFields{
		Date:          stringValue(obj[models.FieldDate]),
		Merchant:      stringValue(obj[models.FieldMerchant]),
		Amount:        stringValue(obj[models.FieldAmount]),
		Currency:      stringValue(obj[models.FieldCurrency]),
		Category:      stringValue(obj[models.FieldCategory]),
		PaymentMethod: stringValue(obj[models.FieldPaymentMethod]),
	}
}

func stringValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", value))
	}
}
