// Package ledger persists committed records to an append-only CSV file with
// optional deduplication and per-record batch outcomes.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"scanledger/internal/currencyutils"
	"scanledger/internal/logging"
	"scanledger/internal/models"
	"scanledger/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger sets a custom logger for this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// header is the fixed on-disk column order. New optional columns are only
// ever appended at the end.
var header = []string{
	"date", "merchant", "amount", "currency", "category",
	"payment_method", "note", "source_image", "source_audio", "insert_time",
}

// Store appends ledger records to a CSV file. All operations are serialized
// so concurrent batch inserts never interleave partial rows, and dedup
// checks observe the writer's own prior appends.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewStore returns a Store writing to the CSV file at path. A nil clock
// defaults to time.Now.
func NewStore(path string, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{path: path, now: now}
}

// Path returns the CSV file location.
func (s *Store) Path() string {
	return s.path
}

// InsertOne appends a single record, deduplicating when requested.
func (s *Store) InsertOne(record models.LedgerRecord, dedupe bool) models.Outcome {
	outcomes := s.InsertMany([]models.LedgerRecord{record}, dedupe)
	return outcomes[0]
}

// InsertMany appends records in order, reporting one outcome per input.
// A record that fails validation or writing never aborts the rest of the
// batch. Dedup checks see rows appended earlier in the same batch.
func (s *Store) InsertMany(records []models.LedgerRecord, dedupe bool) []models.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcomes := make([]models.Outcome, len(records))

	existing, err := s.ensure()
	if err != nil {
		log.WithError(err).Error("Failed to prepare ledger file")
		for i, record := range records {
			outcomes[i] = failedOutcome(record, err)
		}
		return outcomes
	}

	index := buildDedupIndex(existing)

	for i, record := range records {
		record.ReduceSourcePaths()
		if record.InsertTime == "" {
			record.InsertTime = s.now().Format(time.RFC3339)
		}

		if missing := record.MissingRequired(); len(missing) > 0 {
			outcomes[i] = models.Outcome{
				Status:  models.StatusFailed,
				Reason:  models.ReasonMissingFields,
				Missing: missing,
				Row:     record,
			}
			continue
		}

		if dedupe && index[dedupKey(record)] {
			outcomes[i] = models.Outcome{
				Status: models.StatusSkipped,
				Reason: models.ReasonDuplicate,
				Row:    record,
			}
			log.WithFields(logrus.Fields{
				logging.FieldStatus: models.StatusSkipped,
				"merchant":          record.Merchant,
			}).Debug("Skipped duplicate ledger record")
			continue
		}

		if err := s.appendRow(record); err != nil {
			log.WithError(err).WithField(logging.FieldFile, s.path).
				Error("Failed to append ledger record")
			outcomes[i] = failedOutcome(record, err)
			continue
		}

		index[dedupKey(record)] = true
		outcomes[i] = models.Outcome{Status: models.StatusInserted, Row: record}
	}

	return outcomes
}

// Read returns all committed records in file order.
func (s *Store) Read() ([]models.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensure()
}

// ensure creates the ledger file with its header when absent and migrates
// files written before the insert_time column existed by rewriting the
// header and backfilling the new column as empty. Returns existing records.
func (s *Store) ensure() ([]models.LedgerRecord, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, &parsererror.ValidationError{
			Source: s.path,
			Reason: fmt.Sprintf("cannot create ledger directory: %v", err),
		}
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) || (err == nil && len(data) == 0) {
		if writeErr := os.WriteFile(s.path, []byte(strings.Join(header, ",")+"\n"), 0o644); writeErr != nil {
			return nil, writeErr
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	migrated, err := migrateHeader(data)
	if err != nil {
		return nil, err
	}
	if migrated != nil {
		if writeErr := os.WriteFile(s.path, migrated, 0o644); writeErr != nil {
			return nil, writeErr
		}
		data = migrated
		log.WithField(logging.FieldFile, s.path).Info("Migrated ledger file to current schema")
	}

	var records []models.LedgerRecord
	if err := gocsv.UnmarshalBytes(data, &records); err != nil {
		return nil, &parsererror.ValidationError{
			Source: s.path,
			Reason: fmt.Sprintf("cannot parse ledger file: %v", err),
		}
	}
	return records, nil
}

// appendRow writes one record, guarding against a missing trailing newline
// left by external edits.
func (s *Store) appendRow(record models.LedgerRecord) error {
	if err := ensureTrailingNewline(s.path); err != nil {
		return err
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Failed to close ledger file")
		}
	}()

	return gocsv.MarshalWithoutHeaders([]models.LedgerRecord{record}, file)
}

// migrateHeader returns a rewritten file when the header predates the
// insert_time column, or nil when no migration is needed.
func migrateHeader(data []byte) ([]byte, error) {
	content := string(data)
	newlineIdx := strings.IndexByte(content, '\n')
	headerLine := content
	body := ""
	if newlineIdx != -1 {
		headerLine = content[:newlineIdx]
		body = content[newlineIdx+1:]
	}
	headerLine = strings.TrimRight(headerLine, "\r")

	existing := strings.Split(headerLine, ",")
	for _, column := range existing {
		if strings.TrimSpace(column) == "insert_time" {
			return nil, nil
		}
	}
	if len(existing) != len(header)-1 {
		return nil, &parsererror.ValidationError{
			Source: "ledger file",
			Reason: fmt.Sprintf("unrecognized header with %d columns", len(existing)),
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(header, ","))
	sb.WriteString("\n")
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sb.WriteString(strings.TrimRight(line, "\r"))
		sb.WriteString(",")
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

func ensureTrailingNewline(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return err
	}
	file, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	buf := make([]byte, 1)
	if _, err := file.ReadAt(buf, info.Size()-1); err != nil {
		return err
	}
	if buf[0] == '\n' {
		return nil
	}
	_, err = file.WriteAt([]byte{'\n'}, info.Size())
	return err
}

func buildDedupIndex(records []models.LedgerRecord) map[string]bool {
	index := make(map[string]bool, len(records))
	for _, record := range records {
		index[dedupKey(record)] = true
	}
	return index
}

// dedupKey identifies a record by date, merchant, normalized amount and
// source basenames. Amount normalization makes "35", "35.0" and "¥35.00"
// collide.
func dedupKey(record models.LedgerRecord) string {
	amount := record.Amount
	if parsed, err := currencyutils.ParseAmount(record.Amount); err == nil {
		amount = parsed.String()
	}
	return strings.Join([]string{
		record.Date,
		record.Merchant,
		amount,
		basename(record.SourceImage),
		basename(record.SourceAudio),
	}, "|")
}

func basename(value string) string {
	if value == "" {
		return ""
	}
	return filepath.Base(value)
}

func failedOutcome(record models.LedgerRecord, err error) models.Outcome {
	return models.Outcome{
		Status: models.StatusFailed,
		Reason: err.Error(),
		Row:    record,
	}
}
