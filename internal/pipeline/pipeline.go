// Package pipeline orchestrates one ingestion request: recognition output
// to rows, rows to segments, segments to extracted fields, fields to
// committed ledger records or pending clarifications.
package pipeline

import (
	"context"
	"strings"
	"time"

	"scanledger/internal/enricher"
	"scanledger/internal/extractor"
	"scanledger/internal/ledger"
	"scanledger/internal/logging"
	"scanledger/internal/models"
	"scanledger/internal/parsererror"
	"scanledger/internal/pending"
	"scanledger/internal/recognizer"
	"scanledger/internal/rows"
	"scanledger/internal/segmenter"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Request is one ingestion call. Exactly one of Recognition, Transcript or
// Text supplies the content, except resubmissions which carry PendingID
// plus clarification Text and no upload.
type Request struct {
	// Recognition is a decoded OCR result with positioned tokens.
	Recognition *recognizer.Result
	// Transcript is recognized speech as plain text.
	Transcript string
	// Text is typed input, or the clarification text on resubmission. It
	// is also appended to every record as the note.
	Text string
	// SourceImage / SourceAudio are upload references recorded with each
	// ledger row.
	SourceImage string
	SourceAudio string
	// PendingID resubmits a previously cached incomplete request.
	PendingID string
}

// Response reports a processed request.
type Response struct {
	Inserted       int                        `json:"inserted"`
	Results        []models.Outcome           `json:"results"`
	MissingEntries []parsererror.MissingEntry `json:"missing_entries"`
	CombinedTexts  []string                   `json:"combined_texts"`
}

// Pipeline wires the ingestion stages together.
type Pipeline struct {
	segmenter *segmenter.Segmenter
	enricher  *enricher.Enricher
	extractor *extractor.Extractor
	cache     pending.Cache
	store     *ledger.Store
	log       *logrus.Logger

	newID  func() string
	now    func() time.Time
	dedupe bool
	debug  bool
}

// Options tune pipeline behavior.
type Options struct {
	// Dedupe skips records matching an existing ledger row.
	Dedupe bool
	// DebugSegments logs every segment produced per request.
	DebugSegments bool
	// Clock overrides time.Now, used for date defaulting.
	Clock func() time.Time
	// NewID overrides pending id generation.
	NewID func() string
}

// New assembles a Pipeline.
func New(seg *segmenter.Segmenter, enr *enricher.Enricher, ext *extractor.Extractor,
	cache pending.Cache, store *ledger.Store, log *logrus.Logger, opts Options) *Pipeline {
	if seg == nil {
		seg = segmenter.New(nil)
	}
	if enr == nil {
		enr = enricher.New(seg.Rules())
	}
	if cache == nil {
		cache = pending.NewMemoryCache(0)
	}
	if log == nil {
		log = logrus.New()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") }
	}
	return &Pipeline{
		segmenter: seg,
		enricher:  enr,
		extractor: ext,
		cache:     cache,
		store:     store,
		log:       log,
		newID:     newID,
		now:       clock,
		dedupe:    opts.Dedupe,
		debug:     opts.DebugSegments,
	}
}

// Process runs one request through the full pipeline.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Response, error) {
	var combinedTexts []string
	note := strings.TrimSpace(req.Text)

	if req.PendingID != "" {
		if req.Recognition != nil || strings.TrimSpace(req.Transcript) != "" {
			return nil, &parsererror.ValidationError{
				Source: "request",
				Reason: "a pending_id resubmission cannot carry a new upload",
			}
		}
		merged, err := p.cache.Merge(req.PendingID, note)
		if err != nil {
			return nil, err
		}
		combinedTexts = merged
		note = ""
	} else {
		texts, err := p.combineInputs(req, note)
		if err != nil {
			return nil, err
		}
		combinedTexts = texts
	}

	if len(combinedTexts) == 0 {
		return nil, &parsererror.ValidationError{
			Source: "request",
			Reason: "no recognition text, transcript or text available for extraction",
		}
	}

	records, err := p.extractor.Extract(ctx, combinedTexts)
	if err != nil {
		return nil, err
	}

	// One combined text may expand to several records; repeat its text so
	// indices in the pending cache stay aligned.
	if len(combinedTexts) == 1 && len(records) > 1 {
		expanded := make([]string, len(records))
		for i := range expanded {
			expanded[i] = combinedTexts[0]
		}
		combinedTexts = expanded
	}

	today := p.now().Format("2006-01-02")
	payloads := make([]models.LedgerRecord, len(records))
	for i, fields := range records {
		if fields.Date == "" {
			fields.Date = today
		}
		payloads[i] = models.NewLedgerRecord(fields, note, req.SourceImage, req.SourceAudio)
	}

	results := make([]models.Outcome, len(payloads))
	var validRecords []models.LedgerRecord
	var validIndices []int
	var missingIndices []int
	var missingEntries []parsererror.MissingEntry

	pendingID := ""
	for i, payload := range payloads {
		missing := payload.MissingRequired()
		if len(missing) == 0 {
			validRecords = append(validRecords, payload)
			validIndices = append(validIndices, i)
			continue
		}
		if pendingID == "" {
			pendingID = p.newID()
		}
		missingIndices = append(missingIndices, i)
		missingEntries = append(missingEntries, parsererror.MissingEntry{
			SegmentIndex: i,
			Missing:      missing,
			SegmentText:  combinedTexts[i],
		})
		results[i] = models.Outcome{
			Status:    models.StatusSkipped,
			Reason:    models.ReasonMissingFields,
			Missing:   missing,
			PendingID: pendingID,
			Row:       payload,
		}
	}

	if pendingID != "" {
		p.cache.Put(pendingID, pending.Entry{
			SegmentTexts:   combinedTexts,
			MissingIndices: missingIndices,
		})
		p.log.WithFields(logrus.Fields{
			logging.FieldPendingID: pendingID,
			logging.FieldCount:     len(missingIndices),
		}).Info("Cached incomplete segments pending clarification")
	}

	inserted := 0
	if len(validRecords) > 0 {
		outcomes := p.store.InsertMany(validRecords, p.dedupe)
		for i, outcome := range outcomes {
			results[validIndices[i]] = outcome
			if outcome.Status == models.StatusInserted {
				inserted++
			}
		}
	}

	if inserted == 0 && len(missingEntries) > 0 {
		return nil, &parsererror.MissingFieldsError{
			PendingID: pendingID,
			Entries:   missingEntries,
		}
	}

	// The request succeeded, so a resubmitted pending entry is spent.
	if req.PendingID != "" {
		p.cache.Delete(req.PendingID)
	}

	p.log.WithFields(logrus.Fields{
		logging.FieldCount:  inserted,
		logging.FieldStatus: "processed",
	}).Info("Ingestion request completed")

	return &Response{
		Inserted:       inserted,
		Results:        results,
		MissingEntries: missingEntries,
		CombinedTexts:  combinedTexts,
	}, nil
}

// combineInputs turns the request content into combined segment texts.
func (p *Pipeline) combineInputs(req Request, note string) ([]string, error) {
	var lines []string
	var segments []models.Segment

	switch {
	case req.Recognition != nil && !req.Recognition.Empty():
		textRows := rows.Reconstruct(req.Recognition.Tokens)
		lines = models.RowTexts(textRows)
		if len(lines) == 0 {
			lines = req.Recognition.Lines()
		}
		segments = p.segmenter.SplitRows(textRows)
	case strings.TrimSpace(req.Transcript) != "":
		result := recognizer.FromText(req.Transcript)
		lines = result.Lines()
		segments = p.segmenter.Split(lines)
	case note != "":
		// Typed input is a single segment on its own.
		return []string{note}, nil
	default:
		return nil, &parsererror.ValidationError{
			Source: "request",
			Reason: "no recognition text, transcript or text available for extraction",
		}
	}

	candidates := p.segmenter.Filter(segments)
	if len(candidates) <= 1 {
		// Too little structure to trust the split; extract from the whole.
		candidates = []models.Segment{models.Segment(lines)}
	}

	if p.debug {
		for idx, segment := range candidates {
			p.log.WithFields(logrus.Fields{
				logging.FieldSegment: idx + 1,
			}).Infof("Segment content: %s", strings.Join(segment, " | "))
		}
	}

	return p.enricher.CombineAll(candidates, lines, note), nil
}
