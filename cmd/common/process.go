// Package common holds the pipeline assembly and output helpers shared by
// the ingestion commands.
package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"scanledger/internal/config"
	"scanledger/internal/enricher"
	"scanledger/internal/extractor"
	"scanledger/internal/ledger"
	"scanledger/internal/logging"
	"scanledger/internal/parsererror"
	"scanledger/internal/pending"
	"scanledger/internal/pipeline"
	"scanledger/internal/segmenter"

	"github.com/sirupsen/logrus"
)

// BuildPipeline assembles the ingestion pipeline from configuration.
func BuildPipeline(cfg *config.Config, logger *logrus.Logger) (*pipeline.Pipeline, error) {
	if logger == nil {
		logger = logrus.New()
	}
	log := logging.NewLogrusAdapterFromLogger(logger)

	rules, err := segmenter.LoadRuleset(cfg.Segmenter.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load segmentation rules: %w", err)
	}
	if cfg.Segmenter.RulesFile != "" {
		log.Info("Loaded segmentation rules", logging.Field{Key: logging.FieldFile, Value: cfg.Segmenter.RulesFile})
	}

	seg := segmenter.New(rules)
	enr := enricher.New(rules)

	strategies := []extractor.Strategy{}
	if cfg.AI.Enabled {
		client := extractor.NewGeminiClient(cfg.AI.APIKey, cfg.AI.Model)
		strategies = append(strategies, extractor.NewCompletionStrategy(client, cfg.AI.MaxInputRunes, logger))
		log.Info("AI extraction enabled", logging.Field{Key: "model", Value: cfg.AI.Model})
	} else {
		log.Debug("AI extraction disabled, using pattern extraction only")
	}
	strategies = append(strategies, extractor.NewRegexStrategy(nil))
	ext := extractor.New(strategies...)

	// Pending clarifications must outlive the process so a later clarify
	// invocation can resolve them.
	var cache pending.Cache
	if cfg.Pending.StatePath != "" {
		cache = pending.NewFileCache(cfg.Pending.StatePath, cfg.Pending.MaxEntries)
	} else {
		cache = pending.NewMemoryCache(cfg.Pending.MaxEntries)
	}
	store := ledger.NewStore(cfg.Ledger.CSVPath, nil)

	p := pipeline.New(seg, enr, ext, cache, store, logger, pipeline.Options{
		Dedupe:        cfg.Ledger.Dedupe,
		DebugSegments: cfg.Segmenter.DebugSegments,
	})
	return p, nil
}

// PrintResponse writes a processed response as indented JSON.
func PrintResponse(w io.Writer, resp *pipeline.Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(resp)
}

// ReportError prints a pipeline error in a caller-friendly form, including
// the pending id and per-segment details for missing-field failures.
func ReportError(w io.Writer, err error, log logging.Logger) {
	var missingErr *parsererror.MissingFieldsError
	if errors.As(err, &missingErr) {
		log.Warn("Extraction incomplete, clarification required",
			logging.Field{Key: logging.FieldPendingID, Value: missingErr.PendingID})
		payload := map[string]interface{}{
			"error":           "missing required fields",
			"pending_id":      missingErr.PendingID,
			"missing_entries": missingErr.Entries,
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		encoder.SetEscapeHTML(false)
		if encodeErr := encoder.Encode(payload); encodeErr != nil {
			log.Error("Failed to encode error report", logging.Field{Key: logging.FieldError, Value: encodeErr})
		}
		return
	}
	log.Error("Request failed", logging.Field{Key: logging.FieldError, Value: err.Error()})
}
