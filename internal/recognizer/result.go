// Package recognizer decodes text-recognition output (OCR or speech) into
// tokens the pipeline can consume.
package recognizer

import (
	"encoding/json"
	"strings"

	"scanledger/internal/models"
	"scanledger/internal/parsererror"
)

// Result is a decoded recognition payload: positioned tokens when the
// engine reported geometry, plus the raw concatenated text.
type Result struct {
	RawText string
	Tokens  []models.RecognitionToken
}

// payload mirrors the JSON shape produced by recognition engines: a list of
// lines that are either plain strings or objects with text, an optional
// four-value bounding box and a confidence score.
type payload struct {
	Lines   []json.RawMessage `json:"lines"`
	RawText string            `json:"raw_text"`
}

type lineObject struct {
	Text       string    `json:"text"`
	BBox       []float64 `json:"bbox"`
	Confidence float64   `json:"confidence"`
}

// Decode parses a recognition JSON payload. Lines may be strings or
// objects; objects without a valid bounding box become boxless tokens.
func Decode(data []byte) (*Result, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &parsererror.ValidationError{
			Source: "recognition payload",
			Reason: "invalid JSON: " + err.Error(),
		}
	}

	result := &Result{RawText: strings.TrimSpace(p.RawText)}
	for _, raw := range p.Lines {
		var obj lineObject
		if err := json.Unmarshal(raw, &obj); err == nil && strings.TrimSpace(obj.Text) != "" {
			token := models.RecognitionToken{
				Text:       strings.TrimSpace(obj.Text),
				Confidence: obj.Confidence,
			}
			if len(obj.BBox) == 4 {
				token.Box = &models.BoundingBox{
					X0: obj.BBox[0], Y0: obj.BBox[1],
					X1: obj.BBox[2], Y1: obj.BBox[3],
				}
			}
			result.Tokens = append(result.Tokens, token)
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err == nil && strings.TrimSpace(text) != "" {
			result.Tokens = append(result.Tokens, models.RecognitionToken{
				Text: strings.TrimSpace(text),
			})
		}
	}

	if result.Empty() {
		return nil, &parsererror.ValidationError{
			Source: "recognition payload",
			Reason: "no text lines or raw text present",
		}
	}
	return result, nil
}

// FromText wraps plain text (a transcript or manual input) as a Result with
// one boxless token per non-empty line.
func FromText(text string) *Result {
	trimmed := strings.TrimSpace(text)
	result := &Result{RawText: trimmed}
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			result.Tokens = append(result.Tokens, models.RecognitionToken{Text: line})
		}
	}
	return result
}

// Lines returns the token texts, falling back to raw text split by line
// when no tokens were decoded.
func (r *Result) Lines() []string {
	if len(r.Tokens) > 0 {
		lines := make([]string, 0, len(r.Tokens))
		for _, token := range r.Tokens {
			lines = append(lines, token.Text)
		}
		return lines
	}
	var lines []string
	for _, line := range strings.Split(r.RawText, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Empty reports whether the result carries no usable text.
func (r *Result) Empty() bool {
	return len(r.Tokens) == 0 && r.RawText == ""
}
