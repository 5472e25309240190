// Package enricher prepends shared date and payment-method context lines to
// transaction segments before field extraction.
package enricher

import (
	"regexp"
	"strings"

	"scanledger/internal/models"
	"scanledger/internal/segmenter"
)

var dateContextRe = regexp.MustCompile(`\d{4}[年/-]\d{1,2}[月/-]\d{1,2}`)

// Enricher collects page-level context from the full row list and combines
// it with individual segments.
type Enricher struct {
	rules *segmenter.Ruleset
}

// New returns an Enricher using the given keyword tables, or the defaults
// when nil.
func New(rules *segmenter.Ruleset) *Enricher {
	if rules == nil {
		rules = segmenter.DefaultRuleset()
	}
	return &Enricher{rules: rules}
}

// DateLines returns all lines carrying a full date, in input order.
func (e *Enricher) DateLines(lines []string) []string {
	var context []string
	for _, line := range lines {
		if dateContextRe.MatchString(line) {
			context = append(context, line)
		}
	}
	return context
}

// PaymentLines returns all lines mentioning a known payment method, in
// input order.
func (e *Enricher) PaymentLines(lines []string) []string {
	var context []string
	for _, line := range lines {
		if e.rules.HasPaymentHint(line) {
			context = append(context, line)
		}
	}
	return context
}

// Combine builds the text submitted for extraction from one segment. Date
// context is always prepended; payment context only when the segment does
// not already mention a payment method; a caller note is appended last.
// Combining is idempotent: enriching an already-combined text adds nothing.
func (e *Enricher) Combine(segment models.Segment, dateContext, paymentContext []string, note string) string {
	combined := strings.TrimSpace(segment.Text())
	if combined == "" {
		return ""
	}
	if len(dateContext) > 0 && !containsAll(combined, dateContext) {
		combined = strings.Join(dateContext, "\n") + "\n" + combined
	}
	if len(paymentContext) > 0 && !e.rules.HasPaymentHint(combined) {
		combined = strings.Join(paymentContext, "\n") + "\n" + combined
	}
	if note != "" && !strings.Contains(combined, strings.TrimSpace(note)) {
		combined = strings.TrimSpace(combined + "\n" + strings.TrimSpace(note))
	}
	return combined
}

// CombineAll applies Combine to every segment, dropping empties.
func (e *Enricher) CombineAll(segments []models.Segment, lines []string, note string) []string {
	dateContext := e.DateLines(lines)
	paymentContext := e.PaymentLines(lines)
	var combined []string
	for _, segment := range segments {
		text := e.Combine(segment, dateContext, paymentContext, note)
		if text != "" {
			combined = append(combined, text)
		}
	}
	return combined
}

func containsAll(text string, lines []string) bool {
	for _, line := range lines {
		if !strings.Contains(text, line) {
			return false
		}
	}
	return true
}
