// Package segmenter splits reconstructed receipt rows into per-transaction
// segments using time anchors, amount proximity and keyword tables.
package segmenter

import (
	"regexp"
	"strings"

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

var (
	timeRe       = regexp.MustCompile(`(上午|下午)?\d{1,2}:\d{2}`)
	amountRe     = regexp.MustCompile(`[¥￥]\s*\d+(?:\.\d{1,2})?`)
	listTimeRe   = regexp.MustCompile(`\d{1,2}月\d{1,2}日\d{1,2}:\d{2}`)
	listAmountRe = regexp.MustCompile(`-?\d+(?:\.\d{1,2})?`)
	relTimeRe    = regexp.MustCompile(`(今天|昨天)\d{1,2}:\d{2}|\d{2}-\d{2}\s?\d{1,2}:\d{2}`)
	dotDateRe    = regexp.MustCompile(`\d{2}\.\d{2}(?:周[一二三四五六日天]|昨天|今天)?`)
)

const (
	// maxAmountGap is how many rows after a time anchor an amount may appear.
	maxAmountGap = 7
	// leadWindow is how many rows of lead-in context precede a time anchor.
	leadWindow = 4
)

// Segmenter splits text rows into transaction segments.
type Segmenter struct {
	rules *Ruleset
}

// New returns a Segmenter using the given ruleset, or the defaults when nil.
func New(rules *Ruleset) *Segmenter {
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &Segmenter{rules: rules}
}

// Rules returns the active keyword tables.
func (s *Segmenter) Rules() *Ruleset {
	return s.rules
}

// Split partitions plain text lines into transaction segments. List-style
// date-time anchors win when two or more are present; otherwise each time
// anchor claims a window up to its nearby amount line plus a short lead-in.
// When no anchors exist, all lines form a single segment.
func (s *Segmenter) Split(lines []string) []models.Segment {
	if len(lines) == 0 {
		return nil
	}
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || s.rules.isNoise(trimmed) {
			continue
		}
		filtered = append(filtered, trimmed)
	}
	if len(filtered) == 0 {
		return nil
	}

	var listTimeIndices []int
	for i, line := range filtered {
		if listTimeRe.MatchString(line) {
			listTimeIndices = append(listTimeIndices, i)
		}
	}
	if len(listTimeIndices) >= 2 {
		segments := make([]models.Segment, 0, len(listTimeIndices))
		for idx, start := range listTimeIndices {
			end := len(filtered)
			if idx+1 < len(listTimeIndices) {
				end = listTimeIndices[idx+1]
			}
			segments = append(segments, models.Segment(filtered[start:end]))
		}
		return segments
	}

	var timeIndices, amountIndices []int
	detailIndices := map[int]bool{}
	for i, line := range filtered {
		if timeRe.MatchString(line) {
			timeIndices = append(timeIndices, i)
		}
		if amountRe.MatchString(line) {
			amountIndices = append(amountIndices, i)
		}
		if s.rules.isDetailMarker(line) {
			detailIndices[i] = true
		}
	}

	if len(timeIndices) == 0 || len(amountIndices) == 0 {
		// List-style ledger with a single date-time line: split on it.
		if len(listTimeIndices) > 0 {
			var segments []models.Segment
			start := listTimeIndices[0]
			marks := map[int]bool{}
			for _, i := range listTimeIndices {
				marks[i] = true
			}
			for idx := 1; idx < len(filtered); idx++ {
				if marks[idx] {
					segments = append(segments, models.Segment(filtered[start:idx]))
					start = idx
				}
			}
			segments = append(segments, models.Segment(filtered[start:]))
			return segments
		}
		return []models.Segment{models.Segment(filtered)}
	}

	var segments []models.Segment
	lastEnd := 0
	for idx, timeIdx := range timeIndices {
		nextTime := len(filtered)
		if idx+1 < len(timeIndices) {
			nextTime = timeIndices[idx+1]
		}
		amountIdx := -1
		for _, ai := range amountIndices {
			if ai < timeIdx {
				continue
			}
			if ai-timeIdx <= maxAmountGap {
				amountIdx = ai
				break
			}
			if ai > nextTime {
				break
			}
		}
		if amountIdx == -1 {
			continue
		}

		endIdx := nextTime
		for di := amountIdx; di < nextTime; di++ {
			if detailIndices[di] {
				endIdx = di + 1
				break
			}
		}
		leadStart := timeIdx - leadWindow
		if leadStart < lastEnd {
			leadStart = lastEnd
		}
		var segment models.Segment
		for _, line := range filtered[leadStart:timeIdx] {
			if !s.rules.isDetailMarker(line) {
				segment = append(segment, line)
			}
		}
		for _, line := range filtered[timeIdx:endIdx] {
			if !s.rules.isDetailMarker(line) {
				segment = append(segment, line)
			}
		}
		if len(segment) > 0 {
			segments = append(segments, segment)
			lastEnd = endIdx
		}
	}

	if len(segments) > 0 {
		return segments
	}
	return []models.Segment{models.Segment(filtered)}
}

// SplitRows partitions reconstructed rows into transaction segments using
// their text content. Detail markers delimit blocks when present; otherwise
// a walk tracks amounts and date anchors, starting a new segment at each
// merchant line after an amount while carrying the last date line forward.
func (s *Segmenter) SplitRows(rows []models.TextRow) []models.Segment {
	if len(rows) == 0 {
		return nil
	}

	var detailIndices []int
	for i, row := range rows {
		if s.rules.isDetailMarker(row.Text) {
			detailIndices = append(detailIndices, i)
		}
	}
	if len(detailIndices) >= 1 {
		var segments []models.Segment
		start := 0
		for _, di := range detailIndices {
			var segment models.Segment
			for _, row := range rows[start:di] {
				if !s.rules.isNoise(row.Text) {
					segment = append(segment, row.Text)
				}
			}
			if len(segment) > 0 {
				segments = append(segments, segment)
			}
			start = di + 1
		}
		var tail models.Segment
		for _, row := range rows[start:] {
			if !s.rules.isNoise(row.Text) {
				tail = append(tail, row.Text)
			}
		}
		if len(tail) > 0 {
			segments = append(segments, tail)
		}
		return s.mergeTimeOnly(segments)
	}

	var segments []models.Segment
	var current models.Segment
	currentDateLine := ""
	hasAmount := false

	for _, row := range rows {
		text := row.Text
		if s.rules.isNoise(text) {
			continue
		}
		isAnchor := isDateAnchor(text) || strings.Contains(text, "－") || strings.Contains(text, "—")
		if isAnchor {
			if len(current) > 0 {
				segments = append(segments, current)
			}
			current = models.Segment{text}
			if isDateAnchor(text) {
				currentDateLine = text
			}
			hasAmount = false
			continue
		}
		if len(current) == 0 {
			current = models.Segment{text}
			if isDateAnchor(text) {
				currentDateLine = text
			}
			hasAmount = isAmountLine(text)
			continue
		}
		// An amount followed by another merchant line means a new
		// transaction; carry the date line forward for context.
		if hasAmount && isMerchantLine(text) {
			segments = append(segments, current)
			current = nil
			if currentDateLine != "" {
				current = models.Segment{currentDateLine}
			}
			current = append(current, text)
			hasAmount = false
			continue
		}
		current = append(current, text)
		if isAmountLine(text) {
			hasAmount = true
		}
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return s.mergeTimeOnly(segments)
}

// IsCandidate reports whether a segment plausibly holds one transaction:
// it carries an amount, a status signal, and no header chrome.
func (s *Segmenter) IsCandidate(segment models.Segment) bool {
	if len(segment) == 0 {
		return false
	}
	for _, line := range segment {
		if containsAny(line, s.rules.HeaderKeywords) {
			return false
		}
	}
	hasAmount := false
	hasStatus := false
	for _, line := range segment {
		if listAmountRe.MatchString(line) {
			hasAmount = true
		}
		if containsAny(line, s.rules.StatusKeywords) {
			hasStatus = true
		}
	}
	return hasAmount && hasStatus
}

// Filter keeps only candidate segments.
func (s *Segmenter) Filter(segments []models.Segment) []models.Segment {
	var kept []models.Segment
	for _, segment := range segments {
		if s.IsCandidate(segment) {
			kept = append(kept, segment)
		}
	}
	log.WithFields(logrus.Fields{
		"total": len(segments),
		"kept":  len(kept),
	}).Debug("Filtered transaction candidates")
	return kept
}

// mergeTimeOnly folds segments holding only a time reference into their
// predecessor, since they carry no transaction of their own.
func (s *Segmenter) mergeTimeOnly(segments []models.Segment) []models.Segment {
	if len(segments) == 0 {
		return segments
	}
	var merged []models.Segment
	for _, segment := range segments {
		if isTimeOnlySegment(segment) && len(merged) > 0 {
			last := merged[len(merged)-1]
			merged[len(merged)-1] = append(last, segment...)
			continue
		}
		merged = append(merged, segment)
	}
	return merged
}

func isTimeOnlySegment(segment models.Segment) bool {
	if len(segment) == 0 {
		return false
	}
	text := strings.Join(segment, "")
	if !listTimeRe.MatchString(text) && !relTimeRe.MatchString(text) {
		return false
	}
	// Strip the time markers themselves before looking for an amount, since
	// any time string contains digits.
	rest := listTimeRe.ReplaceAllString(text, "")
	rest = relTimeRe.ReplaceAllString(rest, "")
	hasAmount := listAmountRe.MatchString(rest)
	hasMerchant := strings.Contains(rest, "－") || strings.Contains(rest, "—")
	return !hasAmount && !hasMerchant
}

func isAmountLine(text string) bool {
	return listAmountRe.MatchString(text)
}

func isDateAnchor(text string) bool {
	return listTimeRe.MatchString(text) || dotDateRe.MatchString(text)
}

func isTimeLine(text string) bool {
	return relTimeRe.MatchString(text)
}

func isBankLine(text string) bool {
	return strings.Contains(text, "·") || strings.Contains(text, "银行")
}

func isMerchantLine(text string) bool {
	if isAmountLine(text) || isDateAnchor(text) || isTimeLine(text) {
		return false
	}
	if isBankLine(text) {
		return false
	}
	return len([]rune(text)) >= 3
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
