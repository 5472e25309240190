// Package dateutils provides the date parsing and normalization used when
// recovering transaction dates from recognition text.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayoutISO is the canonical layout for every date the pipeline emits.
const DateLayoutISO = "2006-01-02"

// CommonFormats is the list of layouts tried when parsing an explicit date.
var CommonFormats = []string{
	DateLayoutISO,
	"2006/01/02",
	"02.01.2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
}

var (
	numericDateRe = regexp.MustCompile(`(20\d{2})[/-](\d{1,2})[/-](\d{1,2})`)
	cjkDateRe     = regexp.MustCompile(`(20\d{2})年(\d{1,2})月(\d{1,2})日`)
)

// Relative date words mapped to day offsets from "now".
var relativeTerms = []struct {
	word   string
	offset int
}{
	{"前天", -2},
	{"昨天", -1},
	{"今天", 0},
	{"day before yesterday", -2},
	{"yesterday", -1},
	{"today", 0},
}

// ParseDate attempts to parse an explicit date string using CommonFormats.
func ParseDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(DateLayoutISO)
}

// ExtractDate scans free-form text for a calendar date and returns it in ISO
// form. It tries explicit numeric dates first, then CJK calendar dates, then
// relative terms resolved against now. Returns "" when nothing matches.
func ExtractDate(text string, now time.Time) string {
	if m := numericDateRe.FindStringSubmatch(text); m != nil {
		return isoFromParts(m[1], m[2], m[3])
	}
	if m := cjkDateRe.FindStringSubmatch(text); m != nil {
		return isoFromParts(m[1], m[2], m[3])
	}
	lowered := strings.ToLower(text)
	for _, term := range relativeTerms {
		if strings.Contains(lowered, term.word) {
			return ToISODate(now.AddDate(0, 0, term.offset))
		}
	}
	return ""
}

func isoFromParts(year, month, day string) string {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
