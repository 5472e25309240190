// Package textutils provides text extraction and manipulation helpers for
// the fallback field extractor.
package textutils

import (
	"regexp"
	"strings"
)

// DefaultTruncateLimit bounds the text sent per record to the completion
// service.
const DefaultTruncateLimit = 800

var (
	// "在<place><action>" — place anchored by a locative marker and closed
	// by an action verb, whitespace, digit or punctuation.
	cjkPlaceRe = regexp.MustCompile(`在([\p{Han}A-Za-z0-9]{1,20}?)(?:花了|花费|消费|买了|买单|支付|付了|付款|充值|吃了|喝了|点了|\s|\d|，|。|$)`)
	// "at <place>" — closed by a following action verb or punctuation.
	enPlaceRe = regexp.MustCompile(`(?i)\bat\s+([A-Za-z0-9&' .-]+?)(?:\s+(?:spent|paid|bought|cost|for|on)\b|[,.]|$)`)
)

// leadNoise lists pronoun/time/verb prefixes stripped from merchant guesses.
var leadNoise = []string{
	"我们", "我", "今天", "昨天", "前天", "刚才", "刚刚",
	"花了", "消费", "支付", "付了", "买了",
	"i ", "we ", "just ", "spent", "paid",
}

// Truncate shortens text to at most limit runes, trimming whitespace first.
func Truncate(text string, limit int) string {
	cleaned := strings.TrimSpace(text)
	runes := []rune(cleaned)
	if len(runes) <= limit {
		return cleaned
	}
	return string(runes[:limit])
}

// ExtractMerchant locates a merchant name via a locative anchor phrase
// ("在<place>" or "at <place>"), trimming the trailing action verb.
// Returns "" when no anchor is present.
func ExtractMerchant(text string) string {
	if m := cjkPlaceRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := enPlaceRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// BeforeAmount returns the text preceding the first occurrence of the amount
// string, with leading pronouns, relative dates and action verbs stripped.
// Used as the merchant guess of last resort.
func BeforeAmount(text, amount string) string {
	if amount == "" {
		return ""
	}
	idx := strings.Index(text, amount)
	if idx <= 0 {
		return ""
	}
	head := strings.TrimSpace(text[:idx])
	head = StripLeadNoise(head)
	head = strings.TrimRight(head, " ，,。.:：在")
	head = strings.TrimSuffix(head, "at")
	return strings.TrimSpace(head)
}

// StripLeadNoise repeatedly removes known pronoun/time/verb prefixes.
func StripLeadNoise(text string) string {
	lowered := text
	for {
		trimmed := strings.TrimLeft(lowered, " ，,。.")
		stripped := trimmed
		for _, prefix := range leadNoise {
			if strings.HasPrefix(strings.ToLower(stripped), prefix) {
				stripped = stripped[len(prefix):]
				break
			}
		}
		if stripped == trimmed && trimmed == lowered {
			return trimmed
		}
		lowered = stripped
	}
}
