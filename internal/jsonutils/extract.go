// Package jsonutils extracts JSON defensively from free-form completion
// output. Models wrap answers in code fences, prose and half-valid syntax;
// callers get a decoded value or nothing, never an error to propagate.
package jsonutils

import (
	"encoding/json"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// Extract attempts to locate and decode a JSON value embedded in text.
// The strategy order is: strip code fences, direct parse, outermost
// array span, outermost object span, then automated repair. Returns
// (nil, false) when nothing decodes.
func Extract(text string) (interface{}, bool) {
	stripped := StripFences(text)
	if stripped == "" {
		return nil, false
	}

	if v, ok := tryDecode(stripped); ok {
		return v, true
	}
	if span := outermostSpan(stripped, '[', ']'); span != "" {
		if v, ok := tryDecode(span); ok {
			return v, true
		}
	}
	if span := outermostSpan(stripped, '{', '}'); span != "" {
		if v, ok := tryDecode(span); ok {
			return v, true
		}
	}
	if repaired, err := jsonrepair.RepairJSON(stripped); err == nil {
		if v, ok := tryDecode(repaired); ok {
			return v, true
		}
	}
	return nil, false
}

// StripFences removes a markdown code-fence wrapper and an optional leading
// "json" language tag.
func StripFences(text string) string {
	stripped := strings.TrimSpace(text)
	if !strings.HasPrefix(stripped, "```") {
		return stripped
	}
	stripped = strings.Trim(stripped, "`")
	stripped = strings.TrimSpace(stripped)
	if strings.HasPrefix(stripped, "json") {
		stripped = strings.TrimSpace(strings.TrimPrefix(stripped, "json"))
	}
	return stripped
}

func tryDecode(text string) (interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return v, true
	default:
		// Bare strings/numbers are not useful extraction payloads.
		return nil, false
	}
}

func outermostSpan(text string, open, closing byte) string {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, closing)
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}
