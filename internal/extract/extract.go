// Package extract recovers structured data from raw model completions.
// Model output is only loosely guaranteed to be valid JSON: it may be wrapped
// in markdown code fences or surrounded by prose. Everything here fails soft -
// a parse failure is logged and reported as absent, never propagated as an
// error. Shape validation is the caller's job.
package extract

import (
	"encoding/json"
	"strings"

	"truthlens/internal/logging"
)

// Clean removes markdown code fences from a model response, including an
// optional language hint on the opening fence.
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Object parses a model response expected to contain a single JSON object.
// Returns (nil, false) for absent input or anything that does not parse.
func Object(raw string) (map[string]interface{}, bool) {
	cleaned := Clean(raw)
	if cleaned == "" {
		return nil, false
	}
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		logging.ExtractWarn("object parse failed: %v raw=%q", err, truncate(raw, 2000))
		return nil, false
	}
	return obj, true
}

// List parses a model response expected to contain a JSON array.
// Returns (nil, false) for absent input or anything that does not parse.
// Element shape is not checked here.
func List(raw string) ([]interface{}, bool) {
	cleaned := Clean(raw)
	if cleaned == "" {
		return nil, false
	}
	var list []interface{}
	if err := json.Unmarshal([]byte(cleaned), &list); err != nil {
		logging.ExtractWarn("list parse failed: %v raw=%q", err, truncate(raw, 2000))
		return nil, false
	}
	return list, true
}

// String reads a string field from a loose object, empty when missing or
// not a string.
func String(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// Int reads a numeric field from a loose object, falling back when the field
// is missing or not a number. JSON numbers decode as float64.
func Int(m map[string]interface{}, key string, fallback int) int {
	if m == nil {
		return fallback
	}
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

// Strings reads a list-of-strings field from a loose object. Non-string
// elements are dropped. Missing or mistyped fields yield an empty slice.
func Strings(m map[string]interface{}, key string) []string {
	if m == nil {
		return nil
	}
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ObjectField reads a nested object field, nil when missing or mistyped.
func ObjectField(m map[string]interface{}, key string) map[string]interface{} {
	if m == nil {
		return nil
	}
	obj, _ := m[key].(map[string]interface{})
	return obj
}

// Objects reads a list-of-objects field. Non-object elements are dropped.
func Objects(m map[string]interface{}, key string) []map[string]interface{} {
	if m == nil {
		return nil
	}
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, v := range raw {
		if obj, ok := v.(map[string]interface{}); ok {
			out = append(out, obj)
		}
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...[truncated]"
}
