package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrNoJSONObject is returned when the model answer holds no JSON object
var ErrNoJSONObject = errors.New("extraction: response contains no JSON object")

// firstJSONObject decodes the first complete JSON object found in text.
// Models sometimes wrap the object in prose or a code fence.
func firstJSONObject(text string) (map[string]any, error) {
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err == nil {
			return normalizeNumbers(obj).(map[string]any), nil
		}
	}
	return nil, ErrNoJSONObject
}

// splitAnswer separates the fields object from the summary. An answer that
// does not follow the requested shape is taken as fields as a whole.
func splitAnswer(obj map[string]any) (map[string]any, string) {
	summary, _ := obj["summary"].(string)
	if fields, ok := obj["fields"].(map[string]any); ok {
		return fields, strings.TrimSpace(summary)
	}
	fields := make(map[string]any, len(obj))
	for k, v := range obj {
		if k != "summary" {
			fields[k] = v
		}
	}
	return fields, strings.TrimSpace(summary)
}

// normalizeNumbers turns json.Number into int64 when integral, float64 otherwise
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			t[k] = normalizeNumbers(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = normalizeNumbers(inner)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	}
	return v
}

func truncateBody(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > maxErrorBodyLen {
		cut := maxErrorBodyLen
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		return string(body[:cut]) + "..."
	}
	return string(body)
}
