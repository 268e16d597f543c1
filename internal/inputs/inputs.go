// Package inputs coerces loosely typed request bodies into an ordered list
// of texts to embed. Real embedding providers accept "inputs" as either a
// single string or a list, and callers routinely send junk; normalization
// never fails, it only degrades to an empty list.
package inputs

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Normalize extracts the "inputs" field from a raw JSON body.
//
// Rules, in priority order: an unparseable body is treated as {}; a missing
// field is an empty list; a string becomes a one-element list; a list has
// each element coerced to text; any other shape is an empty list.
func Normalize(raw []byte) []string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return []string{}
	}

	field, ok := payload["inputs"]
	if !ok {
		return []string{}
	}

	var single string
	if err := json.Unmarshal(field, &single); err == nil {
		return []string{single}
	}

	var list []json.RawMessage
	if err := json.Unmarshal(field, &list); err != nil {
		// Number, object, bool, null: not an input list.
		return []string{}
	}

	texts := make([]string, 0, len(list))
	for _, item := range list {
		texts = append(texts, coerce(item))
	}
	return texts
}

// coerce renders a single list element as text. Strings pass through,
// numbers keep their literal form, everything else falls back to its
// compact JSON encoding.
func coerce(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}

	dec := json.NewDecoder(bytes.NewReader(item))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(item)
	}
	switch t := v.(type) {
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return "null"
	default:
		compact, err := json.Marshal(v)
		if err != nil {
			return string(item)
		}
		return string(compact)
	}
}
