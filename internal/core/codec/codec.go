// Package codec converts content fields that are logically arrays or objects
// to and from the JSON text they are persisted as.
//
// Two entry points exist. Field[T] is the typed variant that entities embed,
// so encoded text is decoded at Scan time and never leaves the repository.
// Decode/Encode work on loose records (map[string]any) such as partial update
// payloads, where only the listed field names are touched.
package codec

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	"folio/pkg/logger"
)

// ErrNotStructured is returned when text is not a JSON array or object.
var ErrNotStructured = errors.New("encoded field is not a JSON array or object")

// DecodeText parses persisted text into dst. Only arrays and objects are
// accepted; scalars are reported as ErrNotStructured.
func DecodeText(text string, dst any) error {
	t := strings.TrimSpace(text)
	if t == "" || (t[0] != '[' && t[0] != '{') {
		return ErrNotStructured
	}
	return json.Unmarshal([]byte(t), dst)
}

// Decode returns a copy of record with every named field that holds a string
// parsed into structured data. A field that fails to parse keeps its raw
// value and a warning is logged; decode never fails the whole record.
func Decode(ctx context.Context, record map[string]any, fields []string) map[string]any {
	out := make(map[string]any, len(record))
	maps.Copy(out, record)

	for _, name := range fields {
		raw, ok := out[name]
		if !ok || raw == nil {
			continue
		}
		text, ok := raw.(string)
		if !ok {
			continue
		}

		var v any
		if err := DecodeText(text, &v); err != nil {
			logger.Warn(ctx, "encoded field left undecoded", "field", name, "error", err)
			continue
		}
		out[name] = v
	}

	return out
}

// Encode returns a copy of record with every named, present field serialized
// to JSON text. Strings are assumed to be encoded already and pass through,
// nil stays nil, and fields missing from record are not added.
func Encode(record map[string]any, fields []string) (map[string]any, error) {
	out := make(map[string]any, len(record))
	maps.Copy(out, record)

	for _, name := range fields {
		v, ok := out[name]
		if !ok || v == nil {
			continue
		}

		switch tv := v.(type) {
		case string:
			continue
		case driver.Valuer:
			encoded, err := tv.Value()
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", name, err)
			}
			out[name] = encoded
		default:
			b, err := json.Marshal(tv)
			if err != nil {
				return nil, fmt.Errorf("encode %s: %w", name, err)
			}
			out[name] = string(b)
		}
	}

	return out, nil
}
