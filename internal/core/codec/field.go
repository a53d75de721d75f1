package codec

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"folio/pkg/logger"
)

// Field holds the decoded value of one encoded column.
//
// Valid=false is SQL NULL / JSON null, which is distinct from an empty
// collection. Raw is set only when the stored text could not be decoded; it
// is written back and rendered verbatim so a malformed cell survives a
// read-modify-write untouched.
type Field[T any] struct {
	Val   T
	Valid bool
	Raw   string
}

// StringList is the common array-of-strings field (tags, techStack, ...).
type StringList = Field[[]string]

// StringMap is a flat object field (links, socialLinks).
type StringMap = Field[map[string]string]

// Object is a free-form object field (resume sections).
type Object = Field[map[string]any]

// Of wraps v as a non-null field.
func Of[T any](v T) Field[T] {
	return Field[T]{Val: v, Valid: true}
}

// Malformed reports whether the stored text failed to decode.
func (f Field[T]) Malformed() bool {
	return f.Raw != ""
}

// Scan implements sql.Scanner.
func (f *Field[T]) Scan(src any) error {
	var text string
	switch v := src.(type) {
	case nil:
		*f = Field[T]{}
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("codec: unsupported source type %T", src)
	}
	if strings.TrimSpace(text) == "null" {
		*f = Field[T]{}
		return nil
	}

	var val T
	if err := DecodeText(text, &val); err != nil {
		logger.Warn(context.Background(), "encoded field left undecoded",
			"type", fmt.Sprintf("%T", val),
			"error", err,
		)
		*f = Field[T]{Valid: true, Raw: text}
		return nil
	}

	*f = Field[T]{Val: val, Valid: true}
	return nil
}

// Value implements driver.Valuer. A malformed field is written back as-is.
func (f Field[T]) Value() (driver.Value, error) {
	if !f.Valid {
		return nil, nil
	}
	if f.Raw != "" {
		return f.Raw, nil
	}
	b, err := f.encode()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// encode marshals Val; a nil slice or map encodes as an empty collection.
func (f Field[T]) encode() ([]byte, error) {
	b, err := json.Marshal(f.Val)
	if err != nil || !bytes.Equal(b, []byte("null")) {
		return b, err
	}
	switch reflect.TypeOf(&f.Val).Elem().Kind() {
	case reflect.Slice, reflect.Array:
		return []byte("[]"), nil
	case reflect.Map, reflect.Struct:
		return []byte("{}"), nil
	}
	return b, nil
}

// MarshalJSON renders the decoded value, or the raw text when malformed.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	if f.Raw != "" {
		return json.Marshal(f.Raw)
	}
	return f.encode()
}

// UnmarshalJSON accepts the structured value or a string that already holds
// its JSON encoding.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = Field[T]{}
		return nil
	}

	var val T
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		if err := DecodeText(s, &val); err != nil {
			return fmt.Errorf("encoded field: %w", err)
		}
	} else if err := json.Unmarshal(trimmed, &val); err != nil {
		return err
	}

	*f = Field[T]{Val: val, Valid: true}
	return nil
}
