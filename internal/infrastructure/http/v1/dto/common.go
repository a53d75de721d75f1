// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"folio/internal/domain"
)

// Envelope is the uniform response body.
// Data is always present on success (an empty list renders as []).
type Envelope struct {
	Success bool           `json:"success"`
	Count   *int           `json:"count,omitempty"`
	Total   *int64         `json:"total,omitempty"`
	Data    any            `json:"data,omitempty"`
	Filters any            `json:"filters,omitempty"`
	Meta    any            `json:"meta,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// OK wraps a single value.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// List wraps one page of a list result. filters echoes the applied options.
func List[T any](res domain.ListResult[T], filters any) Envelope {
	items := res.Items
	if items == nil {
		items = []T{}
	}
	count := len(items)
	total := res.TotalCount
	return Envelope{
		Success: true,
		Count:   &count,
		Total:   &total,
		Data:    items,
		Filters: filters,
	}
}

// Done is a success body without data.
func Done(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

// Fail is an error body.
func Fail(code, message string, details map[string]any) Envelope {
	return Envelope{Success: false, Code: code, Error: message, Details: details}
}
