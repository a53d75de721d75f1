package dto

import (
	"folio/internal/domain"
	"folio/internal/domain/contact"
	"folio/internal/domain/filter"
)

// ReorderRequest is the body of PUT /{resource}/reorder.
type ReorderRequest struct {
	Items []domain.ReorderItem `json:"items" binding:"required,min=1"`
}

// IncrementResponse reports the new counter value.
type IncrementResponse struct {
	Field string `json:"field"`
	Value int64  `json:"value"`
}

// AppliedFilters echoes list options back to the client.
type AppliedFilters struct {
	Featured           *bool             `json:"featured,omitempty"`
	Category           string            `json:"category,omitempty"`
	IncludeUnpublished bool              `json:"includeUnpublished,omitempty"`
	IncludeDrafts      bool              `json:"includeDrafts,omitempty"`
	IncludeDeleted     bool              `json:"includeDeleted,omitempty"`
	SortBy             string            `json:"sortBy,omitempty"`
	SortOrder          string            `json:"sortOrder,omitempty"`
	FeaturedFirst      bool              `json:"featuredFirst,omitempty"`
	Limit              int               `json:"limit,omitempty"`
	Skip               int               `json:"skip,omitempty"`
	Extras             map[string]string `json:"extras,omitempty"`
}

// FromOptions builds the echo of opts.
func FromOptions(opts filter.Options) AppliedFilters {
	return AppliedFilters{
		Featured:           opts.Featured,
		Category:           opts.Category,
		IncludeUnpublished: opts.IncludeUnpublished,
		IncludeDrafts:      opts.IncludeDrafts,
		IncludeDeleted:     opts.IncludeDeleted,
		SortBy:             opts.SortBy,
		SortOrder:          opts.SortOrder,
		FeaturedFirst:      opts.FeaturedFirst,
		Limit:              opts.Limit,
		Skip:               opts.Skip,
		Extras:             opts.Extras,
	}
}

// ContactRequest is the public contact form.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ToMessage converts the request to a domain message.
func (r ContactRequest) ToMessage() *contact.Message {
	return &contact.Message{
		Name:    r.Name,
		Email:   r.Email,
		Subject: r.Subject,
		Body:    r.Message,
	}
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
