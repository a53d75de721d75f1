package filter

import (
	"net/url"
	"strconv"
	"strings"

	"folio/internal/core/apperror"
)

// Resource-specific query parameters.
const (
	ParamRelationship   = "relationship"
	ParamCompany        = "company"
	ParamPosition       = "position"
	ParamEmploymentType = "employmentType"
	ParamIsCurrent      = "isCurrent"
)

var extraParams = []string{
	ParamRelationship,
	ParamCompany,
	ParamPosition,
	ParamEmploymentType,
	ParamIsCurrent,
}

// Options is the normalized list-query option bag.
type Options struct {
	// Featured is tri-state: nil means unset.
	Featured *bool

	Category           string
	IncludeUnpublished bool
	IncludeDrafts      bool

	// IncludeDeleted is set by admin flows only; ParseOptions never sets it.
	IncludeDeleted bool

	SortBy        string
	SortOrder     string
	FeaturedFirst bool

	Limit int
	Skip  int

	// Extras holds resource-specific parameters by name. Only those declared
	// in the resource Schema are applied.
	Extras map[string]string
}

// ParseOptions reads list options from query parameters.
func ParseOptions(values url.Values) (Options, error) {
	var (
		opts Options
		err  error
	)

	if raw := values.Get("featured"); raw != "" {
		v, err := parseBool("featured", raw)
		if err != nil {
			return Options{}, err
		}
		opts.Featured = &v
	}

	opts.Category = strings.TrimSpace(values.Get("category"))

	if opts.IncludeUnpublished, err = optionalBool(values, "includeUnpublished"); err != nil {
		return Options{}, err
	}
	if opts.IncludeDrafts, err = optionalBool(values, "includeDrafts"); err != nil {
		return Options{}, err
	}
	if opts.FeaturedFirst, err = optionalBool(values, "featuredFirst"); err != nil {
		return Options{}, err
	}

	opts.SortBy = strings.TrimSpace(values.Get("sortBy"))
	opts.SortOrder = strings.TrimSpace(values.Get("sortOrder"))

	if opts.Limit, err = optionalCount(values, "limit"); err != nil {
		return Options{}, err
	}
	if opts.Skip, err = optionalCount(values, "skip"); err != nil {
		return Options{}, err
	}

	for _, name := range extraParams {
		if raw := strings.TrimSpace(values.Get(name)); raw != "" {
			if opts.Extras == nil {
				opts.Extras = make(map[string]string)
			}
			opts.Extras[name] = raw
		}
	}

	return opts, nil
}

func optionalBool(values url.Values, name string) (bool, error) {
	raw := values.Get(name)
	if raw == "" {
		return false, nil
	}
	return parseBool(name, raw)
}

func parseBool(name, raw string) (bool, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, apperror.NewValidation(name + " must be a boolean").
			WithDetail("field", name).
			WithDetail("value", raw)
	}
	return v, nil
}

func optionalCount(values url.Values, name string) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperror.NewValidation(name + " must be a non-negative integer").
			WithDetail("field", name).
			WithDetail("value", raw)
	}
	return v, nil
}
