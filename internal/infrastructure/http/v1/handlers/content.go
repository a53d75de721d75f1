package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"folio/internal/core/apperror"
	"folio/internal/core/entity"
	"folio/internal/core/id"
	"folio/internal/domain"
	"folio/internal/domain/filter"
	"folio/internal/infrastructure/http/v1/dto"
	"folio/internal/infrastructure/metrics"
)

// ContentHandler serves one content resource. The same handler type serves
// every resource; only the service differs.
type ContentHandler[T entity.Content] struct {
	*BaseHandler
	service *domain.ContentService[T]
}

// NewContentHandler creates a handler for service's resource.
func NewContentHandler[T entity.Content](base *BaseHandler, service *domain.ContentService[T]) *ContentHandler[T] {
	return &ContentHandler[T]{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /{resource}
func (h *ContentHandler[T]) List(c *gin.Context) {
	opts, err := filter.ParseOptions(c.Request.URL.Query())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.list(c, opts)
}

// AdminList handles GET /admin/{resource}. Unpublished rows and drafts are
// included unless the query says otherwise; includeDeleted=true adds the
// trash.
func (h *ContentHandler[T]) AdminList(c *gin.Context) {
	query := c.Request.URL.Query()
	opts, err := filter.ParseOptions(query)
	if err != nil {
		h.Error(c, err)
		return
	}

	for param, dst := range map[string]*bool{
		"includeUnpublished": &opts.IncludeUnpublished,
		"includeDrafts":      &opts.IncludeDrafts,
	} {
		if !query.Has(param) {
			*dst = true
		}
	}
	if raw := query.Get("includeDeleted"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("includeDeleted must be a boolean").
				WithDetail("field", "includeDeleted"))
			return
		}
		opts.IncludeDeleted = v
	}

	h.list(c, opts)
}

func (h *ContentHandler[T]) list(c *gin.Context, opts filter.Options) {
	res, err := h.service.List(c.Request.Context(), opts)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.List(res, dto.FromOptions(opts)))
}

// Get handles GET /{resource}/:id
func (h *ContentHandler[T]) Get(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	e, err := h.service.Get(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// AdminGet handles GET /admin/{resource}/:id and also returns soft-deleted
// rows.
func (h *ContentHandler[T]) AdminGet(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	e, err := h.service.GetAny(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// Create handles POST /{resource}
func (h *ContentHandler[T]) Create(c *gin.Context) {
	e := h.service.NewEntity()
	if !h.BindJSON(c, e) {
		return
	}

	if err := h.service.Create(c.Request.Context(), e); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, e)
}

// Update handles PUT /{resource}/:id with a partial body.
func (h *ContentHandler[T]) Update(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var payload map[string]any
	if !h.BindJSON(c, &payload) {
		return
	}

	e, err := h.service.Update(c.Request.Context(), entityID, payload)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// Delete handles DELETE /{resource}/:id (soft delete).
func (h *ContentHandler[T]) Delete(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), entityID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "deleted")
}

// Restore handles POST /{resource}/:id/restore
func (h *ContentHandler[T]) Restore(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	e, err := h.service.Restore(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// ToggleFeatured handles PATCH /{resource}/:id/featured
func (h *ContentHandler[T]) ToggleFeatured(c *gin.Context) {
	h.toggle(c, h.service.ToggleFeatured)
}

// TogglePublished handles PATCH /{resource}/:id/published
func (h *ContentHandler[T]) TogglePublished(c *gin.Context) {
	h.toggle(c, h.service.TogglePublished)
}

func (h *ContentHandler[T]) toggle(c *gin.Context, fn func(ctx context.Context, entityID id.ID) (T, error)) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}

	e, err := fn(c.Request.Context(), entityID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, e)
}

// Increment handles POST /{resource}/:id/increment/:field
func (h *ContentHandler[T]) Increment(c *gin.Context) {
	entityID, ok := h.ParseID(c)
	if !ok {
		return
	}
	field := c.Param("field")

	v, err := h.service.IncrementField(c.Request.Context(), entityID, field)
	if err != nil {
		h.Error(c, err)
		return
	}

	metrics.CounterIncremented(h.service.Resource().Name, field)
	h.OK(c, dto.IncrementResponse{Field: field, Value: v})
}

// Reorder handles PUT /{resource}/reorder
func (h *ContentHandler[T]) Reorder(c *gin.Context) {
	var req dto.ReorderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Reorder(c.Request.Context(), req.Items); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "reordered")
}
