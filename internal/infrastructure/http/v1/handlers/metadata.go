package handlers

import (
	"github.com/gin-gonic/gin"

	"folio/internal/core/apperror"
	"folio/internal/metadata"
)

type MetadataHandler struct {
	*BaseHandler
	registry *metadata.Registry
}

func NewMetadataHandler(base *BaseHandler, registry *metadata.Registry) *MetadataHandler {
	return &MetadataHandler{
		BaseHandler: base,
		registry:    registry,
	}
}

// ListResources returns every registered resource definition.
// GET /api/v1/meta
func (h *MetadataHandler) ListResources(c *gin.Context) {
	h.OK(c, h.registry.List())
}

// GetResource returns the definition of one resource.
// GET /api/v1/meta/:name
func (h *MetadataHandler) GetResource(c *gin.Context) {
	name := c.Param("name")
	def, ok := h.registry.Get(name)
	if !ok {
		h.Error(c, apperror.NewNotFound("resource", name))
		return
	}
	h.OK(c, def)
}
