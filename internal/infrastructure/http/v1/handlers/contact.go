package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"folio/internal/core/apperror"
	"folio/internal/domain"
	"folio/internal/domain/contact"
	"folio/internal/infrastructure/http/v1/dto"
)

// ContactHandler handles the contact form and its admin inbox.
type ContactHandler struct {
	*BaseHandler
	service *contact.Service
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(base *BaseHandler, service *contact.Service) *ContactHandler {
	return &ContactHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Submit handles POST /contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if !h.BindJSON(c, &req) {
		return
	}

	msg := req.ToMessage()
	if err := h.service.Submit(c.Request.Context(), msg); err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.Envelope{
		Success: true,
		Message: "message received",
		Data:    gin.H{"id": msg.ID},
	})
}

// List handles GET /admin/contact
func (h *ContactHandler) List(c *gin.Context) {
	var f contact.ListFilter

	if raw := c.Query("unreadOnly"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("unreadOnly must be a boolean").WithDetail("field", "unreadOnly"))
			return
		}
		f.UnreadOnly = v
	}
	var ok bool
	if f.Limit, ok = h.queryInt(c, "limit"); !ok {
		return
	}
	if f.Offset, ok = h.queryInt(c, "skip"); !ok {
		return
	}

	items, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.List(domain.ListResult[*contact.Message]{
		Items:      items,
		TotalCount: total,
	}, nil))
}

func (h *ContactHandler) queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		h.Error(c, apperror.NewValidation(name+" must be a non-negative integer").WithDetail("field", name))
		return 0, false
	}
	return v, true
}

// MarkRead handles PATCH /admin/contact/:id/read
func (h *ContactHandler) MarkRead(c *gin.Context) {
	msgID, ok := h.ParseID(c)
	if !ok {
		return
	}

	msg, err := h.service.MarkRead(c.Request.Context(), msgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, msg)
}

// Delete handles DELETE /admin/contact/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	msgID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), msgID); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "deleted")
}
