package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"folio/internal/core/apperror"
	"folio/internal/domain/homepage"
	"folio/internal/infrastructure/http/v1/dto"
)

// Response headers of the homepage endpoint.
const (
	HeaderCache = "X-Cache"

	CacheHit  = "HIT"
	CacheMiss = "MISS"
)

// HomepageHandler serves the landing page aggregate.
type HomepageHandler struct {
	*BaseHandler
	composer *homepage.Composer
	maxAge   time.Duration
}

// NewHomepageHandler creates a homepage handler. maxAge is advertised to
// downstream caches.
func NewHomepageHandler(base *BaseHandler, composer *homepage.Composer, maxAge time.Duration) *HomepageHandler {
	return &HomepageHandler{
		BaseHandler: base,
		composer:    composer,
		maxAge:      maxAge,
	}
}

// Get handles GET /homepage
func (h *HomepageHandler) Get(c *gin.Context) {
	res, err := h.composer.Get(c.Request.Context())
	if err != nil {
		if !apperror.IsAppError(err) {
			err = apperror.NewStoreFailure("homepage", err)
		}
		h.Error(c, err)
		return
	}

	status := CacheMiss
	if res.Cached {
		status = CacheHit
	}
	c.Header(HeaderCache, status)
	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.maxAge.Seconds())))
	c.Header("ETag", res.Snapshot.ETag)

	if match := c.GetHeader("If-None-Match"); match != "" && match == res.Snapshot.ETag {
		c.Status(http.StatusNotModified)
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{
		Success: true,
		Data:    res.Snapshot.Data,
		Meta:    res.Snapshot.Meta,
	})
}

// Invalidate handles POST /admin/cache/invalidate
func (h *HomepageHandler) Invalidate(c *gin.Context) {
	n := h.composer.Invalidate(c.Request.Context())
	h.OK(c, gin.H{"invalidated": n})
}
