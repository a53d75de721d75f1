package v1

import (
	"github.com/gin-gonic/gin"
)

// ContentRouteHandler defines the interface for content handlers.
type ContentRouteHandler interface {
	List(c *gin.Context)
	AdminList(c *gin.Context)
	AdminGet(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Restore(c *gin.Context)
	ToggleFeatured(c *gin.Context)
	TogglePublished(c *gin.Context)
	Increment(c *gin.Context)
	Reorder(c *gin.Context)
}

// ContentGroups are the router groups one resource is mounted on. Public
// and Admin share a path; Admin carries the auth middleware.
type ContentGroups struct {
	Public    *gin.RouterGroup
	Admin     *gin.RouterGroup
	AdminList *gin.RouterGroup
}

// RegisterContentRoutes registers the standard routes of a content resource.
//
// Usage:
//
//	svc := newService(r, skill.Resource, skill.New)
//	handler := handlers.NewContentHandler(base, svc)
//	RegisterContentRoutes(ContentGroups{...}, handler)
func RegisterContentRoutes(groups ContentGroups, handler ContentRouteHandler) {
	groups.Public.GET("", handler.List)
	groups.Public.GET("/:id", handler.Get)
	groups.Public.POST("/:id/increment/:field", handler.Increment)

	groups.Admin.POST("", handler.Create)
	groups.Admin.PUT("/reorder", handler.Reorder)
	groups.Admin.PUT("/:id", handler.Update)
	groups.Admin.DELETE("/:id", handler.Delete)
	groups.Admin.POST("/:id/restore", handler.Restore)
	groups.Admin.PATCH("/:id/featured", handler.ToggleFeatured)
	groups.Admin.PATCH("/:id/published", handler.TogglePublished)

	groups.AdminList.GET("", handler.AdminList)
	groups.AdminList.GET("/:id", handler.AdminGet)
}
