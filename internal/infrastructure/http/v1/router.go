// Package v1 provides HTTP API version 1.
package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"folio/internal/core/entity"
	"folio/internal/core/tx"
	"folio/internal/domain"
	"folio/internal/domain/auth"
	"folio/internal/domain/catalogs/about"
	"folio/internal/domain/catalogs/award"
	"folio/internal/domain/catalogs/brand"
	"folio/internal/domain/catalogs/experience"
	"folio/internal/domain/catalogs/leadership"
	"folio/internal/domain/catalogs/resume"
	"folio/internal/domain/catalogs/skill"
	"folio/internal/domain/catalogs/testimonial"
	"folio/internal/domain/catalogs/work"
	"folio/internal/domain/contact"
	"folio/internal/domain/filter"
	"folio/internal/domain/homepage"
	"folio/internal/infrastructure/cache"
	"folio/internal/infrastructure/http/v1/handlers"
	"folio/internal/infrastructure/http/v1/middleware"
	"folio/internal/infrastructure/metrics"
	"folio/internal/infrastructure/storage/memory"
	"folio/internal/infrastructure/storage/postgres"
	"folio/internal/infrastructure/storage/postgres/contact_repo"
	"folio/internal/infrastructure/storage/postgres/content_repo"
	"folio/internal/metadata"
	"folio/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database pool. Nil runs every resource on the in-memory
	// store.
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// AuthService handles login. Nil disables the admin API.
	AuthService *auth.Service

	// TokenValidator guards admin routes.
	TokenValidator middleware.TokenValidator

	// Cache backs the homepage aggregate. Defaults to a fresh in-memory cache.
	Cache homepage.Cache

	// HomepageTTL is how long an aggregate stays cached.
	HomepageTTL time.Duration

	// CacheMaxAge is advertised in Cache-Control on the homepage.
	CacheMaxAge time.Duration

	CORSOrigins []string

	// DevMode exposes error causes in responses.
	DevMode bool

	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewMemory()
	}
	if cfg.HomepageTTL <= 0 {
		cfg.HomepageTTL = cache.TTLMedium
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger.WithComponent("http")))
	router.Use(metrics.GinMiddleware())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.ErrorHandler(cfg.DevMode))

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	adminGuard := adminMiddleware(cfg)

	r := &routes{
		cfg:      cfg,
		base:     handlers.NewBaseHandler(),
		public:   api,
		admin:    api.Group("/admin", adminGuard),
		guard:    adminGuard,
		registry: metadata.NewRegistry(),
		composer: homepage.New(cfg.Cache, cfg.HomepageTTL),
	}
	if cfg.Pool != nil {
		r.txm = postgres.NewTxManager(cfg.Pool)
	}

	registerAuthRoutes(r)
	registerContentRoutes(r)
	registerHomepageRoutes(r)
	registerContactRoutes(r)
	registerMetaRoutes(r)

	return router
}

// adminMiddleware returns the guard for write routes.
func adminMiddleware(cfg RouterConfig) gin.HandlerFunc {
	if cfg.TokenValidator == nil {
		return middleware.Deny()
	}
	return middleware.Auth(cfg.TokenValidator)
}

// routes carries what route registration shares.
type routes struct {
	cfg  RouterConfig
	base *handlers.BaseHandler
	txm  *postgres.TxManager

	public *gin.RouterGroup
	admin  *gin.RouterGroup
	guard  gin.HandlerFunc

	registry *metadata.Registry
	composer *homepage.Composer
}

// repoFor returns the store for a resource: postgres when a pool is
// configured, a private in-memory store otherwise.
func repoFor[T entity.Content](r *routes, resource domain.Resource, newFn func() T) (domain.ContentRepository[T], tx.Manager) {
	if r.txm != nil {
		return content_repo.New(r.txm, resource, newFn), r.txm
	}
	store := memory.New[T](resource.Name)
	return store, store
}

func newService[T entity.Content](r *routes, resource domain.Resource, newFn func() T) *domain.ContentService[T] {
	repo, txm := repoFor(r, resource, newFn)
	return domain.NewContentService(domain.ContentServiceConfig[T]{
		Repo:      repo,
		TxManager: txm,
		Resource:  resource,
		New:       newFn,
	})
}

// mount registers a resource's routes, its metadata and its change
// listeners. Resources feeding the homepage invalidate it on every change.
func mount[T entity.Content](r *routes, svc *domain.ContentService[T], feedsHomepage bool) {
	resource := svc.Resource()

	svc.OnChange(recordChange)
	if feedsHomepage {
		svc.OnChange(r.composer.InvalidateOnChange)
	}

	r.registry.Register(metadata.Inspect[T](resource))

	handler := handlers.NewContentHandler(r.base, svc)
	RegisterContentRoutes(ContentGroups{
		Public:    r.public.Group("/" + resource.Name),
		Admin:     r.public.Group("/"+resource.Name, r.guard),
		AdminList: r.admin.Group("/" + resource.Name),
	}, handler)
}

func recordChange(_ context.Context, change domain.Change) {
	metrics.ContentChanged(change.Resource, string(change.Action))
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(r *routes) {
	if r.cfg.AuthService == nil {
		return
	}

	authHandler := handlers.NewAuthHandler(r.base, r.cfg.AuthService)
	r.public.POST("/auth/login", authHandler.Login)
}

// registerContentRoutes registers every content resource and the homepage
// sections built from them.
func registerContentRoutes(r *routes) {
	abouts := newService(r, about.Resource, about.New)
	mount(r, abouts, true)

	repo, txm := repoFor(r, work.Resource, work.New)
	works := work.NewService(repo, txm)
	mount(r, works.ContentService, true)

	skills := newService(r, skill.Resource, skill.New)
	mount(r, skills, true)

	experiences := newService(r, experience.Resource, experience.New)
	mount(r, experiences, true)

	awards := newService(r, award.Resource, award.New)
	mount(r, awards, true)

	brands := newService(r, brand.Resource, brand.New)
	mount(r, brands, true)

	mount(r, newService(r, leadership.Resource, leadership.New), false)
	mount(r, newService(r, testimonial.Resource, testimonial.New), false)
	mount(r, newService(r, resume.Resource, resume.New), false)

	r.composer.
		Add("abouts", homepage.Published[*about.About](abouts, homepage.Query{
			Limit: 1, SortBy: "displayOrder", SortOrder: filter.Asc,
		})).
		Add("works", homepage.Published[*work.Work](works, homepage.Query{
			Limit: 6, SortBy: "displayOrder", SortOrder: filter.Asc, FeaturedFirst: true,
		})).
		Add("skills", homepage.Published[*skill.Skill](skills, homepage.Query{
			Limit: 24, SortBy: "level", SortOrder: filter.Desc, FeaturedFirst: true,
		})).
		Add("experiences", homepage.Published[*experience.Experience](experiences, homepage.Query{
			Limit: 5, SortBy: "startDate", SortOrder: filter.Desc,
		})).
		Add("awards", homepage.Published[*award.Award](awards, homepage.Query{
			Limit: 6, SortBy: "year", SortOrder: filter.Desc, FeaturedFirst: true,
		})).
		Add("brands", homepage.Published[*brand.Brand](brands, homepage.Query{
			Limit: 12, SortBy: "displayOrder", SortOrder: filter.Asc,
		}))
}

// registerHomepageRoutes registers the aggregate and its invalidation.
func registerHomepageRoutes(r *routes) {
	h := handlers.NewHomepageHandler(r.base, r.composer, r.cfg.CacheMaxAge)
	r.public.GET("/homepage", h.Get)
	r.admin.POST("/cache/invalidate", h.Invalidate)
}

// registerContactRoutes registers the contact form and the admin inbox.
func registerContactRoutes(r *routes) {
	var repo contact.Repository
	if r.txm != nil {
		repo = contact_repo.New(r.txm)
	} else {
		repo = memory.NewContactStore()
	}

	h := handlers.NewContactHandler(r.base, contact.NewService(repo))
	r.public.POST("/contact", h.Submit)

	inbox := r.admin.Group("/contact")
	{
		inbox.GET("", h.List)
		inbox.PATCH("/:id/read", h.MarkRead)
		inbox.DELETE("/:id", h.Delete)
	}
}

// registerMetaRoutes registers metadata/schema endpoints.
func registerMetaRoutes(r *routes) {
	h := handlers.NewMetadataHandler(r.base, r.registry)
	meta := r.public.Group("/meta")
	{
		meta.GET("", h.ListResources)
		meta.GET("/:name", h.GetResource)
	}
}
