package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/propdesk/backend/internal/domain/shared"
	"github.com/propdesk/backend/internal/infrastructure/config"
	"github.com/propdesk/backend/internal/infrastructure/logger"
	"github.com/propdesk/backend/internal/interfaces/http/handler"
	"github.com/propdesk/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers mounted by New
type Handlers struct {
	Onboarding  *handler.OnboardingHandler
	Search      *handler.SearchHandler
	Owner       *handler.OwnerHandler
	Building    *handler.BuildingHandler
	Unit        *handler.UnitHandler
	Marketplace *handler.MarketplaceHandler
	Tenant      *handler.TenantHandler
	Contract    *handler.ContractHandler
	Payable     *handler.PayableHandler
	Dashboard   *handler.DashboardHandler
	Health      *handler.HealthHandler
}

// Options configures the middleware stack of the engine
type Options struct {
	Logger  *zap.Logger
	HTTP    config.HTTPConfig
	Tracing middleware.TracingConfig

	// Profiling labels API requests for continuous profiling
	Profiling bool

	// Authenticate binds every API request to an office
	Authenticate gin.HandlerFunc

	// RateLimiter is applied per office when set
	RateLimiter *middleware.RateLimiter

	// Idempotency guards onboarding against replays when set
	Idempotency    shared.IdempotencyStore
	IdempotencyTTL time.Duration
}

// New builds the engine with the full middleware stack and every route.
//
// Global order: recovery, request id, request logger, security headers,
// CORS, body limit, tracing. API routes then authenticate, tag the span with
// the office, attach profiling labels and apply the per office rate limit.
func New(opts Options, h Handlers) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfigFromHTTP(opts.HTTP)))
	engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(opts.Tracing))

	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	if opts.Authenticate != nil {
		r.Use(opts.Authenticate)
	}
	r.Use(middleware.TracingAttributeInjector(), middleware.SpanErrorMarker())
	r.Use(middleware.Profiling(opts.Profiling))
	if opts.RateLimiter != nil {
		r.Use(middleware.RateLimit(opts.RateLimiter, middleware.RateLimitKey))
	}

	for _, g := range domainGroups(opts, h) {
		r.Register(g)
	}
	r.Setup()
	return engine
}

func domainGroups(opts Options, h Handlers) []*DomainGroup {
	onboarding := NewDomainGroup("onboarding", "/onboarding")
	if opts.Idempotency != nil {
		onboarding.Use(middleware.Idempotency(opts.Idempotency, opts.IdempotencyTTL))
	}
	onboarding.POST("", h.Onboarding.Onboard)

	search := NewDomainGroup("search", "/search")
	search.GET("", h.Search.Search)
	live := search.Group("live", "/live")
	live.POST("", h.Search.OpenLive)
	live.GET("/:session", h.Search.Stream)
	live.DELETE("/:session", h.Search.CloseLive)
	live.POST("/:session/query", h.Search.SubmitQuery)

	owners := NewDomainGroup("owners", "/owners")
	owners.GET("", h.Owner.List)
	owners.POST("", h.Owner.Create)
	owners.GET("/:id", h.Owner.GetByID)
	owners.PUT("/:id", h.Owner.Update)
	owners.DELETE("/:id", h.Owner.Delete)

	buildings := NewDomainGroup("buildings", "/buildings")
	buildings.GET("", h.Building.List)
	buildings.POST("", h.Building.Create)
	buildings.GET("/:id", h.Building.GetByID)
	buildings.PUT("/:id", h.Building.Update)
	buildings.DELETE("/:id", h.Building.Delete)

	units := NewDomainGroup("units", "/units")
	units.GET("", h.Unit.List)
	units.POST("", h.Unit.Create)
	units.GET("/:id", h.Unit.GetByID)
	units.PUT("/:id", h.Unit.Update)
	units.PATCH("/:id/status", h.Unit.SetStatus)
	units.PATCH("/:id/listing", h.Unit.UpdateListing)

	marketplace := NewDomainGroup("marketplace", "/marketplace")
	marketplace.GET("/listings", h.Marketplace.List)
	marketplace.GET("/listings/:id", h.Marketplace.GetByID)
	marketplace.GET("/cities", h.Marketplace.Cities)
	marketplace.GET("/price-ranges", h.Marketplace.PriceRange)

	tenants := NewDomainGroup("tenants", "/tenants")
	tenants.GET("", h.Tenant.List)
	tenants.GET("/:id", h.Tenant.GetByID)
	tenants.PUT("/:id", h.Tenant.UpdateContact)
	tenants.PATCH("/:id/status", h.Tenant.ChangeStatus)

	contracts := NewDomainGroup("contracts", "/contracts")
	contracts.GET("", h.Contract.List)
	contracts.GET("/:id", h.Contract.GetByID)
	contracts.PUT("/:id", h.Contract.Update)
	contracts.POST("/:id/terminate", h.Contract.Terminate)

	payables := NewDomainGroup("payables", "/payables")
	payables.GET("", h.Payable.List)
	payables.POST("", h.Payable.Create)
	payables.GET("/:id", h.Payable.GetByID)
	payables.PUT("/:id", h.Payable.Update)
	payables.POST("/:id/pay", h.Payable.MarkPaid)
	payables.POST("/:id/cancel", h.Payable.Cancel)

	dashboard := NewDomainGroup("dashboard", "/dashboard")
	dashboard.GET("", h.Dashboard.Stats)

	return []*DomainGroup{onboarding, search, owners, buildings, units, marketplace, tenants, contracts, payables, dashboard}
}
