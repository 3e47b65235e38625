package handler

import (
	"net/http"

	"grooming-waitlist/internal/domain/staff"
	"grooming-waitlist/internal/handler/api"
	"grooming-waitlist/internal/handler/middleware"
	"grooming-waitlist/internal/pkg/config"
	"grooming-waitlist/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Engine          *gin.Engine
	Config          config.Config
	Logger          *middleware.Logger
	Gatherer        prometheus.Gatherer
	Metrics         *metrics.Metrics
	AuthMiddleware  *middleware.AuthMiddleware
	AuthHandler     *api.AuthHandler
	WaitlistHandler *api.WaitlistHandler
	OfferHandler    *api.OfferHandler
	WebhookHandler  *api.WebhookHandler
}

func NewRouter(p RouterParams) {
	setupMiddleware(p.Engine, p.Config, p.Logger, p.Metrics)
	setupRoutes(p)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, m *metrics.Metrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.Recovery(logger.GetSlogLogger()))
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.RequestMetrics(m))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(p RouterParams) {
	engine := p.Engine
	authMw := p.AuthMiddleware

	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{})))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: p.AuthHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMw.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodPost, Path: "/logout", Handler: p.AuthHandler.Logout},
				{Method: http.MethodGet, Path: "/me", Handler: p.AuthHandler.Me},
			})
		}

		// provider callback; authenticated at the edge, not with staff tokens
		addRoutes(apiGroup.Group("/webhooks"), []route{
			{Method: http.MethodPost, Path: "/sms", Handler: p.WebhookHandler.InboundSMS},
		})

		waitlist := apiGroup.Group("/waitlist")
		waitlist.Use(authMw.RequireAuth(), authMw.RequireRoleAtLeast(staff.RoleReceptionist))
		{
			addRoutes(waitlist, []route{
				{Method: http.MethodPost, Path: "", Handler: p.WaitlistHandler.Create},
				{Method: http.MethodGet, Path: "", Handler: p.WaitlistHandler.List},
				{Method: http.MethodGet, Path: "/candidates", Handler: p.WaitlistHandler.Candidates},
				{Method: http.MethodGet, Path: "/:id", Handler: p.WaitlistHandler.Get},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: p.WaitlistHandler.Cancel},
				{Method: http.MethodPost, Path: "/:id/unfillable", Handler: p.WaitlistHandler.MarkUnfillable},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(authMw.RequireAuth(), authMw.RequireRoleAtLeast(staff.RoleReceptionist))
		{
			managerOnly := []gin.HandlerFunc{authMw.RequireRoleAtLeast(staff.RoleManager)}

			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/slots/open", Handler: p.OfferHandler.OpenSlot},
				{Method: http.MethodPost, Path: "/offers", Handler: p.OfferHandler.CreateOffer},
				{Method: http.MethodPost, Path: "/offers/sweep", Handler: p.OfferHandler.Sweep, Mw: managerOnly},
				{Method: http.MethodGet, Path: "/offers/:id", Handler: p.OfferHandler.Get},
				{Method: http.MethodPost, Path: "/offers/:id/book", Handler: p.OfferHandler.Book},
				{Method: http.MethodPost, Path: "/appointments/:id/cancel", Handler: p.OfferHandler.CancelAppointment},
				{Method: http.MethodGet, Path: "/waitlist/export", Handler: p.WaitlistHandler.Export, Mw: managerOnly},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
