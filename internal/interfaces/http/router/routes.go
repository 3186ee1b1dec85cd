package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keystone/backend/internal/infrastructure/config"
	"github.com/keystone/backend/internal/infrastructure/logger"
	"github.com/keystone/backend/internal/infrastructure/telemetry"
	"github.com/keystone/backend/internal/interfaces/http/dto"
	"github.com/keystone/backend/internal/interfaces/http/handler"
	"github.com/keystone/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by New
type Handlers struct {
	System        *handler.SystemHandler
	Portfolio     *handler.PortfolioHandler
	Invitation    *handler.InvitationHandler
	Property      *handler.PropertyHandler
	Document      *handler.DocumentHandler
	Communication *handler.CommunicationHandler
	Decision      *handler.DecisionHandler
	Registry      *handler.RegistryHandler
	Wealth        *handler.WealthHandler
	Learning      *handler.LearningHandler
	Forge         *handler.ForgeHandler
}

// Dependencies are the collaborators the HTTP surface needs
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Handlers Handlers

	Verifier    middleware.TokenVerifier
	Revocations middleware.RevocationChecker
	Access      middleware.AccessResolver
	Runners     middleware.RunnerAuthenticator

	// RateLimiter is nil when rate limiting is disabled
	RateLimiter   *middleware.RateLimiter
	InviteLimiter *middleware.RateLimiter

	MeterProvider *telemetry.MeterProvider
	Prometheus    *middleware.PrometheusMetrics
}

// New builds the gin engine with the customer API, the forge admin API,
// the runner API and the ops endpoints
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: request id and recovery first, then observability,
	// then the edge policies.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(deps.MeterProvider, log))
	if deps.Prometheus != nil {
		engine.Use(deps.Prometheus.Middleware())
	}
	engine.Use(middleware.Profiling(cfg.Telemetry.ProfilingEnabled))
	engine.Use(middleware.SecureWithConfig(securityConfig(cfg)))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if deps.RateLimiter != nil {
		engine.Use(middleware.RateLimit(deps.RateLimiter))
	}

	registerOps(engine, deps)
	registerCustomerAPI(engine, deps, log)
	registerForgeAPI(engine, deps, log)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeRouteNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeMethodNotFound, "Method not allowed", middleware.GetRequestID(c)))
	})

	return engine
}

func securityConfig(cfg *config.Config) middleware.SecurityConfig {
	sc := middleware.DefaultSecurityConfig()
	sc.HSTSEnabled = cfg.IsProduction()
	return sc
}

func registerOps(engine *gin.Engine, deps Dependencies) {
	h := deps.Handlers.System
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
	if deps.Prometheus != nil {
		engine.GET("/metrics", gin.WrapH(deps.Prometheus.Handler()))
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    deps.Config.Swagger.Enabled,
			AllowedIPs: deps.Config.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)
}

func registerCustomerAPI(engine *gin.Engine, deps Dependencies, log *zap.Logger) {
	cfg := deps.Config
	h := deps.Handlers

	session := middleware.SessionAuth(middleware.SessionConfig{
		Verifier:    deps.Verifier,
		Revocations: deps.Revocations,
		CookieName:  cfg.Auth.CookieName,
		Logger:      log,
	})
	scoped := middleware.PortfolioAccess(deps.Access, log)
	byParam := middleware.PortfolioAccessFromParam(deps.Access, "id", log)
	writer := middleware.RequireWriter()
	owner := middleware.RequireOwner()
	jsonLimit := middleware.BodyLimit(cfg.HTTP.MaxBodySize)

	// Upload routes get their own limit, so the JSON limit is applied per group
	// instead of on the router.
	r := NewRouter(engine, WithAPIVersion("v1"))

	public := NewDomainGroup("public", "")
	public.GET("/health", h.System.Health)
	validate := []gin.HandlerFunc{}
	if deps.InviteLimiter != nil {
		validate = append(validate, middleware.RateLimit(deps.InviteLimiter))
	}
	public.GET("/invitations/validate", append(validate, h.Invitation.Validate)...)

	account := NewDomainGroup("session", "").Use(session, jsonLimit)
	account.GET("/me", h.System.Me)
	account.POST("/session/revoke", h.System.RevokeSession)
	account.GET("/portfolios", h.Portfolio.List)
	account.POST("/portfolios", h.Portfolio.Create)
	account.POST("/invitations/accept", h.Invitation.Accept)

	portfolios := NewDomainGroup("portfolio", "/portfolios/:id").Use(session, jsonLimit, byParam)
	portfolios.GET("", h.Portfolio.Get)
	portfolios.PUT("", writer, h.Portfolio.Update)
	portfolios.DELETE("", owner, h.Portfolio.Delete)
	portfolios.GET("/members", h.Portfolio.ListMembers)
	portfolios.PATCH("/members/:userId", owner, h.Portfolio.ChangeMemberRole)
	portfolios.DELETE("/members/:userId", h.Portfolio.RemoveMember)

	invitations := NewDomainGroup("invitation", "/invitations").Use(session, jsonLimit, scoped)
	invitations.POST("", owner, h.Invitation.Create)
	invitations.GET("", h.Invitation.List)
	invitations.DELETE("/:id", owner, h.Invitation.Revoke)

	properties := NewDomainGroup("property", "/properties").Use(session, jsonLimit, scoped)
	properties.POST("", writer, h.Property.Create)
	properties.GET("", h.Property.List)
	properties.GET("/:id", h.Property.GetByID)
	properties.PUT("/:id", writer, h.Property.Update)
	properties.DELETE("/:id", writer, h.Property.Delete)
	properties.GET("/:id/financials", h.Property.GetFinancials)
	properties.PUT("/:id/financials", writer, h.Property.UpdateFinancials)

	documents := NewDomainGroup("document", "/documents").Use(session, scoped)
	documents.POST("", middleware.BodyLimit(cfg.Document.MaxUploadSize), writer, h.Document.Upload)
	documents.GET("", h.Document.List)
	documents.GET("/:id", h.Document.GetByID)
	documents.GET("/:id/download", h.Document.Download)
	documents.POST("/:id/process", jsonLimit, writer, h.Document.Process)
	documents.DELETE("/:id", writer, h.Document.Delete)

	communications := NewDomainGroup("communication", "/communications").Use(session, jsonLimit, scoped)
	communications.POST("", writer, h.Communication.Create)
	communications.GET("", h.Communication.List)
	communications.GET("/:id", h.Communication.GetByID)
	communications.PUT("/:id", writer, h.Communication.Update)
	communications.DELETE("/:id", writer, h.Communication.Delete)

	decisions := NewDomainGroup("decision", "/decisions").Use(session, jsonLimit, scoped)
	decisions.POST("", writer, h.Decision.Create)
	decisions.GET("", h.Decision.List)
	decisions.GET("/:id", h.Decision.GetByID)
	decisions.PUT("/:id", writer, h.Decision.Update)
	decisions.DELETE("/:id", writer, h.Decision.Delete)
	decisions.POST("/:id/decide", writer, h.Decision.Decide)
	decisions.POST("/:id/reject", writer, h.Decision.Reject)
	decisions.POST("/:id/supersede", writer, h.Decision.Supersede)

	registry := NewDomainGroup("registry", "/registry").Use(session, jsonLimit, scoped)
	registry.POST("", writer, h.Registry.Create)
	registry.GET("", h.Registry.List)
	registry.GET("/:id", h.Registry.GetByID)
	registry.PUT("/:id", writer, h.Registry.Update)
	registry.DELETE("/:id", writer, h.Registry.Delete)

	wealth := NewDomainGroup("wealth", "/wealth").Use(session, scoped)
	wealth.GET("/journey", h.Wealth.GetJourney)

	learning := NewDomainGroup("learning", "/learning").Use(session, jsonLimit)
	learning.GET("/glossary", h.Learning.ListTerms)
	learning.GET("/glossary/categories", h.Learning.Categories)
	learning.GET("/glossary/:slug", h.Learning.GetTerm)
	learning.GET("/progress", h.Learning.GetProgress)
	learning.PUT("/progress/:slug", h.Learning.MarkRead)
	learning.DELETE("/progress", h.Learning.ResetProgress)

	r.Register(public, account, portfolios, invitations, properties, documents,
		communications, decisions, registry, wealth, learning).Setup()
}

func registerForgeAPI(engine *gin.Engine, deps Dependencies, log *zap.Logger) {
	cfg := deps.Config
	h := deps.Handlers.Forge
	jsonLimit := middleware.BodyLimit(cfg.HTTP.MaxBodySize)

	admin := NewRouter(engine, WithBasePath("/forge/v1")).Use(
		middleware.SessionAuth(middleware.SessionConfig{
			Verifier:    deps.Verifier,
			Revocations: deps.Revocations,
			CookieName:  cfg.Auth.CookieName,
			Logger:      log,
		}),
		middleware.RequireSessionRole(cfg.Auth.ForgeAdminRole),
		jsonLimit,
	)

	tickets := NewDomainGroup("tickets", "/tickets")
	tickets.POST("", h.CreateTicket)
	tickets.GET("", h.ListTickets)
	tickets.GET("/board", h.Board)
	tickets.GET("/:id", h.GetTicket)
	tickets.PUT("/:id", h.UpdateTicket)
	tickets.DELETE("/:id", h.DeleteTicket)
	tickets.POST("/:id/move", h.MoveTicket)
	tickets.POST("/:id/executions", h.StartExecution)

	executions := NewDomainGroup("executions", "/executions")
	executions.GET("", h.ListExecutions)
	executions.GET("/:id", h.GetExecution)
	executions.POST("/:id/complete", h.CompleteExecution)
	executions.POST("/:id/cancel", h.CancelExecution)

	budgets := NewDomainGroup("budgets", "/budgets")
	budgets.GET("", h.ListBudgets)
	budgets.POST("", h.CreateBudget)
	budgets.GET("/current", h.CurrentBudget)
	budgets.PUT("/:id", h.UpdateBudget)

	keys := NewDomainGroup("runner-keys", "/runner-keys")
	keys.GET("", h.ListRunnerKeys)
	keys.POST("", h.CreateRunnerKey)
	keys.DELETE("/:id", h.RevokeRunnerKey)

	admin.Register(tickets, executions, budgets, keys).Setup()

	runner := NewRouter(engine, WithBasePath("/forge/runner/v1")).Use(
		middleware.RunnerKeyAuth(deps.Runners, log),
		jsonLimit,
	)
	runnerExecutions := NewDomainGroup("executions", "/executions")
	runnerExecutions.POST("/:id/complete", h.CompleteExecution)
	runner.Register(runnerExecutions).Setup()
}
