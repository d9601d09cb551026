// @title           Domain Lookup API
// @version         1.0
// @description     Domain availability and registration lookups over WHOIS or external WHOIS APIs, with per-session search history.

// @contact.name   API Support
// @contact.email  info@bentech.app

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3001
// @BasePath  /api
// @schemes   http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/vit0-9/domain_lookup/docs"
	"github.com/vit0-9/domain_lookup/handlers"
	"github.com/vit0-9/domain_lookup/pkg/config"
	"github.com/vit0-9/domain_lookup/pkg/metrics"
	"github.com/vit0-9/domain_lookup/pkg/storage"
	"github.com/vit0-9/domain_lookup/pkg/utils/domain"
)

// App encapsulates all the components of the application
type App struct {
	Router          *gin.Engine
	Config          *config.Config
	Log             *zap.Logger
	Metrics         *metrics.Collector
	History         *storage.HistoryStore
	Lookups         *domain.Service
	DomainHandlers  *handlers.DomainHandlers
	HistoryHandlers *handlers.HistoryHandlers
	HealthHandler   *handlers.HealthHandler
	RateLimiter     *handlers.RateLimiter

	server *http.Server
}

// NewApp wires the WHOIS client, cache, external APIs and history store from cfg.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	return newApp(cfg, log, domain.NewWhoisClient(cfg.WhoisTimeout))
}

func newApp(cfg *config.Config, log *zap.Logger, querier domain.WhoisQuerier) (*App, error) {
	history, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	m := metrics.New()
	resolver := domain.NewResolver(querier, log.Named("whois"), m)
	lookups := domain.NewService(domain.NewCache(cfg.CacheTTL), resolver, log.Named("lookup"), m)
	external := domain.NewExternalClient(domain.ExternalConfig{
		WhoisFreaksKey: cfg.WhoisFreaksKey,
		WhoAPIKey:      cfg.WhoAPIKey,
		WhoisFreaksURL: cfg.WhoisFreaksURL,
		WhoAPIURL:      cfg.WhoAPIURL,
	}, log.Named("external"), m)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	// no reverse proxy is assumed; ClientIP keys the rate limiter
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Warn("could not set trusted proxies", zap.Error(err))
	}

	app := &App{
		Router:          router,
		Config:          cfg,
		Log:             log,
		Metrics:         m,
		History:         history,
		Lookups:         lookups,
		DomainHandlers:  handlers.NewDomainHandlers(lookups, external, history, log.Named("http")),
		HistoryHandlers: handlers.NewHistoryHandlers(history, log.Named("http")),
		HealthHandler:   handlers.NewHealthHandler(history, lookups.CacheSize),
		RateLimiter:     handlers.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax),
	}
	app.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	app.setupRoutes()
	return app, nil
}

// allowedOrigins is the configured frontend plus the usual local dev servers.
func (app *App) allowedOrigins() []string {
	return []string{app.Config.FrontendURL, "http://localhost:3000", "http://127.0.0.1:5173"}
}

// setupRoutes defines all the application routes
func (app *App) setupRoutes() {
	app.Router.Use(
		handlers.ErrorHandler(app.Log, app.Config.IsProduction()),
		handlers.RequestLogger(app.Log.Named("http")),
		handlers.CORSMiddleware(app.allowedOrigins()),
	)

	api := app.Router.Group("/api", app.RateLimiter.Middleware(), handlers.SessionMiddleware())
	{
		api.GET("/health", app.HealthHandler.HealthCheckHandler)
		api.GET("/domain/search", handlers.ValidateDomain(), app.DomainHandlers.SearchHandler)

		history := api.Group("/history")
		history.GET("", app.HistoryHandlers.ListHandler)
		history.DELETE("", app.HistoryHandlers.ClearHandler)
		history.GET("/stats", app.HistoryHandlers.StatsHandler)
		history.DELETE("/:id", app.HistoryHandlers.DeleteHandler)
	}

	app.Router.GET("/metrics", gin.WrapH(app.Metrics.Handler()))
	app.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
}

// Start runs the HTTP server until Shutdown is called.
func (app *App) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	app.Log.Info("API server starting", zap.String("addr", addr), zap.String("frontend_url", app.Config.FrontendURL))
	if err := app.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the history store.
func (app *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := app.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := app.History.Close(); err != nil {
		errs = append(errs, fmt.Errorf("history store close: %w", err))
	}
	return errors.Join(errs...)
}
