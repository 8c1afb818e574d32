package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trading-journal/internal/analytics"
	"trading-journal/internal/config"
	"trading-journal/internal/ledger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server exposes the journal over HTTP.
type Server struct {
	server    *http.Server
	router    *gin.Engine
	engine    *analytics.Engine
	ledger    *ledger.Ledger
	cfg       *config.Config
	logger    *zap.Logger
	loc       *time.Location
	version   string
	startTime time.Time
	now       func() time.Time
}

// NewServer creates a new Server and registers its routes.
func NewServer(cfg *config.Config, engine *analytics.Engine, l *ledger.Ledger, logger *zap.Logger, version string) (*Server, error) {
	loc, err := cfg.Analytics.Location()
	if err != nil {
		return nil, fmt.Errorf("analytics timezone: %w", err)
	}

	s := &Server{
		engine:    engine,
		ledger:    l,
		cfg:       cfg,
		logger:    logger.Named("api-server"),
		loc:       loc,
		version:   version,
		startTime: time.Now(),
		now:       time.Now,
	}
	s.router = s.routes()
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.logger), corsMiddleware(s.cfg.Server.AllowedOrigins))

	api := r.Group("/api")
	api.GET("/health", s.health)
	api.GET("/status", s.status)

	a := api.Group("/analytics")
	a.GET("/monthly-performance", s.monthlyPerformance)
	a.GET("/capital-growth", s.capitalGrowth)
	a.GET("/top-symbols", s.topSymbols)
	a.GET("/dashboard", s.dashboard)

	t := api.Group("/trades")
	t.GET("", s.listTrades)
	t.POST("", s.createTrade)
	t.GET("/export", s.exportTrades)
	t.POST("/import", s.importTrades)
	t.GET("/:id", s.getTrade)
	t.DELETE("/:id", s.deleteTrade)
	t.POST("/:id/close", s.closeTrade)

	api.GET("/members", s.listMembers)
	api.POST("/members", s.createMember)
	api.GET("/instrument-types", s.listInstrumentTypes)
	api.GET("/database/export", s.exportDatabase)
	api.POST("/database/import", s.importDatabase)

	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) status(c *gin.Context) {
	stats, err := s.ledger.Stats(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{
		Version:   s.version,
		StartTime: s.startTime.Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Journal:   stats,
	})
}
