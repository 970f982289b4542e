// Package api serves the journal over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/fxjournal/internal/logger"
	"github.com/rustyeddy/fxjournal/journal"
	"github.com/rustyeddy/fxjournal/sheet"
)

type Server struct {
	store  *journal.Store
	log    *slog.Logger
	router *gin.Engine
}

// NewServer wires the routes. mode is a gin mode ("debug", "release",
// "test"); empty keeps gin's current mode.
func NewServer(store *journal.Store, log *slog.Logger, mode string) *Server {
	if log == nil {
		log = logger.Discard()
	}
	if mode != "" {
		gin.SetMode(mode)
	}

	s := &Server{
		store:  store,
		log:    log,
		router: gin.New(),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.GET("/health", s.health)

	api := s.router.Group("/api")
	{
		api.GET("/trades", s.listTrades)
		api.POST("/trades", s.createTrade)
		api.GET("/trades/:id", s.getTrade)
		api.PUT("/trades/:id", s.updateTrade)
		api.DELETE("/trades/:id", s.deleteTrade)

		api.GET("/stats", s.stats)
		api.GET("/calendar/:month", s.calendar)

		api.GET("/export.csv", s.export(sheet.FormatCSV))
		api.GET("/export.xlsx", s.export(sheet.FormatXLSX))
		api.POST("/import", s.importSheet)

		api.GET("/health", s.health)
	}
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then drains for up to five
// seconds.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("api listening", "addr", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("api shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "trades": s.store.Len()})
}
