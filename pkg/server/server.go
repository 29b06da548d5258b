// Package server exposes the engine over a small JSON HTTP API.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/arthur-debert/modlink/pkg/config"
	"github.com/arthur-debert/modlink/pkg/engine"
	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/logging"
	"github.com/arthur-debert/modlink/pkg/notify"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 5 * time.Second

// ConfigStore persists path changes made through the API
type ConfigStore interface {
	Load() (*config.Config, error)
	SetPaths(modsPath, saveModsPath string) (*config.Config, error)
}

// Options configures a Server
type Options struct {
	Engine *engine.Manager
	// Store is optional; without it config changes only affect the engine
	Store ConfigStore
	// Notifier is optional; nil disables reload signals
	Notifier notify.Notifier
	// Reload sends a reload signal after every successful change
	Reload  bool
	Version string
}

// Server serves the mod API
type Server struct {
	engine   *engine.Manager
	store    ConfigStore
	notifier notify.Notifier
	reload   bool
	version  string
	logger   zerolog.Logger
	router   *gin.Engine
}

// NewServer creates a Server. An engine is required.
func NewServer(opts *Options) (*Server, error) {
	if opts == nil || opts.Engine == nil {
		return nil, errors.New(errors.ErrInvalidInput, "server requires an engine")
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}

	s := &Server{
		engine:   opts.Engine,
		store:    opts.Store,
		notifier: notifier,
		reload:   opts.Reload,
		version:  opts.Version,
		logger:   logging.GetLogger("server"),
	}
	s.router = s.setupRouter()
	return s, nil
}

// Handler returns the HTTP handler for the API
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/", s.rootHandler())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/mods", s.listModsHandler())
		api.GET("/mods/active", s.activeModsHandler())
		api.GET("/mods/:id", s.modInfoHandler())
		api.POST("/mods/toggle", s.toggleModHandler())
		api.POST("/mods/activate", s.activateSetHandler())
		api.POST("/mods/clear-all", s.clearAllHandler())
		api.POST("/mods/:id/activate", s.activateModHandler())
		api.POST("/mods/:id/deactivate", s.deactivateModHandler())

		api.GET("/config", s.getConfigHandler())
		api.POST("/config", s.updateConfigHandler())

		api.POST("/reload", s.reloadHandler())
	}

	return r
}

// requestLogger logs each request through zerolog
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("API server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, errors.ErrInternal, "API server failed on %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info().Msg("Shutting down API server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "API server shutdown failed")
	}
	return nil
}

// notifyChange sends a reload signal after a mutation when enabled.
// Failures are logged only; the mutation already happened.
func (s *Server) notifyChange() {
	if !s.reload {
		return
	}
	_, active := s.engine.Paths()
	if err := s.notifier.Notify(active); err != nil {
		s.logger.Warn().Err(err).Msg("Reload signal failed")
	}
}

// statusFor maps an error code to the HTTP status reported to clients
func statusFor(code errors.ErrorCode) int {
	switch errors.CategoryOf(code) {
	case errors.CategoryConfiguration, errors.CategoryInvalidInput:
		return http.StatusBadRequest
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryPermission:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	code := errors.GetErrorCode(err)
	c.JSON(statusFor(code), gin.H{
		"success": false,
		"code":    code,
		"error":   errors.Message(err),
	})
}
