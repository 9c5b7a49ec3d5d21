package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oggyb/ember/internal/config"
	"github.com/oggyb/ember/internal/logger"
	"github.com/oggyb/ember/internal/observability"
)

// NewRouter builds the gin engine: metrics + health endpoints, a public /v1
// group and an authenticated /v1 group behind the identity middleware, with
// all provided registrars attached.
func NewRouter(cfg *config.Config, identity gin.HandlerFunc, registrars ...Registrar) *gin.Engine {
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", observability.MetricsHandler())

	public := router.Group("/v1")
	private := router.Group("/v1")
	private.Use(identity)

	for _, r := range registrars {
		r.Register(public, private)
	}

	return router
}

const shutdownTimeout = 10 * time.Second

// StartHTTPServer boots the HTTP server on the configured address and blocks
// until it fails or a SIGINT/SIGTERM arrives; in-flight requests are drained
// before returning.
func StartHTTPServer(cfg *config.Config, router *gin.Engine) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
