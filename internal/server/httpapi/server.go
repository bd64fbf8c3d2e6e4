// Package httpapi exposes the account and claim services over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/claimcheck/internal/logging"
	"github.com/dmitrijs2005/claimcheck/internal/server/config"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewHTTPServer(cfg *config.Config, logger logging.Logger, us UserService, cs ClaimService) *HTTPServer {
	logger = logger.With("module", "http_server")
	return &HTTPServer{
		address: cfg.EndpointAddrHTTP,
		handler: NewRouter(cfg, logger, us, cs),
		logger:  logger,
	}
}

// NewRouter builds the gin engine with every route mounted under
// cfg.APIPrefix.
func NewRouter(cfg *config.Config, logger logging.Logger, us UserService, cs ClaimService) *gin.Engine {
	h := &handler{users: us, claims: cs}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger), cors(cfg.AllowedOrigins()), limitBody(cfg.MaxUploadBytes))

	api := r.Group(cfg.APIPrefix)
	api.GET("/healthz", healthz)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)
	authGroup.GET("/me", h.authRequired, h.me)

	claims := api.Group("/claims", h.authRequired)
	claims.POST("/analyze", h.analyze)
	claims.GET("/history", h.history)
	claims.GET("/:id", h.show)

	r.NoRoute(func(c *gin.Context) {
		abortWithDetail(c, http.StatusNotFound, "not found")
	})
	return r
}

// Handler returns the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}
