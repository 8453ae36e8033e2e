package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	v1 "github.com/packagingcountry/stockroom/api/v1"
	"github.com/packagingcountry/stockroom/internal/config"
)

const (
	apiPrefix       = "/api/v1"
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

type Server struct {
	srv    *http.Server
	engine *gin.Engine
}

// NewServer builds the HTTP server. registerHandlerFn receives the router
// group mounted at /api/v1.
func NewServer(cfg *config.Configuration, registerHandlerFn func(router *gin.RouterGroup)) (*Server, error) {
	if cfg.Server.ServerMode == config.ServerModeProd {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(
		RequestID(),
		ginzap.GinzapWithConfig(zap.L().Named("http"), &ginzap.Config{
			TimeFormat: time.RFC3339,
			UTC:        true,
			Context: func(c *gin.Context) []zapcore.Field {
				return []zapcore.Field{zap.String(requestIDKey, c.GetString(requestIDKey))}
			},
		}),
		ginzap.RecoveryWithZap(zap.L().Named("http"), true),
	)

	router := engine.Group(apiPrefix)
	registerHandlerFn(router)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, v1.ErrorResponse{Error: fmt.Sprintf("route %s %s not found", c.Request.Method, c.Request.URL.Path)})
	})

	return &Server{
		engine: engine,
		srv: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Start serves until Stop is called. It returns nil after a graceful stop.
func (s *Server) Start(ctx context.Context) error {
	zap.S().Named("server").Infow("starting http server", "addr", s.srv.Addr)
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	zap.S().Named("server").Info("stopping http server")
	return s.srv.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// RequestID tags every request with an id, reusing the client's
// X-Request-ID when present, and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
