// Package server provides the HTTP server of stockroom.
//
// The server uses the Gin web framework. Every request goes through three
// middleware before reaching the API routes mounted under /api/v1:
//
//	RequestID        X-Request-ID from the client or a new UUID, echoed back
//	ginzap.Ginzap    one structured log line per request, "http" logger
//	RecoveryWithZap  panics logged with stack trace, answered with 500
//
// Unknown routes answer a JSON 404. In "prod" mode gin runs in release
// mode, in "dev" mode in debug mode.
//
//	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
//	    handlers.RegisterHandlers(router, h)
//	})
//	go srv.Start(ctx)
//	...
//	srv.Stop(shutdownCtx)
package server
