package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID carries the per-request correlation id
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "request_id"

// requestID propagates the caller's X-Request-ID or assigns a new UUID
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// unavailable rejects every request once the server has been closed
func (s *Server) unavailable() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.closed.Load() {
			respondError(c, &Error{Kind: KindUnavailable, Status: http.StatusServiceUnavailable, Message: MsgUnavailable})
			return
		}
		c.Next()
	}
}

// accessLog writes one structured line per request and feeds the request
// metrics.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		route := c.FullPath()
		s.metrics.RecordRequest(c.Request.Method, route, status, elapsed)

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", route,
			"status", status,
			"latency", elapsed,
			"request_id", c.GetString(requestIDKey),
		}
		if last := c.Errors.Last(); last != nil {
			attrs = append(attrs, "error", last.Err.Error())
		}

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(c.Request.Context(), level, "request", attrs...)
	}
}

// recovery turns a handler panic into a 500 JSON error
func (s *Server) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		s.logger.Error("handler panic",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey))
		respondError(c, &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: MsgInternal})
	})
}
