package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solobooks/solobooks/internal/userctx"
	"go.uber.org/zap"
)

const (
	// HeaderUser carries the resolved caller identity. Authentication itself
	// happens upstream (reverse proxy / gateway); this server only consumes
	// the resolved id.
	HeaderUser      = "X-User-ID"
	HeaderRequestID = "X-Request-ID"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func AccessLog(log *zap.Logger) gin.HandlerFunc {
	access := log.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		access.Info("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// OwnerRequired resolves the caller's user id and injects it into the request
// context. Every handler below this middleware is owner-scoped.
func (s *Server) OwnerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderUser))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		userID, err := snowflake.ParseString(raw)
		if err != nil || userID == 0 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := userctx.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AttemptLimit throttles mutating requests per caller. Read requests pass
// through, and a limiter backend outage fails open. A successful mutation
// resets the counter, so only streaks of rejected attempts accumulate.
func (s *Server) AttemptLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "HEAD" {
			c.Next()
			return
		}

		identifier := strings.TrimSpace(c.GetHeader(HeaderUser))
		result, err := s.limiter.Allow(c.Request.Context(), identifier)
		if err != nil {
			s.log.Warn("attempt limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !result.Allowed {
			c.Header("Retry-After", result.RetryAfter.Round(time.Second).String())
			AbortWithError(c, ErrTooManyRequest)
			return
		}
		c.Next()

		if c.Writer.Status() < 400 {
			if err := s.limiter.Reset(c.Request.Context(), identifier); err != nil {
				s.log.Warn("attempt limiter reset failed", zap.Error(err))
			}
		}
	}
}
