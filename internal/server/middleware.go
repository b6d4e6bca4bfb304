package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		default:
			log.Debug("request", fields...)
		}
	}
}

func recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic serving request", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// hashIP keeps visitors distinguishable without storing their address.
func (s *Server) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.hashingSalt))
	return hex.EncodeToString(sum[:])[:16]
}

var untrackedPrefixes = []string{"/assets/", "/static/", "/images/", "/admin/", "/favicon", "/privacy", "/api/", "/healthz"}

// visitorTracking records page views with hashed addresses. Only full page
// loads count: form posts and htmx fragment requests are skipped. Requests
// that send DNT: 1 are never recorded.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || c.GetHeader("HX-Request") == "true" {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, p := range untrackedPrefixes {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		hashed, ua := s.hashIP(c.ClientIP()), c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.db.RecordVisit(ctx, hashed, ua, path); err != nil {
				s.log.Warn("recording visitor failed", zap.Error(err))
			}
		}()
		c.Next()
	}
}
