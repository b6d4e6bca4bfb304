package server

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/store"
)

const adminCookie = "admin_token"

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// adminAuth requires the session cookie handed out at login.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !constantTimeEqual(token, s.adminToken) {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) adminRoutes() {
	r := s.engine

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		userOK := constantTimeEqual(c.PostForm("username"), s.cfg.Admin.Username)
		passOK := constantTimeEqual(c.PostForm("password"), s.cfg.Admin.Password)
		if !userOK || !passOK {
			s.log.Warn("failed admin login", zap.String("client", s.hashIP(c.ClientIP())))
			c.HTML(http.StatusUnauthorized, "admin-login", gin.H{"title": "Admin Login", "error": "Invalid credentials"})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", false, true)
		s.log.Info("admin login", zap.String("client", s.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.db.Stats(c.Request.Context())
		if err != nil {
			s.log.Error("loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error", gin.H{"error": "Failed to load statistics"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard", gin.H{"stats": stats})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.db.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/messages", func(c *gin.Context) {
		msgs, err := s.db.RecentMessages(c.Request.Context(), 200)
		if err != nil {
			s.log.Error("loading messages", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error", gin.H{"error": "Failed to load messages"})
			return
		}
		c.HTML(http.StatusOK, "admin-messages", gin.H{"messages": msgs})
	})

	admin.DELETE("/messages/:id", func(c *gin.Context) {
		id := c.Param("id")
		err := s.db.DeleteMessage(c.Request.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		if err != nil {
			s.log.Error("deleting message", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.db.CleanupVisitors(c.Request.Context(), visitorRetention)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": n})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.db.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		c.JSON(http.StatusOK, stats)
	})
}
