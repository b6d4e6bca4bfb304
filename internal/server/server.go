// Package server renders the portfolio over HTTP with gin and htmx.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/store"
)

// visitorRetention is how long page views are kept.
const visitorRetention = 365 * 24 * time.Hour

// Options wires the server's collaborators. DB may be nil, which disables
// visitor tracking and the admin area.
type Options struct {
	Config  *config.Config
	Profile *content.Profile
	Sender  contact.Sender
	DB      *store.DB
	Logger  *zap.Logger
}

type Server struct {
	cfg     *config.Config
	profile atomic.Pointer[content.Profile]
	sender  contact.Sender
	db      *store.DB
	log     *zap.Logger
	engine  *gin.Engine

	adminToken  string
	hashingSalt string
}

// New builds the gin engine and registers every route.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Profile == nil {
		opts.Profile = content.Default()
	}
	if opts.Sender == nil {
		opts.Sender = &contact.SimulatedSender{Delay: opts.Config.Contact.SubmitDelay, Logger: opts.Logger}
	}

	s := &Server{
		cfg:         opts.Config,
		sender:      opts.Sender,
		db:          opts.DB,
		log:         opts.Logger,
		adminToken:  randomToken(),
		hashingSalt: randomToken(),
	}
	s.profile.Store(opts.Profile)

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(requestLogger(s.log), recovery(s.log))
	r.SetHTMLTemplate(tmpl)
	s.engine = r
	s.routes()
	return s, nil
}

func randomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("generating token: %v", err))
	}
	return hex.EncodeToString(b)
}

// Profile returns the profile currently being served.
func (s *Server) Profile() *content.Profile { return s.profile.Load() }

// SetProfile swaps the served profile, e.g. after the file was edited.
func (s *Server) SetProfile(p *content.Profile) {
	if p != nil {
		s.profile.Store(p)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	r := s.engine

	r.StaticFS("/assets", assetsFS())
	if dirExists(s.cfg.Server.ImagesDir) {
		r.Static("/images", s.cfg.Server.ImagesDir)
	}
	if dirExists(s.cfg.Server.StaticDir) {
		r.Static("/static", s.cfg.Server.StaticDir)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	page := r.Group("/")
	if s.db != nil && s.cfg.Server.TrackVisitors {
		page.Use(s.visitorTracking())
	}
	page.GET("/", s.handleIndex)
	page.GET("/sections/:id", s.handleSection)
	page.GET("/cv", s.handleCV)
	page.POST("/theme/toggle", s.handleThemeToggle)
	page.GET("/contact-form", s.handleContactForm)
	page.POST("/contact", s.handleContactSubmit)
	page.POST("/contact/acknowledge", s.handleContactAcknowledge)

	api := r.Group("/api")
	api.GET("/profile", s.handleProfileJSON)
	api.POST("/active-section", s.handleActiveSection)

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy", gin.H{"title": "Privacy Policy", "retentionMonths": 12})
	})

	if s.db != nil && s.cfg.AdminEnabled() {
		s.adminRoutes()
	}
}

func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.db != nil {
		go s.retentionLoop(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("portfolio listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// retentionLoop drops visitor rows past the retention window at startup
// and once a day after.
func (s *Server) retentionLoop(ctx context.Context) {
	cleanup := func() {
		n, err := s.db.CleanupVisitors(ctx, visitorRetention)
		if err != nil {
			s.log.Error("visitor cleanup failed", zap.Error(err))
			return
		}
		if n > 0 {
			s.log.Info("privacy cleanup removed old visitor records", zap.Int64("rows", n))
		}
	}

	cleanup()
	t := time.NewTicker(24 * time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			cleanup()
		}
	}
}
