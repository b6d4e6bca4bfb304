package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/theme"
)

const (
	themeCookieMaxAge = 365 * 24 * 3600
	// prefersColorSchemeHint is the client hint carrying the OS colour scheme.
	prefersColorSchemeHint = "Sec-CH-Prefers-Color-Scheme"
)

// cookieStore persists the theme flag in a cookie, the server-side
// counterpart of browser local storage.
type cookieStore struct {
	c *gin.Context
}

func (s cookieStore) Load(key string) (string, bool, error) {
	v, err := s.c.Cookie(key)
	if err == http.ErrNoCookie {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s cookieStore) Save(key, value string) error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	// app.js writes this cookie too, so it is not HttpOnly
	s.c.SetCookie(key, value, themeCookieMaxAge, "/", "", false, false)
	return nil
}

// colorSchemeHint reads the client hint. Browsers send it as a structured
// header string ("dark"), so surrounding quotes are dropped. ok is false
// when the request carried no usable hint.
func colorSchemeHint(c *gin.Context) (dark, ok bool) {
	v := strings.TrimSpace(c.GetHeader(prefersColorSchemeHint))
	v = strings.Trim(v, `"`)
	switch strings.ToLower(v) {
	case "dark":
		return true, true
	case "light":
		return false, true
	}
	return false, false
}

func systemPrefersDark(c *gin.Context) bool {
	dark, _ := colorSchemeHint(c)
	return dark
}

// resolveTheme initializes the theme for this request. On a first visit
// the resolved preference is recorded only when the browser told us its
// colour scheme; otherwise pending is true and app.js settles it with
// matchMedia.
func (s *Server) resolveTheme(c *gin.Context) (state theme.State, pending bool) {
	c.Header("Accept-CH", prefersColorSchemeHint)
	c.Header("Critical-CH", prefersColorSchemeHint)
	c.Header("Vary", prefersColorSchemeHint)

	store := cookieStore{c: c}
	m := theme.NewManager(store)
	dark, hinted := colorSchemeHint(c)
	state = m.Initialize(dark)
	if _, ok, _ := store.Load(theme.Key); ok {
		return state, false
	}
	if !hinted {
		return state, true
	}
	if err := m.Persist(state); err != nil {
		s.log.Warn("persisting theme", zap.Error(err))
	}
	return state, false
}

// handleThemeToggle flips the persisted flag. htmx callers get the new
// state as a themeChanged event so the page applies the marker in place;
// plain form posts are redirected back.
func (s *Server) handleThemeToggle(c *gin.Context) {
	m := theme.NewManager(cookieStore{c: c})
	next, err := m.Toggle(m.Initialize(systemPrefersDark(c)))
	if err != nil {
		s.log.Error("toggling theme", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Trigger", fmt.Sprintf(`{"themeChanged":{"dark":%t}}`, next.Dark))
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
