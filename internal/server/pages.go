package server

import (
	"errors"
	"html/template"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/section"
	"github.com/Zachkp/portfolio/internal/theme"
)

// pageData is what every page and section template renders from.
type pageData struct {
	Profile  *content.Profile
	Bio      template.HTML
	Sections []section.ID
	Active   section.ID
	Theme    theme.State
	// ThemePending marks a first visit without a colour-scheme hint.
	ThemePending bool
	Form     formView
	Year     int
}

func (s *Server) pageData(c *gin.Context) (pageData, error) {
	p := s.Profile()
	bio, err := p.BioHTML()
	if err != nil {
		return pageData{}, err
	}
	state, pending := s.resolveTheme(c)
	return pageData{
		Profile:      p,
		Bio:          bio,
		Sections:     section.Order,
		Active:       section.About,
		Theme:        state,
		ThemePending: pending,
		Form:         s.formView(contact.NewForm()),
		Year:         time.Now().Year(),
	}, nil
}

func (s *Server) handleIndex(c *gin.Context) {
	data, err := s.pageData(c)
	if err != nil {
		s.log.Error("rendering page", zap.Error(err))
		c.String(http.StatusInternalServerError, "Something went wrong.")
		return
	}
	c.HTML(http.StatusOK, "index", data)
}

// handleSection serves one section as an htmx fragment.
func (s *Server) handleSection(c *gin.Context) {
	id, err := section.Parse(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Unknown section.")
		return
	}
	data, err := s.pageData(c)
	if err != nil {
		s.log.Error("rendering section", zap.String("section", string(id)), zap.Error(err))
		c.String(http.StatusInternalServerError, "Something went wrong.")
		return
	}
	data.Active = id
	c.HTML(http.StatusOK, "section-"+string(id), data)
}

// handleCV sends the bundled document under its suggested filename.
func (s *Server) handleCV(c *gin.Context) {
	cv := s.Profile().CV
	if cv.Path == "" {
		c.String(http.StatusNotFound, "No CV available.")
		return
	}
	if _, err := os.Stat(cv.Path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Error("opening cv", zap.String("path", cv.Path), zap.Error(err))
		}
		c.String(http.StatusNotFound, "No CV available.")
		return
	}
	c.FileAttachment(cv.Path, cv.Filename)
}

func (s *Server) handleProfileJSON(c *gin.Context) {
	c.JSON(http.StatusOK, s.Profile())
}

type activeSectionRequest struct {
	ScrollY        float64          `json:"scroll_y"`
	ViewportHeight float64          `json:"viewport_height" binding:"required,gt=0"`
	Previous       string           `json:"previous"`
	Sections       []section.Extent `json:"sections" binding:"required,dive"`
}

type activeSectionResponse struct {
	Active         section.ID `json:"active"`
	ProbeY         float64    `json:"probe_y"`
	ShowScrollHint bool       `json:"show_scroll_hint"`
}

// handleActiveSection runs the tracker against extents measured by a client.
func (s *Server) handleActiveSection(c *gin.Context) {
	var req activeSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, e := range req.Sections {
		if _, err := section.Parse(string(e.ID)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	previous := section.About
	if req.Previous != "" {
		id, err := section.Parse(req.Previous)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		previous = id
	}

	probe := section.ProbeY(req.ScrollY, req.ViewportHeight)
	c.JSON(http.StatusOK, activeSectionResponse{
		Active:         section.ComputeActive(probe, req.Sections, previous),
		ProbeY:         probe,
		ShowScrollHint: section.ShowScrollHint(probe, req.ViewportHeight),
	})
}
