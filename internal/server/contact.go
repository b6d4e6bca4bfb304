package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/contact"
)

// formView is the template model of the contact form.
type formView struct {
	Email      string
	Body       string
	State      string
	Editable   bool
	Error      string
	ResetAfter int64
}

func (s *Server) formView(f *contact.Form) formView {
	v := formView{
		Email:      f.Email(),
		Body:       f.Body(),
		State:      f.State().String(),
		Editable:   f.Editable(),
		ResetAfter: s.cfg.Contact.ResetDelay.Milliseconds(),
	}
	if f.State() == contact.Error {
		v.Error = contact.FailureText
	}
	return v
}

func (s *Server) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form", s.formView(contact.NewForm()))
}

// handleContactSubmit drives one idle -> submitting -> success|error pass.
// The submitting state lives in the browser for the duration of the
// request, where htmx disables the inputs.
func (s *Server) handleContactSubmit(c *gin.Context) {
	form := contact.NewFormWith(c.PostForm("email"), c.PostForm("message"))

	msg, ok := form.Submit()
	if !ok {
		// incomplete submissions are ignored; hand the form back untouched
		c.HTML(http.StatusOK, "contact-form", s.formView(form))
		return
	}

	err := s.sender.Send(c.Request.Context(), msg)
	form.Complete(err)

	switch form.State() {
	case contact.Success:
		s.log.Info("contact message accepted", zap.String("id", msg.ID))
		c.HTML(http.StatusOK, "contact-success", s.formView(form))
	default:
		s.log.Error("contact message failed", zap.String("id", msg.ID), zap.Error(err))
		view := s.formView(form)
		c.HTML(http.StatusOK, "contact-error", view)
	}
}

// handleContactAcknowledge dismisses the error and returns the idle form
// with the visitor's input preserved.
func (s *Server) handleContactAcknowledge(c *gin.Context) {
	form := contact.Restore(contact.Error, c.PostForm("email"), c.PostForm("message"))
	form.Acknowledge()
	c.HTML(http.StatusOK, "contact-form", s.formView(form))
}
