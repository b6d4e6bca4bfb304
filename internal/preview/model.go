// Package preview renders the portfolio as a scrolling terminal page.
package preview

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/section"
	"github.com/Zachkp/portfolio/internal/theme"
)

const (
	headerHeight = 2
	footerHeight = 1
)

type focus int

const (
	focusPage focus = iota
	focusEmail
	focusBody
)

type (
	submitResultMsg struct{ err error }
	resetFormMsg    struct{}
	profileMsg      struct {
		profile *content.Profile
		err     error
	}
)

// Options wires the preview's collaborators.
type Options struct {
	Profile     *content.Profile
	Themes      *theme.Manager
	SystemDark  bool
	Sender      contact.Sender
	ResetDelay  time.Duration
	DownloadDir string
	Logger      *zap.Logger
}

// Model is the Bubble Tea model of the terminal page.
type Model struct {
	ctx  context.Context
	opts Options
	log  *zap.Logger

	profile  *content.Profile
	theme    theme.State
	styles   styleSet
	renderer *glamour.TermRenderer

	vp      viewport.Model
	tracker *section.Tracker
	ready   bool
	width   int
	height  int

	form  *contact.Form
	email textinput.Model
	body  textarea.Model
	focus focus

	status  string
	reloads <-chan profileMsg
}

// NewModel resolves the theme and prepares an unsized model; layout happens
// on the first WindowSizeMsg.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Profile == nil {
		opts.Profile = content.Default()
	}
	if opts.Themes == nil {
		opts.Themes = theme.NewManager(theme.NewMemoryStore())
	}
	if opts.Sender == nil {
		opts.Sender = &contact.SimulatedSender{Delay: contact.SubmitDelay, Logger: opts.Logger}
	}
	if opts.ResetDelay == 0 {
		opts.ResetDelay = contact.ResetDelay
	}

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email › "
	email.CharLimit = 254

	body := textarea.New()
	body.Placeholder = "Your message..."
	body.ShowLineNumbers = false
	body.SetHeight(4)

	m := &Model{
		ctx:     ctx,
		opts:    opts,
		log:     opts.Logger,
		profile: opts.Profile,
		vp:      viewport.New(0, 0),
		tracker: section.NewTracker(nil),
		form:    contact.NewForm(),
		email:   email,
		body:    body,
	}

	m.theme = opts.Themes.Initialize(opts.SystemDark)
	if err := opts.Themes.Persist(m.theme); err != nil {
		m.log.Warn("persisting theme", zap.Error(err))
	}
	m.styles = newStyles(m.theme)
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.waitForReload()
}

func (m *Model) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// Active is the highlighted navigation item.
func (m *Model) Active() section.ID { return m.tracker.Active() }

// Theme is the applied display mode.
func (m *Model) Theme() theme.State { return m.theme }

// Form exposes the contact form state.
func (m *Model) Form() *contact.Form { return m.form }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = max(1, msg.Height-headerHeight-footerHeight)
		m.email.Width = max(10, msg.Width/2-12)
		m.body.SetWidth(max(20, msg.Width/2))
		if err := m.rebuildRenderer(); err != nil {
			m.status = "render error: " + err.Error()
		}
		m.ready = true
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case submitResultMsg:
		m.form.Complete(msg.err)
		switch m.form.State() {
		case contact.Success:
			m.email.SetValue("")
			m.body.SetValue("")
			m.focus = focusPage
			m.relayout()
			reset := m.opts.ResetDelay
			return m, tea.Tick(reset, func(time.Time) tea.Msg { return resetFormMsg{} })
		case contact.Error:
			m.log.Error("contact message failed", zap.Error(msg.err))
		}
		m.relayout()
		return m, nil

	case resetFormMsg:
		m.form.Reset()
		m.relayout()
		return m, nil

	case profileMsg:
		if msg.err != nil {
			m.status = "profile reload failed: " + msg.err.Error()
		} else if msg.profile != nil {
			m.profile = msg.profile
			m.status = "profile reloaded"
			m.relayout()
		}
		return m, m.waitForReload()
	}

	return m.forward(msg)
}

// forward hands remaining messages (mouse wheel, cursor blink) to the
// focused component.
func (m *Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusEmail:
		m.email, cmd = m.email.Update(msg)
	case focusBody:
		m.body, cmd = m.body.Update(msg)
	default:
		m.vp, cmd = m.vp.Update(msg)
		m.onScroll()
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.form.State() == contact.Error {
		m.form.Acknowledge()
		m.relayout()
		return m, nil
	}

	if m.focus != focusPage {
		return m.handleFormKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "t":
		m.toggleTheme()
		return m, nil
	case "d":
		m.downloadCV()
		return m, nil
	case "c":
		m.jumpTo(section.Contact)
		return m, m.focusField(focusEmail)
	case "1", "2", "3", "4", "5", "6":
		m.jumpTo(section.Order[int(msg.String()[0]-'1')])
		return m, nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	m.onScroll()
	return m, cmd
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.blurFields()
		m.focus = focusPage
		m.relayout()
		return m, nil
	case "tab", "shift+tab":
		if m.focus == focusEmail {
			return m, m.focusField(focusBody)
		}
		return m, m.focusField(focusEmail)
	case "ctrl+s":
		return m, m.submit()
	}

	if !m.form.Editable() {
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusEmail {
		if msg.String() == "enter" {
			return m, m.focusField(focusBody)
		}
		m.email, cmd = m.email.Update(msg)
		m.form.SetEmail(m.email.Value())
	} else {
		m.body, cmd = m.body.Update(msg)
		m.form.SetBody(m.body.Value())
	}
	m.relayout()
	return m, cmd
}

func (m *Model) focusField(f focus) tea.Cmd {
	m.blurFields()
	m.focus = f
	var cmd tea.Cmd
	if f == focusEmail {
		cmd = m.email.Focus()
	} else {
		cmd = m.body.Focus()
	}
	m.relayout()
	return cmd
}

func (m *Model) blurFields() {
	m.email.Blur()
	m.body.Blur()
}

// submit starts delivery as an async command; the result comes back as a
// submitResultMsg.
func (m *Model) submit() tea.Cmd {
	msg, ok := m.form.Submit()
	if !ok {
		return nil
	}
	m.blurFields()
	m.relayout()

	ctx, sender := m.ctx, m.opts.Sender
	return func() tea.Msg {
		return submitResultMsg{err: sender.Send(ctx, msg)}
	}
}

func (m *Model) toggleTheme() {
	next, err := m.opts.Themes.Toggle(m.theme)
	if err != nil {
		m.status = "could not save theme: " + err.Error()
		return
	}
	m.theme = next
	m.styles = newStyles(next)
	if err := m.rebuildRenderer(); err != nil {
		m.status = "render error: " + err.Error()
	}
	m.status = fmt.Sprintf("%s mode", next)
	m.relayout()
}

func (m *Model) downloadCV() {
	path, err := content.SaveCV(m.profile.CV, m.opts.DownloadDir)
	if err != nil {
		m.status = "download failed: " + err.Error()
		return
	}
	m.status = "saved " + path
}

func (m *Model) rebuildRenderer() error {
	if m.width == 0 {
		return nil
	}
	r, err := newRenderer(m.theme, max(20, m.width-4))
	if err != nil {
		return err
	}
	m.renderer = r
	return nil
}

// relayout re-renders the page, re-measures section extents and re-runs
// the tracker at the current scroll position.
func (m *Model) relayout() {
	if !m.ready {
		return
	}
	page, extents := m.renderPage()
	m.vp.SetContent(page)
	m.tracker.SetExtents(extents)
	m.onScroll()
}

func (m *Model) onScroll() {
	m.tracker.Scroll(float64(m.vp.YOffset), float64(m.vp.Height))
}

// jumpTo scrolls so the probe lands on the first line of the section.
func (m *Model) jumpTo(id section.ID) {
	for _, e := range m.tracker.Extents() {
		if e.ID == id {
			m.vp.SetYOffset(max(0, int(e.Top)-m.vp.Height/3))
			m.onScroll()
			return
		}
	}
}
