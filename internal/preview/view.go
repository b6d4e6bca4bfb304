package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/section"
)

const skillBarWidth = 20

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.headerView(), m.vp.View(), m.footerView())
}

func (m *Model) headerView() string {
	s := m.styles
	items := []string{s.brand.Render(m.profile.Name)}
	for i, id := range section.Order {
		label := fmt.Sprintf("%d %s", i+1, id.Title())
		if id == m.tracker.Active() {
			items = append(items, s.navActive.Render(label))
		} else {
			items = append(items, s.navItem.Render(label))
		}
	}
	bar := truncate.String(lipgloss.JoinHorizontal(lipgloss.Top, items...), uint(m.width))
	rule := s.barEmpty.Render(strings.Repeat("─", max(0, m.width)))
	return bar + "\n" + rule
}

func (m *Model) footerView() string {
	s := m.styles
	left := "t theme · d download CV · c contact · 1-6 jump · q quit"
	if m.status != "" {
		left = m.status
	}
	right := fmt.Sprintf("%3.f%%", m.vp.ScrollPercent()*100)
	if m.tracker.ShowScrollHint() {
		right = s.hint.Render("↓ scroll") + "  " + right
	}
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	line := s.status.Render(left) + strings.Repeat(" ", gap) + right
	return truncate.String(line, uint(m.width))
}

// renderPage renders every section in order and returns the page with the
// line extents of each section.
func (m *Model) renderPage() (string, []section.Extent) {
	blocks := make([]string, 0, len(section.Order)+1)
	heights := make(map[section.ID]float64, len(section.Order))
	for _, id := range section.Order {
		block := m.renderSection(id)
		blocks = append(blocks, block)
		heights[id] = float64(lipgloss.Height(block))
	}
	// trailing space so the last section can reach the probe line
	if pad := m.vp.Height * 2 / 3; pad > 0 {
		blocks = append(blocks, strings.Repeat("\n", pad-1))
	}
	return strings.Join(blocks, "\n"), section.Stack(0, heights)
}

func (m *Model) contentWidth() int {
	return max(20, m.width-4)
}

func (m *Model) renderSection(id section.ID) string {
	var body string
	switch id {
	case section.About:
		body = m.aboutView()
	case section.Experience:
		body = m.experienceView()
	case section.Education:
		body = m.educationView()
	case section.Skills:
		body = m.skillsView()
	case section.Projects:
		body = m.projectsView()
	case section.Contact:
		body = m.contactView()
	}
	title := m.styles.title.Render(strings.ToUpper(id.Title()))
	return strings.TrimRight(title+"\n"+body, "\n") + "\n"
}

func (m *Model) wrap(s string) string {
	return wordwrap.String(s, m.contentWidth())
}

func (m *Model) aboutView() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.heading.Render(m.profile.Name) + "\n")
	b.WriteString(s.meta.Render(m.profile.Headline) + "\n")
	if m.renderer != nil {
		if out, err := m.renderer.Render(m.profile.Bio); err == nil {
			b.WriteString(strings.Trim(out, "\n") + "\n")
			return b.String()
		}
	}
	b.WriteString(s.text.Render(m.wrap(m.profile.Bio)) + "\n")
	return b.String()
}

func (m *Model) card(heading, meta, desc string) string {
	s := m.styles
	inner := max(10, m.contentWidth()-4)
	parts := []string{s.heading.Render(heading)}
	if meta != "" {
		parts = append(parts, s.meta.Render(meta))
	}
	if desc != "" {
		parts = append(parts, s.text.Render(wordwrap.String(desc, inner)))
	}
	return s.card.Width(inner + 2).Render(strings.Join(parts, "\n"))
}

func (m *Model) experienceView() string {
	cards := make([]string, 0, len(m.profile.Experiences))
	for _, e := range m.profile.Experiences {
		cards = append(cards, m.card(e.Title, e.Company+" · "+e.Duration, e.Description))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m *Model) educationView() string {
	cards := make([]string, 0, len(m.profile.Education))
	for _, e := range m.profile.Education {
		cards = append(cards, m.card(e.Degree, e.Institution+" · "+e.Duration, e.Description))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m *Model) skillsView() string {
	s := m.styles
	nameWidth := 0
	for _, sk := range m.profile.Skills {
		nameWidth = max(nameWidth, lipgloss.Width(sk.Name))
	}
	lines := make([]string, 0, len(m.profile.Skills)+1)
	for _, sk := range m.profile.Skills {
		filled := sk.Level * skillBarWidth / 100
		bar := s.barFill.Render(strings.Repeat("█", filled)) +
			s.barEmpty.Render(strings.Repeat("░", skillBarWidth-filled))
		name := s.text.Render(sk.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(sk.Name)))
		lines = append(lines, fmt.Sprintf("%s  %s %3d%%", name, bar, sk.Level))
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m *Model) projectsView() string {
	cards := make([]string, 0, len(m.profile.Projects))
	for _, p := range m.profile.Projects {
		cards = append(cards, m.card(p.Title, strings.Join(p.Technologies, ", "), p.Description))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m *Model) contactView() string {
	s := m.styles
	links := m.profile.Links
	var b strings.Builder
	for _, l := range [][2]string{
		{"Email", links.Email},
		{"Phone", links.Phone},
		{"GitHub", links.GitHub},
		{"LinkedIn", links.LinkedIn},
	} {
		if l[1] != "" {
			b.WriteString(s.meta.Render(l[0]+": ") + s.text.Render(l[1]) + "\n")
		}
	}
	if m.profile.CV.Filename != "" {
		b.WriteString(s.hint.Render("[d] Download CV ("+m.profile.CV.Filename+")") + "\n")
	}
	b.WriteString("\n")

	switch m.form.State() {
	case contact.Success:
		b.WriteString(s.success.Render("✓ Message sent! Thank you for reaching out.") + "\n")
		return b.String()
	case contact.Error:
		b.WriteString(s.failure.Render("✗ "+contact.FailureText) + "\n")
		b.WriteString(s.status.Render("press any key to try again") + "\n")
		return b.String()
	}

	b.WriteString(m.email.View() + "\n")
	b.WriteString(m.body.View() + "\n")
	switch {
	case m.form.State() == contact.Submitting:
		b.WriteString(s.status.Render("Sending...") + "\n")
	case m.focus == focusPage:
		b.WriteString(s.status.Render("press c to write a message") + "\n")
	default:
		b.WriteString(s.status.Render("tab switch field · ctrl+s send · esc leave") + "\n")
	}
	return b.String()
}
