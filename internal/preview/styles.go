package preview

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zachkp/portfolio/internal/theme"
)

type palette struct {
	fg     lipgloss.Color
	muted  lipgloss.Color
	accent lipgloss.Color
	card   lipgloss.Color
	good   lipgloss.Color
	bad    lipgloss.Color
}

var (
	lightPalette = palette{
		fg:     lipgloss.Color("#1f2937"),
		muted:  lipgloss.Color("#4b5563"),
		accent: lipgloss.Color("#2563eb"),
		card:   lipgloss.Color("#d1d5db"),
		good:   lipgloss.Color("#16a34a"),
		bad:    lipgloss.Color("#dc2626"),
	}
	darkPalette = palette{
		fg:     lipgloss.Color("#f3f4f6"),
		muted:  lipgloss.Color("#9ca3af"),
		accent: lipgloss.Color("#60a5fa"),
		card:   lipgloss.Color("#374151"),
		good:   lipgloss.Color("#4ade80"),
		bad:    lipgloss.Color("#f87171"),
	}
)

// styleSet is every lipgloss style the view uses for one theme.
type styleSet struct {
	pal       palette
	brand     lipgloss.Style
	navItem   lipgloss.Style
	navActive lipgloss.Style
	title     lipgloss.Style
	heading   lipgloss.Style
	meta      lipgloss.Style
	text      lipgloss.Style
	card      lipgloss.Style
	barFill   lipgloss.Style
	barEmpty  lipgloss.Style
	status    lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	hint      lipgloss.Style
}

func newStyles(s theme.State) styleSet {
	p := lightPalette
	if s.Dark {
		p = darkPalette
	}
	return styleSet{
		pal:       p,
		brand:     lipgloss.NewStyle().Bold(true).Foreground(p.accent).PaddingRight(2),
		navItem:   lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1),
		navActive: lipgloss.NewStyle().Foreground(p.accent).Bold(true).Underline(true).Padding(0, 1),
		title:     lipgloss.NewStyle().Bold(true).Foreground(p.accent).MarginBottom(1),
		heading:   lipgloss.NewStyle().Bold(true).Foreground(p.fg),
		meta:      lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		text:      lipgloss.NewStyle().Foreground(p.fg),
		card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.card).
			Padding(0, 1).
			MarginBottom(1),
		barFill:  lipgloss.NewStyle().Foreground(p.accent),
		barEmpty: lipgloss.NewStyle().Foreground(p.card),
		status:   lipgloss.NewStyle().Foreground(p.muted),
		success:  lipgloss.NewStyle().Foreground(p.good).Bold(true),
		failure:  lipgloss.NewStyle().Foreground(p.bad).Bold(true),
		hint:     lipgloss.NewStyle().Foreground(p.accent).Bold(true),
	}
}

func newRenderer(s theme.State, width int) (*glamour.TermRenderer, error) {
	style := styles.LightStyle
	if s.Dark {
		style = styles.DarkStyle
	}
	return glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
}
