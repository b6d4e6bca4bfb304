package preview

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/content"
)

// Run executes the terminal preview until the user quits or ctx ends.
// When profilePath is set, edits to that file are picked up live.
func Run(ctx context.Context, opts Options, profilePath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts.SystemDark = lipgloss.HasDarkBackground()

	m := NewModel(ctx, opts)
	if profilePath != "" {
		m.reloads = watchProfile(ctx, profilePath, m.log)
	}

	program := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func watchProfile(ctx context.Context, path string, log *zap.Logger) <-chan profileMsg {
	ch := make(chan profileMsg, 1)
	go func() {
		defer close(ch)
		err := content.Watch(ctx, path, func(p *content.Profile, err error) {
			select {
			case ch <- profileMsg{profile: p, err: err}:
			case <-ctx.Done():
			}
		})
		if err != nil {
			log.Warn("profile watcher stopped", zap.String("path", path), zap.Error(err))
		}
	}()
	return ch
}
