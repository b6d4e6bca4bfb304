package preview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/section"
	"github.com/Zachkp/portfolio/internal/theme"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(runes(string(r)))
	}
}

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	if opts.Sender == nil {
		opts.Sender = contact.SenderFunc(func(context.Context, contact.Message) error { return nil })
	}
	if opts.ResetDelay == 0 {
		opts.ResetDelay = time.Millisecond
	}
	m := NewModel(context.Background(), opts)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 24})
	return m
}

func TestNewModelResolvesTheme(t *testing.T) {
	store := theme.NewMemoryStore()
	require.NoError(t, store.Save(theme.Key, "true"))

	m := newTestModel(t, Options{Themes: theme.NewManager(store)})
	assert.True(t, m.Theme().Dark)

	fresh := theme.NewMemoryStore()
	m = newTestModel(t, Options{Themes: theme.NewManager(fresh), SystemDark: true})
	assert.True(t, m.Theme().Dark)
	v, ok, _ := fresh.Load(theme.Key)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestLayoutMeasuresEverySection(t *testing.T) {
	m := newTestModel(t, Options{})

	extents := m.tracker.Extents()
	require.Len(t, extents, len(section.Order))
	assert.Equal(t, 0.0, extents[0].Top)
	for i := 1; i < len(extents); i++ {
		assert.Equal(t, extents[i-1].Top+extents[i-1].Height, extents[i].Top)
		assert.Positive(t, extents[i].Height)
	}
	assert.Equal(t, section.About, m.Active())
	assert.True(t, m.tracker.ShowScrollHint())
	assert.Contains(t, m.View(), "Skills")
}

func TestJumpKeysMoveActiveSection(t *testing.T) {
	m := newTestModel(t, Options{})

	for i, id := range section.Order {
		m.Update(runes(string(rune('1' + i))))
		assert.Equal(t, id, m.Active(), "key %d", i+1)
	}
	assert.False(t, m.tracker.ShowScrollHint())

	m.Update(runes("1"))
	assert.Equal(t, section.About, m.Active())
}

func TestToggleTheme(t *testing.T) {
	store := theme.NewMemoryStore()
	m := newTestModel(t, Options{Themes: theme.NewManager(store)})
	start := m.Theme()
	writes := store.Writes()

	m.Update(runes("t"))
	assert.Equal(t, !start.Dark, m.Theme().Dark)
	assert.Equal(t, writes+1, store.Writes())

	m.Update(runes("t"))
	assert.Equal(t, start, m.Theme())
}

func TestContactSubmitSuccessThenReset(t *testing.T) {
	var got contact.Message
	m := newTestModel(t, Options{
		Sender: contact.SenderFunc(func(_ context.Context, msg contact.Message) error {
			got = msg
			return nil
		}),
	})

	_, cmd := m.Update(runes("c"))
	assert.NotNil(t, cmd)
	assert.Equal(t, section.Contact, m.Active())

	// empty submit is ignored
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, cmd)
	assert.Equal(t, contact.Idle, m.Form().State())

	typeText(m, "ada@example.com")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "hello there")
	assert.Equal(t, "ada@example.com", m.Form().Email())
	assert.Equal(t, "hello there", m.Form().Body())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Equal(t, contact.Submitting, m.Form().State())

	// edits while submitting are dropped
	typeText(m, "xyz")
	assert.Equal(t, "hello there", m.Form().Body())

	_, tick := m.Update(cmd())
	assert.Equal(t, contact.Success, m.Form().State())
	assert.Equal(t, "ada@example.com", got.SenderEmail)
	assert.Empty(t, m.Form().Email())
	assert.Empty(t, m.email.Value())

	require.NotNil(t, tick)
	m.Update(tick())
	assert.Equal(t, contact.Idle, m.Form().State())
}

func TestContactSubmitFailureKeepsFields(t *testing.T) {
	m := newTestModel(t, Options{
		Sender: contact.SenderFunc(func(context.Context, contact.Message) error {
			return errors.New("smtp down")
		}),
	})

	m.Update(runes("c"))
	typeText(m, "ada@example.com")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(m, "hi")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	m.Update(cmd())
	assert.Equal(t, contact.Error, m.Form().State())
	assert.Contains(t, m.View(), "Download CV")

	// any key acknowledges without being typed into the form
	m.Update(runes("z"))
	assert.Equal(t, contact.Idle, m.Form().State())
	assert.Equal(t, "ada@example.com", m.Form().Email())
	assert.Equal(t, "hi", m.Form().Body())
}

func TestDownloadCV(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "cv.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF"), 0o644))

	p := content.Default()
	p.CV = content.CV{Path: src, Filename: "ada_resume.pdf"}
	out := filepath.Join(dir, "out")
	m := newTestModel(t, Options{Profile: p, DownloadDir: out})

	m.Update(runes("d"))
	assert.FileExists(t, filepath.Join(out, "ada_resume.pdf"))
	assert.Contains(t, m.status, "saved")
}

func TestProfileReload(t *testing.T) {
	m := newTestModel(t, Options{})
	ch := make(chan profileMsg, 1)
	m.reloads = ch

	p := content.Default()
	p.Name = "Someone Else"
	ch <- profileMsg{profile: p}

	cmd := m.waitForReload()
	require.NotNil(t, cmd)
	_, next := m.Update(cmd())
	assert.NotNil(t, next)
	assert.Contains(t, m.View(), "Someone Else")

	ch <- profileMsg{err: errors.New("bad yaml")}
	m.Update(cmd())
	assert.Contains(t, m.status, "bad yaml")
	assert.Contains(t, m.View(), "Someone Else")
}
