// Package theme resolves and persists the dark/light display preference.
package theme

import (
	"errors"
	"strconv"
)

// Key is the fixed name the preference is persisted under.
const Key = "darkMode"

// ErrInvalidValue is returned by Parse for anything but "true" or "false".
var ErrInvalidValue = errors.New("theme: invalid persisted value")

// State is the display mode. The zero value is light.
type State struct {
	Dark bool
}

// Class is the marker applied to the document root.
func (s State) Class() string {
	if s.Dark {
		return "dark"
	}
	return ""
}

func (s State) String() string {
	if s.Dark {
		return "dark"
	}
	return "light"
}

// Encode returns the persisted form of s.
func (s State) Encode() string {
	return strconv.FormatBool(s.Dark)
}

// Parse decodes a persisted value.
func Parse(v string) (State, error) {
	switch v {
	case "true":
		return State{Dark: true}, nil
	case "false":
		return State{Dark: false}, nil
	}
	return State{}, ErrInvalidValue
}

// Store is a key-value persistence backend for the preference.
type Store interface {
	// Load returns the stored value and whether one was present.
	Load(key string) (string, bool, error)
	Save(key, value string) error
}

// Manager resolves the initial state and persists toggles. It carries no
// display state itself; callers own the State value.
type Manager struct {
	store Store
	key   string
}

// NewManager returns a manager persisting under Key.
func NewManager(store Store) *Manager {
	return &Manager{store: store, key: Key}
}

// Initialize resolves the starting state: the persisted choice if one is
// present and well formed, otherwise the system preference. It never fails.
func (m *Manager) Initialize(systemDark bool) State {
	v, ok, err := m.store.Load(m.key)
	if err != nil || !ok {
		return State{Dark: systemDark}
	}
	s, err := Parse(v)
	if err != nil {
		return State{Dark: systemDark}
	}
	return s
}

// Toggle persists and returns the negation of current. If the write fails
// the current state is returned along with the error so the applied marker
// never diverges from storage.
func (m *Manager) Toggle(current State) (State, error) {
	next := State{Dark: !current.Dark}
	if err := m.store.Save(m.key, next.Encode()); err != nil {
		return current, err
	}
	return next, nil
}

// Persist writes s as-is, used to record a resolved system preference.
func (m *Manager) Persist(s State) error {
	return m.store.Save(m.key, s.Encode())
}
