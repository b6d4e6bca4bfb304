package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ MemoryStore }

func (f *failingStore) Save(string, string) error { return errors.New("quota exceeded") }

type brokenStore struct{}

func (brokenStore) Load(string) (string, bool, error) { return "", false, errors.New("io") }
func (brokenStore) Save(string, string) error          { return nil }

func TestInitializePrecedence(t *testing.T) {
	t.Run("persisted true wins over system light", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(Key, "true"))
		assert.True(t, NewManager(store).Initialize(false).Dark)
	})

	t.Run("persisted false wins over system dark", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(Key, "false"))
		assert.False(t, NewManager(store).Initialize(true).Dark)
	})

	t.Run("absent falls back to system", func(t *testing.T) {
		m := NewManager(NewMemoryStore())
		assert.True(t, m.Initialize(true).Dark)
		assert.False(t, m.Initialize(false).Dark)
	})

	t.Run("malformed treated as absent", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(Key, "yes please"))
		assert.True(t, NewManager(store).Initialize(true).Dark)
	})

	t.Run("store error treated as absent", func(t *testing.T) {
		assert.True(t, NewManager(brokenStore{}).Initialize(true).Dark)
	})
}

func TestInitializeFromSystemThenPersist(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store)

	s := m.Initialize(true)
	require.True(t, s.Dark)
	require.NoError(t, m.Persist(s))

	v, ok, err := store.Load(Key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestToggleEvenCountRestores(t *testing.T) {
	for _, initial := range []bool{false, true} {
		store := NewMemoryStore()
		m := NewManager(store)
		s := State{Dark: initial}
		for i := 0; i < 10; i++ {
			var err error
			s, err = m.Toggle(s)
			require.NoError(t, err)

			v, _, _ := store.Load(Key)
			assert.Equal(t, s.Encode(), v, "persisted value in sync after toggle %d", i+1)
		}
		assert.Equal(t, initial, s.Dark)
		assert.Equal(t, 10, store.Writes())
	}
}

func TestToggleWriteFailureKeepsState(t *testing.T) {
	m := NewManager(&failingStore{})
	s, err := m.Toggle(State{Dark: false})
	assert.Error(t, err)
	assert.False(t, s.Dark)
}

func TestStateMarkers(t *testing.T) {
	assert.Equal(t, "dark", State{Dark: true}.Class())
	assert.Equal(t, "", State{}.Class())
	assert.Equal(t, "light", State{}.String())
	assert.Equal(t, "false", State{}.Encode())

	_, err := Parse("TRUE")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.yml")
	store := NewFileStore(path)

	_, ok, err := store.Load(Key)
	require.NoError(t, err)
	assert.False(t, ok)

	m := NewManager(store)
	s, err := m.Toggle(m.Initialize(false))
	require.NoError(t, err)
	assert.True(t, s.Dark)

	// A fresh store over the same file sees the choice.
	again := NewManager(NewFileStore(path)).Initialize(false)
	assert.True(t, again.Dark)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yml")
	require.NoError(t, os.WriteFile(path, []byte(":\n - [broken"), 0o644))

	store := NewFileStore(path)
	m := NewManager(store)
	assert.True(t, m.Initialize(true).Dark)

	require.NoError(t, store.Save(Key, "false"))
	assert.False(t, m.Initialize(true).Dark)
}
