package jsonfile

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int    `json:"id"`
	Icon string `json:"icon"`
}

func TestRead(t *testing.T) {

	t.Run("should report missing file as not found", func(t *testing.T) {
		f := New(filepath.Join(t.TempDir(), "events.json"))

		items, found, err := Read[[]item](f)

		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, items)
	})

	t.Run("should treat empty document as not found", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "events.json")
		require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

		_, found, err := Read[[]item](New(path))

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("should fail on corrupted document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "events.json")
		require.NoError(t, os.WriteFile(path, []byte("[{"), 0o644))

		_, _, err := Read[[]item](New(path))

		assert.Error(t, err)
	})
}

func TestUpdate(t *testing.T) {

	t.Run("should write document readable by Read", func(t *testing.T) {
		f := New(filepath.Join(t.TempDir(), "events.json"))

		err := Update(f, func(current *[]item) error {
			*current = append(*current, item{ID: 1, Icon: "🍼"})
			return nil
		})
		require.NoError(t, err)

		items, found, err := Read[[]item](f)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []item{{ID: 1, Icon: "🍼"}}, items)

		raw, err := os.ReadFile(f.Path())
		require.NoError(t, err)
		assert.Contains(t, string(raw), "🍼")
	})

	t.Run("should leave document untouched when callback fails", func(t *testing.T) {
		f := New(filepath.Join(t.TempDir(), "events.json"))
		require.NoError(t, Update(f, func(current *[]item) error {
			*current = []item{{ID: 1}}
			return nil
		}))

		err := Update(f, func(current *[]item) error {
			*current = nil
			return errors.New("rejected")
		})
		assert.Error(t, err)

		items, _, err := Read[[]item](f)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("should serialise concurrent updates", func(t *testing.T) {
		f := New(filepath.Join(t.TempDir(), "events.json"))
		var wg sync.WaitGroup
		for i := 1; i <= 20; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				assert.NoError(t, Update(f, func(current *[]item) error {
					*current = append(*current, item{ID: id})
					return nil
				}))
			}(i)
		}
		wg.Wait()

		items, _, err := Read[[]item](f)
		require.NoError(t, err)
		assert.Len(t, items, 20)
	})
}
