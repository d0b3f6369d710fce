// Package storagetest holds the behaviour every storage.Store backend must
// share. Backend packages call Run from their own tests.
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/attendance-api/internal/storage"
)

// Run exercises store against the Store contract. store must start empty.
func Run(t *testing.T, store storage.Store) {
	t.Helper()

	t.Run("get absent key", func(t *testing.T) {
		v, ok, err := store.Get("missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set("users", `[{"id":"1"}]`))

		v, ok, err := store.Get("users")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":"1"}]`, v)
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, store.Set("attendance_CSE2024_2024-05-01", `{"s1":true,"s2":false}`))
		require.NoError(t, store.Set("attendance_CSE2024_2024-05-01", `{"s1":false}`))

		v, _, err := store.Get("attendance_CSE2024_2024-05-01")
		require.NoError(t, err)
		assert.Equal(t, `{"s1":false}`, v)
	})

	t.Run("keys sorted", func(t *testing.T) {
		require.NoError(t, store.Set("enrollment_b", "{}"))
		require.NoError(t, store.Set("enrollment_a", "{}"))

		keys, err := store.Keys()
		require.NoError(t, err)
		assert.Equal(t, []string{
			"attendance_CSE2024_2024-05-01",
			"enrollment_a",
			"enrollment_b",
			"users",
		}, keys)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, store.Remove("enrollment_a"))
		require.NoError(t, store.Remove("enrollment_a"), "removing an absent key is a no-op")

		_, ok, err := store.Get("enrollment_a")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty value is present", func(t *testing.T) {
		require.NoError(t, store.Set("blank", ""))

		v, ok, err := store.Get("blank")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, v)
	})
}
