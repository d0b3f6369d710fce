package memory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/aanand-mishra/attendance-api/internal/storage/storagetest"
)

func TestMemoryContract(t *testing.T) {
	storagetest.Run(t, New())
}

func TestMemoryConcurrentWriters(t *testing.T) {
	m := New()

	var g errgroup.Group
	g.SetLimit(8)
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			if err := m.Set(fmt.Sprintf("k%02d", i), "v"); err != nil {
				return err
			}
			_, err := m.Keys()
			return err
		})
	}
	require.NoError(t, g.Wait())

	keys, err := m.Keys()
	require.NoError(t, err)
	assert.Len(t, keys, 20)
}
