package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetSetDelete(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Set("site_name", "Business Point"))
	val, err := s.Get("site_name")
	require.NoError(t, err)
	assert.Equal(t, "Business Point", val)

	require.NoError(t, s.Delete("site_name"))
	_, err = s.Get("site_name")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryStore_Flush(t *testing.T) {
	s := NewMemoryStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Set(fmt.Sprintf("k%d", i), i))
	}

	require.NoError(t, s.Flush())
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = s.Set(fmt.Sprintf("k%d", i%5), i)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Get(fmt.Sprintf("k%d", i%5))
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, s.Len(), 5)
}
