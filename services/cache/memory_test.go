package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()

	err := c.Set("key", []byte("value"), time.Minute)
	require.NoError(t, err)

	got, err := c.Get("key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()

	_, err := c.Get("absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()

	err := c.Set("key", []byte("value"), time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = c.Get("key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()

	require.NoError(t, c.Set("key", []byte("value"), 0))
	require.NoError(t, c.Delete("key"))

	_, err := c.Get("key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
