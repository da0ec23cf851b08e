package rediscache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) (*Storage, *miniredis.Miniredis) {
	m, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	return NewStorage(redis.NewClient(&redis.Options{Addr: m.Addr()})), m
}

func TestStorage(t *testing.T) {
	s, m := newTestStorage(t)

	assert.Nil(t, s.Get("missing"))

	s.Set("key", []byte("content"), time.Minute)
	assert.Equal(t, []byte("content"), s.Get("key"))

	// Keys are namespaced so several services can share one redis.
	assert.True(t, m.Exists("ambrosia:cache:key"))
}

func TestStorage_Expiration(t *testing.T) {
	s, m := newTestStorage(t)

	s.Set("key", []byte("content"), time.Minute)
	m.FastForward(2 * time.Minute)

	assert.Nil(t, s.Get("key"))
}

func TestStorage_DegradesOnFailure(t *testing.T) {
	s, m := newTestStorage(t)

	s.Set("key", []byte("content"), time.Minute)
	m.Close()

	assert.Nil(t, s.Get("key"))
	assert.NotPanics(t, func() {
		s.Set("key", []byte("content"), time.Minute)
	})
}
