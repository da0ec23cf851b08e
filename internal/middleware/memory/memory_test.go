package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStorage(t *testing.T) {
	s := NewStorage()

	assert.Nil(t, s.Get("missing"))

	s.Set("key", []byte("content"), time.Minute)
	assert.Equal(t, []byte("content"), s.Get("key"))

	s.Set("key", []byte("updated"), time.Minute)
	assert.Equal(t, []byte("updated"), s.Get("key"))
}

func TestStorage_Expiration(t *testing.T) {
	s := NewStorage()

	s.Set("key", []byte("content"), -time.Second)
	assert.Nil(t, s.Get("key"))
}
