package mapsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub(t *testing.T) {
	hub := NewHub()
	s := NewSession("abc", newFakeSource(), time.Millisecond)
	defer s.Close()

	hub.Register(s)
	assert.Equal(t, 1, hub.Len())

	got, err := hub.Get("abc")
	require.NoError(t, err)
	assert.Same(t, s, got)

	// A stale session with the same id does not evict the live one.
	stale := NewSession("abc", newFakeSource(), time.Millisecond)
	defer stale.Close()
	hub.Unregister(stale)
	assert.Equal(t, 1, hub.Len())

	hub.Unregister(s)
	_, err = hub.Get("abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
