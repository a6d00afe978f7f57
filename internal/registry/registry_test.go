package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/sockreactor/api"
)

func TestAddRespectsLimit(t *testing.T) {
	r := New(2)
	h1, ok := r.Add(10)
	require.True(t, ok)
	h2, ok := r.Add(11)
	require.True(t, ok)
	assert.NotEqual(t, h1, h2)
	assert.True(t, r.Full())

	_, ok = r.Add(12)
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []api.Handle{h1, h2}, r.Snapshot())
}

func TestAddRejectsDuplicateFD(t *testing.T) {
	r := New(4)
	_, ok := r.Add(7)
	require.True(t, ok)
	_, ok = r.Add(7)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := New(2)
	h, _ := r.Add(5)

	fd, ok := r.Remove(h)
	require.True(t, ok)
	assert.Equal(t, 5, fd)
	assert.False(t, r.Contains(h))

	_, ok = r.Remove(h)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestHandlesAreNotReusedWithFD(t *testing.T) {
	r := New(1)
	h1, _ := r.Add(9)
	r.Remove(h1)
	h2, ok := r.Add(9)
	require.True(t, ok)
	assert.NotEqual(t, h1, h2)

	got, ok := r.Handle(9)
	require.True(t, ok)
	assert.Equal(t, h2, got)
	fd, ok := r.FD(h2)
	require.True(t, ok)
	assert.Equal(t, 9, fd)
}

func TestSnapshotIsACopy(t *testing.T) {
	r := New(3)
	h1, _ := r.Add(1)
	h2, _ := r.Add(2)
	h3, _ := r.Add(3)

	snap := r.Snapshot()
	r.Remove(h2)
	assert.Equal(t, []api.Handle{h1, h2, h3}, snap)
	assert.Equal(t, []api.Handle{h1, h3}, r.Snapshot())
}
