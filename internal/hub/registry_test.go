package hub

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return &Client{ID: uuid.NewString()}
}

func TestRegistrySetOnline(t *testing.T) {
	t.Run("first connection returns no previous client", func(t *testing.T) {
		r := NewRegistry()
		c := testClient()

		prev := r.SetOnline(7, c)
		assert.Nil(t, prev)

		got, ok := r.Lookup(7)
		require.True(t, ok)
		assert.Same(t, c, got)
	})

	t.Run("reconnect replaces the mapping and surfaces the old client", func(t *testing.T) {
		r := NewRegistry()
		old := testClient()
		fresh := testClient()

		r.SetOnline(7, old)
		prev := r.SetOnline(7, fresh)
		assert.Same(t, old, prev)

		got, ok := r.Lookup(7)
		require.True(t, ok)
		assert.Same(t, fresh, got)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("re-announcing the same client is not a replacement", func(t *testing.T) {
		r := NewRegistry()
		c := testClient()

		r.SetOnline(7, c)
		prev := r.SetOnline(7, c)
		assert.Nil(t, prev)
	})
}

func TestRegistryRemoveByClient(t *testing.T) {
	t.Run("removes the matching entry", func(t *testing.T) {
		r := NewRegistry()
		c := testClient()
		r.SetOnline(7, c)

		userID, removed := r.RemoveByClient(c)
		assert.True(t, removed)
		assert.Equal(t, int64(7), userID)
		assert.Zero(t, r.Len())
	})

	t.Run("stale handle after a reconnect removes nothing", func(t *testing.T) {
		r := NewRegistry()
		old := testClient()
		fresh := testClient()
		r.SetOnline(7, old)
		r.SetOnline(7, fresh)

		// The old connection's teardown must not knock the user offline.
		_, removed := r.RemoveByClient(old)
		assert.False(t, removed)

		got, ok := r.Lookup(7)
		require.True(t, ok)
		assert.Same(t, fresh, got)
	})

	t.Run("unknown handle is a no-op", func(t *testing.T) {
		r := NewRegistry()
		_, removed := r.RemoveByClient(testClient())
		assert.False(t, removed)
	})
}

func TestRegistrySnapshot(t *testing.T) {
	r := NewRegistry()
	for _, id := range []int64{42, 7, 19} {
		r.SetOnline(id, testClient())
	}

	assert.Equal(t, []int64{7, 19, 42}, r.Snapshot())
	assert.Len(t, r.Entries(), 3)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			c := testClient()
			r.SetOnline(id, c)
			r.Lookup(id)
			r.Snapshot()
			if id%2 == 0 {
				r.RemoveByClient(c)
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 25, r.Len())
}
