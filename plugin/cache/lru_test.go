package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLRU(capacity int, ttl time.Duration) (*LRU, *fakeClock) {
	clock := &fakeClock{t: time.Date(2014, 5, 17, 8, 30, 0, 0, time.UTC)}
	c := NewLRU(capacity, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRU_BasicOperations(t *testing.T) {
	c, _ := newTestLRU(10, time.Minute)

	t.Run("SetAndGet", func(t *testing.T) {
		c.Set("a", []byte("1"), 0)
		v, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, []byte("1"), v)
	})

	t.Run("Missing", func(t *testing.T) {
		v, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("Overwrite", func(t *testing.T) {
		c.Set("b", []byte("old"), 0)
		c.Set("b", []byte("new"), 0)
		v, ok := c.Get("b")
		require.True(t, ok)
		assert.Equal(t, []byte("new"), v)
		assert.Equal(t, 2, c.Len())
	})
}

func TestLRU_Expiration(t *testing.T) {
	c, clock := newTestLRU(10, time.Minute)
	c.Set("short", []byte("x"), time.Second)
	c.Set("long", []byte("y"), 0)

	clock.advance(2 * time.Second)
	_, ok := c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("long")
	assert.True(t, ok)

	clock.advance(time.Minute)
	assert.Equal(t, 1, c.RemoveExpired())
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Eviction(t *testing.T) {
	c, _ := newTestLRU(3, time.Minute)
	c.Set("k1", []byte("1"), 0)
	c.Set("k2", []byte("2"), 0)
	c.Set("k3", []byte("3"), 0)

	c.Get("k1")
	c.Set("k4", []byte("4"), 0)

	_, ok := c.Get("k2")
	assert.False(t, ok)
	for _, k := range []string{"k1", "k3", "k4"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestLRU_Invalidate(t *testing.T) {
	c, _ := newTestLRU(10, time.Minute)
	c.Set("parse:1", nil, 0)
	c.Set("parse:2", nil, 0)
	c.Set("batch:1", nil, 0)

	assert.Equal(t, 1, c.Invalidate("batch:1"))
	assert.Equal(t, 0, c.Invalidate("batch:1"))
	assert.Equal(t, 2, c.Invalidate("parse:*"))
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Stats(t *testing.T) {
	c, _ := newTestLRU(5, time.Minute)
	c.Set("a", []byte("1"), 0)
	c.Get("a")
	c.Get("a")
	c.Get("b")

	assert.Equal(t, Stats{Size: 1, Capacity: 5, Hits: 2, Misses: 1}, c.Stats())

	c.Clear()
	assert.Equal(t, 0, c.Stats().Size)
	assert.Equal(t, uint64(2), c.Stats().Hits)
}

func TestLRU_Defaults(t *testing.T) {
	c := NewLRU(0, 0)
	assert.Equal(t, defaultCapacity, c.capacity)
	assert.Equal(t, defaultTTL, c.defaultTTL)
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU(50, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (i*100+j)%80)
				c.Set(key, []byte(key), 0)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 50)
}

func TestService(t *testing.T) {
	s := NewService(Config{Capacity: 10, TTL: time.Minute, CleanupInterval: 10 * time.Millisecond})
	defer s.Close()

	ctx := context.Background()
	key := Key(Namespace("parse", "plain"), "thứ 7, 26/04/2014", "2014-04-01T00:00:00Z")
	s.Set(ctx, key, []byte(`[]`))

	v, ok := s.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, []byte(`[]`), v)

	assert.Equal(t, 1, s.Invalidate(ctx, "parse:plain:*"))
	_, ok = s.Get(ctx, key)
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	a := Key("parse", "ab", "c")
	b := Key("parse", "a", "bc")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Key("parse", "ab", "c"))
	assert.Contains(t, a, "parse:")
}
