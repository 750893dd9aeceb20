package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestCache(maxSize int, ttl time.Duration) (*LRUCache[string], *time.Time) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](maxSize, ttl)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Hour)
	c.Set("pdf|2024-01", "a")
	c.Set("pdf|2024-02", "b")

	_, ok := c.Get("pdf|2024-01")
	assert.True(t, ok)

	c.Set("pdf|2024-03", "c")
	_, ok = c.Get("pdf|2024-02")
	assert.False(t, ok, "least recently used entry should be evicted")
	assert.Equal(t, 2, c.Size())
}

func TestLRUExpiry(t *testing.T) {
	c, now := newTestCache(10, time.Minute)
	c.Set("a", "1")
	c.Set("b", "2")

	*now = now.Add(30 * time.Second)
	c.Set("b", "3")

	*now = now.Add(45 * time.Second)
	_, ok := c.Get("a")
	assert.False(t, ok)

	v, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	*now = now.Add(time.Hour)
	assert.Equal(t, 1, c.CleanExpired())
	assert.Zero(t, c.Size())
}

func TestLRUDeleteAndPurge(t *testing.T) {
	c, _ := newTestCache(10, time.Hour)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Delete("a")
	assert.Equal(t, 1, c.Size())

	c.Purge()
	assert.Zero(t, c.Size())
	c.Set("c", "3")
	assert.Equal(t, 1, c.Size())
}

func TestManagerSweep(t *testing.T) {
	c, now := newTestCache(10, time.Minute)
	c.Set("a", "1")
	*now = now.Add(2 * time.Minute)

	var reported int
	m := NewManager(func(n int) { reported = n })
	m.Register(c)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, reported)

	m.StartCleanup(time.Hour)
	m.Stop(true)
	m.Stop(true)
}
