package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLimiter(limit int, window time.Duration) (*FixedWindowRateLimiter, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewFixedWindowLimiter(limit, window)
	rl.now = c.now
	return rl, c
}

func TestAllowWithinLimit(t *testing.T) {
	rl, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("10.0.0.1")
		assert.True(t, ok, "request %d", i+1)
	}

	ok, retry := rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)
}

func TestKeysAreIndependent(t *testing.T) {
	rl, _ := newTestLimiter(1, time.Minute)

	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	ok, _ = rl.Allow("a")
	assert.False(t, ok)
	ok, _ = rl.Allow("b")
	assert.True(t, ok)
}

func TestWindowResets(t *testing.T) {
	rl, c := newTestLimiter(1, time.Minute)

	ok, _ := rl.Allow("a")
	assert.True(t, ok)

	c.t = c.t.Add(20 * time.Second)
	ok, retry := rl.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, retry)

	c.t = c.t.Add(40 * time.Second)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)
}

func TestExpiredWindowsAreSwept(t *testing.T) {
	rl, c := newTestLimiter(5, time.Second)

	rl.Allow("a")
	rl.Allow("b")
	assert.Len(t, rl.clients, 2)

	c.t = c.t.Add(2 * time.Second)
	rl.Allow("c")
	assert.Len(t, rl.clients, 1)
}
