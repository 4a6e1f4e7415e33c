package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountersSaveQuota(t *testing.T) {
	var c Counters

	assert.True(t, c.TrySave(2))
	assert.True(t, c.TrySave(2))
	assert.False(t, c.TrySave(2), "third save must be refused at target 2")

	assert.Equal(t, 2, c.Saved())
	assert.True(t, c.QuotaMet(2))
	assert.False(t, c.QuotaMet(0), "zero target never reports quota met")
}

func TestCountersUnboundedTarget(t *testing.T) {
	var c Counters
	for i := 0; i < 100; i++ {
		assert.True(t, c.TrySave(0))
	}
	assert.Equal(t, 100, c.Saved())
}

func TestCountersReserveDetail(t *testing.T) {
	var c Counters

	assert.True(t, c.ReserveDetail(2))
	assert.True(t, c.ReserveDetail(2))
	assert.False(t, c.ReserveDetail(2))
	assert.Equal(t, 2, c.EnqueuedDetails())

	// unbounded
	var u Counters
	for i := 0; i < 10; i++ {
		assert.True(t, u.ReserveDetail(0))
	}
}

func TestCountersFailuresCopied(t *testing.T) {
	var c Counters
	c.RecordFailure("https://example.com/job/a-1")
	c.RecordFailure("https://example.com/job/b-2")

	got := c.FailedURLs()
	assert.Equal(t, []string{"https://example.com/job/a-1", "https://example.com/job/b-2"}, got)

	// mutating the copy must not leak back
	got[0] = "clobbered"
	assert.Equal(t, "https://example.com/job/a-1", c.FailedURLs()[0])
}
