package api

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPLimiterIsBounded(t *testing.T) {
	l := newIPLimiter(2, 3)

	first := l.get("10.0.0.1")
	for i := 2; i <= 10; i++ {
		l.get("10.0.0." + strconv.Itoa(i))
	}
	assert.Equal(t, 3, l.limiters.Len())

	// An evicted IP starts over with a fresh bucket
	assert.NotSame(t, first, l.get("10.0.0.1"))
	assert.Equal(t, 3, l.limiters.Len())
}

func TestIPLimiterReusesBucket(t *testing.T) {
	l := newIPLimiter(2, 0)

	a := l.get("192.168.1.1")
	assert.Same(t, a, l.get("192.168.1.1"))
	assert.True(t, a.Allow())
	assert.True(t, a.Allow())
	assert.False(t, l.get("192.168.1.1").Allow())
}
