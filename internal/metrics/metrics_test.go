package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	var c Counter

	assert.Equal(t, uint64(0), c.Load())

	c.Inc()
	c.Inc()
	c.Add(3)

	assert.Equal(t, uint64(5), c.Load())
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(5 * time.Millisecond)

	assert.GreaterOrEqual(t, timer.Elapsed(), 5*time.Millisecond)
}
