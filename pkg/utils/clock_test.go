package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	assert.Equal(t, start, clock.Now())
	clock.Advance(90 * time.Second)
	assert.Equal(t, 90*time.Second, clock.Since(start))
}

func TestRealClock(t *testing.T) {
	clock := NewRealClock()
	before := clock.Now()
	assert.GreaterOrEqual(t, clock.Since(before), time.Duration(0))
}
