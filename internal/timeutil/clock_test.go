package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRealClock(t *testing.T) {
	before := time.Now()
	got := RealClock{}.Now()
	assert.False(t, got.Before(before))
}

func TestMockClock(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	assert.Equal(t, start, c.Now())

	c.Advance(100 * time.Millisecond)
	assert.Equal(t, start.Add(100*time.Millisecond), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

var _ Clock = RealClock{}
var _ Clock = (*MockClock)(nil)
