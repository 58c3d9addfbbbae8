package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSourceLimiter_ReusesLimiter(t *testing.T) {
	l := NewSourceLimiter(10, 1)
	assert.Same(t, l.Limiter("timetable"), l.Limiter("timetable"))
	assert.NotSame(t, l.Limiter("timetable"), l.Limiter("countries"))
}

func TestSourceLimiter_WaitHonoursContext(t *testing.T) {
	l := NewSourceLimiter(0.001, 1)
	ctx := context.Background()

	assert.NoError(t, l.Wait(ctx, "timetable"))

	ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.Error(t, l.Wait(ctx, "timetable"))
}

func TestSourceLimiter_SetLimit(t *testing.T) {
	l := NewSourceLimiter(1, 1)
	l.SetLimit("fake", 100, 50)
	assert.Equal(t, 50, l.Limiter("fake").Burst())
	assert.Equal(t, 1, l.Limiter("timetable").Burst())

	l.SetLimit("timetable", 0.001, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, l.Wait(ctx, "timetable"))
	assert.Error(t, l.Wait(ctx, "timetable"))
}
