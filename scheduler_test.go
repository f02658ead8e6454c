package fastoverlay

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualSchedulerRunsInTimeOrder(t *testing.T) {
	s := NewManualScheduler()
	var got []string
	s.ScheduleAfter(30*time.Millisecond, func() { got = append(got, "c") })
	s.ScheduleAfter(10*time.Millisecond, func() { got = append(got, "a") })
	s.ScheduleAfter(10*time.Millisecond, func() { got = append(got, "b") })

	s.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 20*time.Millisecond, s.Now())
	assert.Equal(t, 1, s.Pending())

	s.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 0, s.Pending())
}

func TestManualSchedulerCancel(t *testing.T) {
	s := NewManualScheduler()
	ran := false
	cancel := s.ScheduleAfter(time.Millisecond, func() { ran = true })
	cancel()
	cancel()

	s.Advance(time.Second)
	assert.False(t, ran)
	assert.Equal(t, 0, s.Pending())
}

func TestManualSchedulerFlushRunsChainedZeroDelay(t *testing.T) {
	s := NewManualScheduler()
	var got []int
	s.ScheduleAfter(0, func() {
		got = append(got, 1)
		s.ScheduleAfter(0, func() { got = append(got, 2) })
	})
	s.ScheduleAfter(time.Millisecond, func() { got = append(got, 3) })

	s.Flush()
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, time.Duration(0), s.Now())
}

func TestManualSchedulerCallbackSeesDueTime(t *testing.T) {
	s := NewManualScheduler()
	var at time.Duration
	s.ScheduleAfter(15*time.Millisecond, func() { at = s.Now() })

	s.Advance(time.Second)
	assert.Equal(t, 15*time.Millisecond, at)
	assert.Equal(t, time.Second, s.Now())
}

func TestEventLoopRunsScheduledCallbacks(t *testing.T) {
	l := NewEventLoop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var got []string
	skipped := l.ScheduleAfter(time.Millisecond, func() { got = append(got, "cancelled") })
	skipped()
	l.ScheduleAfter(5*time.Millisecond, func() { got = append(got, "first") })
	l.ScheduleAfter(20*time.Millisecond, func() {
		got = append(got, "second")
		l.Stop()
	})

	require.NoError(t, l.Run(ctx))
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestEventLoopRunStopsOnContext(t *testing.T) {
	l := NewEventLoop(WithQueueSize(1))
	ctx, cancel := context.WithCancel(context.Background())
	l.Post(cancel)

	assert.ErrorIs(t, l.Run(ctx), context.Canceled)
}

func TestEventLoopDispatcher(t *testing.T) {
	dispatched := make(chan func(), 1)
	l := NewEventLoop(WithDispatcher(func(fn func()) { dispatched <- fn }))

	ran := false
	l.ScheduleAfter(0, func() { ran = true })

	select {
	case fn := <-dispatched:
		fn()
	case <-time.After(5 * time.Second):
		t.Fatal("callback was never dispatched")
	}
	assert.True(t, ran)
}

func TestEventLoopPostAfterStop(t *testing.T) {
	l := NewEventLoop(WithQueueSize(1))
	l.Stop()
	l.Stop()

	done := make(chan struct{})
	go func() {
		l.Post(func() {})
		l.Post(func() {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Post blocked on a stopped loop")
	}
}
