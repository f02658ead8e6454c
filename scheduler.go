package fastoverlay

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Cancel invalidates a scheduled callback. Calling it more than once is safe.
type Cancel func()

// Scheduler is the timer collaborator. Callbacks always run on the thread
// that drives the overlay engine, never concurrently with each other.
type Scheduler interface {
	ScheduleAfter(d time.Duration, fn func()) Cancel
}

// EventLoop runs posted callbacks one at a time on a single consumer.
type EventLoop struct {
	queue    chan func()
	dispatch func(func())
	stopOnce sync.Once
	done     chan struct{}
}

type EventLoopOption func(*EventLoop)

// WithDispatcher hands callbacks to an external thread owner (for example a
// bubbletea program) instead of the loop's own queue.
func WithDispatcher(dispatch func(func())) EventLoopOption {
	return func(l *EventLoop) {
		l.dispatch = dispatch
	}
}

func WithQueueSize(n int) EventLoopOption {
	return func(l *EventLoop) {
		l.queue = make(chan func(), max(1, n))
	}
}

func NewEventLoop(opts ...EventLoopOption) *EventLoop {
	l := &EventLoop{
		queue: make(chan func(), 64),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post enqueues fn to run on the loop.
func (l *EventLoop) Post(fn func()) {
	if l.dispatch != nil {
		l.dispatch(fn)
		return
	}
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

func (l *EventLoop) ScheduleAfter(d time.Duration, fn func()) Cancel {
	var cancelled atomic.Bool
	timer := time.AfterFunc(max(0, d), func() {
		l.Post(func() {
			if cancelled.Load() {
				return
			}
			fn()
		})
	})
	return func() {
		cancelled.Store(true)
		timer.Stop()
	}
}

// Run processes callbacks until ctx is done or Stop is called.
func (l *EventLoop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *EventLoop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)
	})
}

type manualTask struct {
	id        uint64
	due       time.Duration
	fn        func()
	cancelled bool
}

// ManualScheduler is a virtual clock. Nothing runs until Advance or Flush.
type ManualScheduler struct {
	now    time.Duration
	nextID uint64
	tasks  []*manualTask
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) ScheduleAfter(d time.Duration, fn func()) Cancel {
	s.nextID++
	t := &manualTask{id: s.nextID, due: s.now + max(0, d), fn: fn}
	s.tasks = append(s.tasks, t)
	return func() {
		t.cancelled = true
	}
}

// Now returns the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of live scheduled callbacks.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Flush runs every callback that is due at the current time, including ones
// scheduled with zero delay while flushing.
func (s *ManualScheduler) Flush() {
	s.runUntil(s.now)
}

// Advance moves the clock forward by d, running due callbacks in time order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.runUntil(s.now + d)
}

func (s *ManualScheduler) runUntil(target time.Duration) {
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = max(s.now, t.due)
		t.fn()
	}
	s.now = target
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualTask {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	s.tasks = live
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].due != s.tasks[j].due {
			return s.tasks[i].due < s.tasks[j].due
		}
		return s.tasks[i].id < s.tasks[j].id
	})
	if len(s.tasks) == 0 || s.tasks[0].due > target {
		return nil
	}
	t := s.tasks[0]
	s.tasks = s.tasks[1:]
	return t
}
