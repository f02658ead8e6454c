package fastoverlay

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures callback and state-change order.
type recorder struct {
	events []string
}

func (r *recorder) add(e string) func() {
	return func() { r.events = append(r.events, e) }
}

func (r *recorder) callbacks() TransitionCallbacks {
	return TransitionCallbacks{
		OnEnter:    r.add("enter"),
		OnEntering: r.add("entering"),
		OnEntered:  r.add("entered"),
		OnExit:     r.add("exit"),
		OnExiting:  r.add("exiting"),
		OnExited:   r.add("exited"),
	}
}

func (r *recorder) count(e string) int {
	n := 0
	for _, x := range r.events {
		if x == e {
			n++
		}
	}
	return n
}

func newTestTransition(s Scheduler, visible bool, opts ...TransitionOption) (*Transition, *recorder, *[]string) {
	rec := &recorder{}
	var states []string
	opts = append([]TransitionOption{
		WithCallbacks(rec.callbacks()),
		WithStateListener(func(from, to State) {
			states = append(states, fmt.Sprintf("%s->%s", from, to))
		}),
		WithTransitionLogger(quietLogger()),
	}, opts...)
	return NewTransition(s, visible, opts...), rec, &states
}

func TestTransitionInitialState(t *testing.T) {
	s := NewManualScheduler()
	tests := []struct {
		name    string
		visible bool
		opts    []TransitionOption
		want    State
	}{
		{name: "hidden", want: Exited},
		{name: "hidden and unmounted", opts: []TransitionOption{WithUnmountOnExit(true)}, want: Unmounted},
		{name: "visible", visible: true, want: Entered},
		{name: "visible with appear", visible: true, opts: []TransitionOption{WithAppear(true)}, want: Exited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, rec, _ := newTestTransition(s, tt.visible, tt.opts...)
			assert.Equal(t, tt.want, tr.State())
			assert.Empty(t, rec.events)
		})
	}
}

func TestTransitionEnterCompletesOnTimeout(t *testing.T) {
	s := NewManualScheduler()
	tr, rec, _ := newTestTransition(s, false, WithTimeout(100*time.Millisecond))

	tr.SetVisible(true)
	assert.Equal(t, Entering, tr.State())
	assert.Equal(t, []string{"enter", "entering"}, rec.events)

	s.Advance(99 * time.Millisecond)
	assert.Equal(t, Entering, tr.State())

	s.Advance(time.Millisecond)
	assert.Equal(t, Entered, tr.State())
	assert.Equal(t, []string{"enter", "entering", "entered"}, rec.events)
}

func TestTransitionNotifyCompleteEndsPhaseEarly(t *testing.T) {
	s := NewManualScheduler()
	tr, rec, _ := newTestTransition(s, false)

	tr.SetVisible(true)
	tr.NotifyComplete()
	assert.Equal(t, Entered, tr.State())
	assert.Equal(t, 0, s.Pending())

	s.Advance(time.Second)
	assert.Equal(t, 1, rec.count("entered"))

	tr.NotifyComplete()
	assert.Equal(t, 1, rec.count("entered"), "notice outside a phase is ignored")
}

func TestTransitionZeroTimeoutIsSynchronous(t *testing.T) {
	s := NewManualScheduler()
	tr, rec, _ := newTestTransition(s, false, WithTimeout(0))

	tr.SetVisible(true)
	assert.Equal(t, Entered, tr.State())
	tr.SetVisible(false)
	assert.Equal(t, Exited, tr.State())
	assert.Equal(t, []string{"enter", "entering", "entered", "exit", "exiting", "exited"}, rec.events)
	assert.Equal(t, 0, s.Pending())
}

func TestTransitionRapidToggleHasNoStaleCompletion(t *testing.T) {
	s := NewManualScheduler()
	tr, rec, _ := newTestTransition(s, false)

	tr.SetVisible(true)
	s.Advance(100 * time.Millisecond)
	tr.SetVisible(false)
	assert.Equal(t, Exiting, tr.State())
	s.Advance(100 * time.Millisecond)
	tr.SetVisible(true)
	assert.Equal(t, Entering, tr.State())

	s.Advance(250 * time.Millisecond)
	assert.Equal(t, Entering, tr.State(), "first enter timer was cancelled")
	assert.Equal(t, 0, rec.count("entered"))
	assert.Equal(t, 0, rec.count("exited"))

	s.Advance(50 * time.Millisecond)
	assert.Equal(t, Entered, tr.State())
	assert.Equal(t, 1, rec.count("entered"))

	s.Advance(time.Second)
	assert.Equal(t, 1, rec.count("entered"))
	assert.Equal(t, 0, rec.count("exited"))
}

func TestTransitionUnmountOnExit(t *testing.T) {
	s := NewManualScheduler()
	tr, _, states := newTestTransition(s, false, WithUnmountOnExit(true))
	assert.False(t, tr.Mounted())

	tr.SetVisible(true)
	tr.NotifyComplete()
	tr.SetVisible(false)
	tr.NotifyComplete()

	assert.Equal(t, []string{
		"unmounted->entering",
		"entering->entered",
		"entered->exiting",
		"exiting->exited",
		"exited->unmounted",
	}, *states)
	assert.Equal(t, Unmounted, tr.State())
}

func TestTransitionStaysExitedWithoutUnmount(t *testing.T) {
	s := NewManualScheduler()
	tr, _, _ := newTestTransition(s, true)

	tr.SetVisible(false)
	s.Advance(DefaultTransitionTimeout)
	assert.Equal(t, Exited, tr.State())
	assert.True(t, tr.Mounted())
	assert.False(t, tr.Interactive())
}

func TestTransitionAppearRunsOnMount(t *testing.T) {
	s := NewManualScheduler()
	tr, rec, _ := newTestTransition(s, true, WithAppear(true))

	tr.Mount()
	assert.Equal(t, Entering, tr.State())
	tr.Mount()
	assert.Equal(t, 1, rec.count("enter"))

	s.Advance(DefaultTransitionTimeout)
	assert.Equal(t, Entered, tr.State())
}

func TestTransitionMountWithoutAppearIsNoop(t *testing.T) {
	s := NewManualScheduler()
	tr, rec, _ := newTestTransition(s, true)

	tr.Mount()
	assert.Equal(t, Entered, tr.State())
	assert.Empty(t, rec.events)
}

func TestTransitionDestroyMidEnter(t *testing.T) {
	s := NewManualScheduler()
	tr, rec, _ := newTestTransition(s, false)

	tr.SetVisible(true)
	require.Equal(t, 1, s.Pending())
	tr.Destroy()

	assert.Equal(t, Unmounted, tr.State())
	assert.Equal(t, 0, s.Pending())
	s.Advance(time.Second)
	tr.NotifyComplete()
	tr.SetVisible(false)

	assert.Equal(t, []string{"enter", "entering"}, rec.events)
	assert.Equal(t, Unmounted, tr.State())
}

func TestTransitionCallbackCanRedirect(t *testing.T) {
	s := NewManualScheduler()
	var tr *Transition
	var entered int
	tr = NewTransition(s, false,
		WithTransitionLogger(quietLogger()),
		WithCallbacks(TransitionCallbacks{
			OnEntering: func() { tr.SetVisible(false) },
			OnEntered:  func() { entered++ },
		}),
	)

	tr.SetVisible(true)
	assert.Equal(t, Exiting, tr.State())
	assert.Equal(t, 1, s.Pending())

	s.Advance(DefaultTransitionTimeout)
	assert.Equal(t, Exited, tr.State())
	assert.Equal(t, 0, entered)
}

func TestTransitionHideFromExitedIsNoop(t *testing.T) {
	s := NewManualScheduler()
	tr, rec, _ := newTestTransition(s, false)

	tr.SetVisible(false)
	assert.Equal(t, Exited, tr.State())
	assert.Empty(t, rec.events)
	assert.Equal(t, 0, s.Pending())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "entering", Entering.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestTransitionHideFromOnEnter(t *testing.T) {
	s := NewManualScheduler()
	var tr *Transition
	entered := 0
	tr = NewTransition(s, false,
		WithCallbacks(TransitionCallbacks{
			OnEnter:   func() { tr.SetVisible(false) },
			OnEntered: func() { entered++ },
		}),
		WithTransitionLogger(quietLogger()),
	)

	tr.SetVisible(true)
	assert.False(t, tr.Visible())
	assert.Equal(t, Exited, tr.State())
	assert.Equal(t, 0, s.Pending())

	s.Advance(DefaultTransitionTimeout)
	assert.Equal(t, Exited, tr.State())
	assert.Equal(t, 0, entered)
}

func TestTransitionHideFromOnEnterUnmounts(t *testing.T) {
	s := NewManualScheduler()
	var tr *Transition
	tr = NewTransition(s, false,
		WithUnmountOnExit(true),
		WithCallbacks(TransitionCallbacks{
			OnEnter: func() { tr.SetVisible(false) },
		}),
		WithTransitionLogger(quietLogger()),
	)

	tr.SetVisible(true)
	assert.Equal(t, Unmounted, tr.State())
	assert.False(t, tr.Mounted())
}

func TestTransitionHideFromOnEntering(t *testing.T) {
	s := NewManualScheduler()
	var tr *Transition
	rec := &recorder{}
	cb := rec.callbacks()
	cb.OnEntering = func() {
		rec.events = append(rec.events, "entering")
		tr.SetVisible(false)
	}
	tr = NewTransition(s, false, WithCallbacks(cb), WithTransitionLogger(quietLogger()))

	tr.SetVisible(true)
	assert.Equal(t, Exiting, tr.State())

	s.Advance(DefaultTransitionTimeout)
	assert.Equal(t, Exited, tr.State())
	assert.Equal(t, []string{"enter", "entering", "exit", "exiting", "exited"}, rec.events)
}

func TestTransitionShowFromOnExit(t *testing.T) {
	s := NewManualScheduler()
	var tr *Transition
	reopen := true
	exited := 0
	tr = NewTransition(s, true,
		WithCallbacks(TransitionCallbacks{
			OnExit: func() {
				if reopen {
					reopen = false
					tr.SetVisible(true)
				}
			},
			OnExited: func() { exited++ },
		}),
		WithTransitionLogger(quietLogger()),
	)

	tr.SetVisible(false)
	assert.True(t, tr.Visible())
	assert.Equal(t, Entered, tr.State())
	assert.Equal(t, 0, s.Pending())

	s.Advance(DefaultTransitionTimeout)
	assert.Equal(t, Entered, tr.State())
	assert.Equal(t, 0, exited)

	tr.SetVisible(false)
	assert.Equal(t, Exiting, tr.State())
	s.Advance(DefaultTransitionTimeout)
	assert.Equal(t, Exited, tr.State())
	assert.Equal(t, 1, exited)
}
