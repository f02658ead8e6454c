package fastoverlay

import (
	"time"

	"charm.land/log/v2"
)

// State is the presence state of one overlay.
type State int

const (
	Unmounted State = iota
	Exited
	Entering
	Entered
	Exiting
)

func (s State) String() string {
	switch s {
	case Unmounted:
		return "unmounted"
	case Exited:
		return "exited"
	case Entering:
		return "entering"
	case Entered:
		return "entered"
	case Exiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// TransitionCallbacks fire at phase boundaries. Any of them may be nil.
type TransitionCallbacks struct {
	OnEnter    func()
	OnEntering func()
	OnEntered  func()
	OnExit     func()
	OnExiting  func()
	OnExited   func()
}

const DefaultTransitionTimeout = 300 * time.Millisecond

type pendingPhase struct {
	gen    uint64
	finish func()
	cancel Cancel
}

// Transition drives one overlay through enter and exit phases. A phase ends
// on NotifyComplete or when the timeout elapses, whichever comes first.
type Transition struct {
	scheduler     Scheduler
	timeout       time.Duration
	unmountOnExit bool
	appear        bool
	callbacks     TransitionCallbacks
	onState       func(from, to State)
	logger        *log.Logger

	state        State
	visible      bool
	shown        bool // current or last phase heads toward Entered
	gen          uint64
	pending      *pendingPhase
	appearQueued bool
	destroyed    bool
}

type TransitionOption func(*Transition)

// WithTimeout sets the longest a phase may wait for a completion notice.
// Zero completes every phase synchronously.
func WithTimeout(d time.Duration) TransitionOption {
	return func(t *Transition) {
		t.timeout = max(0, d)
	}
}

func WithUnmountOnExit(enabled bool) TransitionOption {
	return func(t *Transition) {
		t.unmountOnExit = enabled
	}
}

// WithAppear animates the first appearance when created visible.
func WithAppear(enabled bool) TransitionOption {
	return func(t *Transition) {
		t.appear = enabled
	}
}

func WithCallbacks(cb TransitionCallbacks) TransitionOption {
	return func(t *Transition) {
		t.callbacks = cb
	}
}

func WithStateListener(fn func(from, to State)) TransitionOption {
	return func(t *Transition) {
		t.onState = fn
	}
}

func WithTransitionLogger(l *log.Logger) TransitionOption {
	return func(t *Transition) {
		t.logger = l
	}
}

func NewTransition(scheduler Scheduler, visible bool, opts ...TransitionOption) *Transition {
	t := &Transition{
		scheduler: scheduler,
		timeout:   DefaultTransitionTimeout,
		visible:   visible,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = loggerOr(t.logger)

	switch {
	case visible && t.appear:
		t.state = Exited
		t.appearQueued = true
	case visible:
		t.state = Entered
		t.shown = true
	case t.unmountOnExit:
		t.state = Unmounted
	default:
		t.state = Exited
	}
	return t
}

// Mount runs the deferred first-appearance entry, if any.
func (t *Transition) Mount() {
	if !t.appearQueued || t.destroyed {
		return
	}
	t.appearQueued = false
	if t.visible {
		t.enter()
	}
}

func (t *Transition) State() State {
	return t.state
}

func (t *Transition) Visible() bool {
	return t.visible
}

// Mounted reports whether the overlay's nodes should be present at all.
func (t *Transition) Mounted() bool {
	return t.state != Unmounted
}

// Interactive reports whether the overlay is on screen or animating.
func (t *Transition) Interactive() bool {
	return t.state != Unmounted && t.state != Exited
}

// SetVisible is the requested-visibility signal. Flipping it mid-phase
// redirects the machine into the opposite phase immediately.
func (t *Transition) SetVisible(visible bool) {
	if t.destroyed {
		return
	}
	t.visible = visible
	t.appearQueued = false

	if visible != t.shown {
		if visible {
			t.enter()
		} else {
			t.exit()
		}
	}
}

// NotifyComplete reports that the visual layer finished the current phase.
func (t *Transition) NotifyComplete() {
	if t.pending != nil {
		t.complete(t.pending.gen)
	}
}

// Destroy tears the machine down without firing callbacks. Pending
// completions become inert.
func (t *Transition) Destroy() {
	if t.destroyed {
		return
	}
	t.cancelPending()
	t.gen++
	t.shown = false
	t.destroyed = true
	t.setState(Unmounted)
}

func (t *Transition) enter() {
	gen := t.beginPhase()
	t.shown = true
	if t.state == Entered {
		// exit was redirected from its own OnExit
		return
	}
	t.fire(t.callbacks.OnEnter)
	if t.gen != gen {
		return
	}
	t.setState(Entering)
	t.fire(t.callbacks.OnEntering)
	if t.gen != gen {
		return
	}
	t.schedule(gen, func() {
		t.setState(Entered)
		t.fire(t.callbacks.OnEntered)
	})
}

func (t *Transition) exit() {
	gen := t.beginPhase()
	t.shown = false
	if t.state == Exited || t.state == Unmounted {
		// enter was redirected from its own OnEnter
		if t.unmountOnExit {
			t.setState(Unmounted)
		}
		return
	}
	t.fire(t.callbacks.OnExit)
	if t.gen != gen {
		return
	}
	t.setState(Exiting)
	t.fire(t.callbacks.OnExiting)
	if t.gen != gen {
		return
	}
	t.schedule(gen, func() {
		t.setState(Exited)
		t.fire(t.callbacks.OnExited)
		if t.gen == gen && t.unmountOnExit && !t.visible && t.state == Exited {
			t.setState(Unmounted)
		}
	})
}

func (t *Transition) beginPhase() uint64 {
	t.cancelPending()
	t.gen++
	return t.gen
}

func (t *Transition) schedule(gen uint64, finish func()) {
	assertf(t.pending == nil, "phase %d scheduled while phase %d pending", gen, pendingGen(t.pending))
	p := &pendingPhase{gen: gen, finish: finish}
	t.pending = p
	if t.timeout == 0 {
		t.complete(gen)
		return
	}
	p.cancel = t.scheduler.ScheduleAfter(t.timeout, func() {
		t.complete(gen)
	})
}

func (t *Transition) complete(gen uint64) {
	if t.destroyed || t.pending == nil || t.pending.gen != gen || t.gen != gen {
		return
	}
	p := t.pending
	t.pending = nil
	if p.cancel != nil {
		p.cancel()
	}
	p.finish()
}

func (t *Transition) cancelPending() {
	if t.pending == nil {
		return
	}
	if t.pending.cancel != nil {
		t.pending.cancel()
	}
	t.pending = nil
}

func (t *Transition) setState(to State) {
	from := t.state
	if from == to {
		return
	}
	t.state = to
	t.logger.Debug("transition", "from", from, "to", to)
	if t.onState != nil {
		t.onState(from, to)
	}
}

func (t *Transition) fire(fn func()) {
	if fn != nil {
		fn()
	}
}

func pendingGen(p *pendingPhase) uint64 {
	if p == nil {
		return 0
	}
	return p.gen
}
