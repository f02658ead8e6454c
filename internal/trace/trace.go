// Package trace runs scripted modal lifecycles on a virtual clock and records
// every state change, so lifecycle behavior can be inspected without a terminal.
package trace

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"charm.land/log/v2"
	"golang.org/x/sync/errgroup"

	"github.com/yeeaiclub/fastoverlay"
	"github.com/yeeaiclub/fastoverlay/terminal"
)

var ErrUnknownScenario = errors.New("unknown scenario")

// Event is one recorded state change.
type Event struct {
	At    time.Duration
	Modal string
	From  fastoverlay.State
	To    fastoverlay.State
	Note  string
}

type Result struct {
	Scenario string
	Events   []Event
}

// Recorder is handed to a scenario to drive and observe its modals.
type Recorder struct {
	Host      *fastoverlay.Host
	Scheduler *fastoverlay.ManualScheduler
	Input     *terminal.StdinBuffer

	opts   []fastoverlay.Option
	events []Event
}

// Open creates a modal named name whose hide requests hide it.
func (r *Recorder) Open(name string, opts ...fastoverlay.Option) *fastoverlay.Modal {
	var m *fastoverlay.Modal
	all := slices.Clone(r.opts)
	all = append(all,
		fastoverlay.WithOnStateChange(func(from, to fastoverlay.State) {
			r.events = append(r.events, Event{At: r.Scheduler.Now(), Modal: name, From: from, To: to})
		}),
		fastoverlay.WithOnHide(func() {
			r.Note(name, "hide requested")
			m.Hide()
		}),
	)
	all = append(all, opts...)
	m = r.Host.NewModal(fastoverlay.NewText(name+"-content", name), all...)
	return m
}

// Note records a free-form marker at the current virtual time.
func (r *Recorder) Note(modal, note string) {
	r.events = append(r.events, Event{At: r.Scheduler.Now(), Modal: modal, Note: note})
}

// Type feeds raw terminal input through the input splitter.
func (r *Recorder) Type(data string) {
	r.Input.Process(data)
	r.Input.Flush()
}

type Scenario struct {
	Name        string
	Description string
	Run         func(r *Recorder)
}

// Scenarios returns the built-in scenarios in display order.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:        "nested",
			Description: "two stacked modals closed by escape, top first",
			Run: func(r *Recorder) {
				a := r.Open("a")
				a.Show()
				r.Scheduler.Advance(fastoverlay.DefaultTransitionTimeout)
				b := r.Open("b")
				b.Show()
				r.Scheduler.Advance(fastoverlay.DefaultTransitionTimeout)
				r.Type("\x1b")
				r.Scheduler.Advance(fastoverlay.DefaultTransitionTimeout)
				r.Type("\x1b[27u")
				r.Scheduler.Advance(fastoverlay.DefaultTransitionTimeout)
			},
		},
		{
			Name:        "rapid",
			Description: "show, hide and show again before the first entry completes",
			Run: func(r *Recorder) {
				m := r.Open("m")
				m.Show()
				r.Scheduler.Advance(100 * time.Millisecond)
				m.Hide()
				r.Scheduler.Advance(100 * time.Millisecond)
				m.Show()
				r.Scheduler.Advance(time.Second)
			},
		},
		{
			Name:        "static",
			Description: "static backdrop absorbs clicks, escape still closes",
			Run: func(r *Recorder) {
				m := r.Open("m",
					fastoverlay.WithBackdrop(fastoverlay.BackdropStatic),
					fastoverlay.WithOnBackdropClick(func() { r.Note("m", "backdrop clicked") }),
				)
				m.Show()
				m.NotifyTransitionEnd()
				m.ActivateBackdrop()
				r.Scheduler.Advance(time.Second)
				r.Type("\x1b")
				m.NotifyTransitionEnd()
			},
		},
		{
			Name:        "unmount",
			Description: "unmount when hidden through a full cycle",
			Run: func(r *Recorder) {
				m := r.Open("m", fastoverlay.WithUnmountWhenHidden(true))
				m.Show()
				r.Scheduler.Advance(fastoverlay.DefaultTransitionTimeout)
				m.Hide()
				r.Scheduler.Advance(fastoverlay.DefaultTransitionTimeout)
			},
		},
		{
			Name:        "destroy",
			Description: "destroyed while entering, the pending completion never fires",
			Run: func(r *Recorder) {
				m := r.Open("m")
				m.Show()
				r.Scheduler.Advance(100 * time.Millisecond)
				m.Destroy()
				r.Note("m", "destroyed")
				r.Scheduler.Advance(time.Second)
			},
		},
	}
}

// Names lists the built-in scenario names.
func Names() []string {
	var names []string
	for _, s := range Scenarios() {
		names = append(names, s.Name)
	}
	return names
}

// Run runs one scenario on a fresh host.
func Run(s Scenario, logger *log.Logger, opts ...fastoverlay.Option) Result {
	scheduler := fastoverlay.NewManualScheduler()
	host := fastoverlay.NewHost(
		fastoverlay.WithScheduler(scheduler),
		fastoverlay.WithHostLogger(logger),
	)
	defer host.Close()

	r := &Recorder{
		Host:      host,
		Scheduler: scheduler,
		Input:     terminal.NewStdinBuffer(host.HandleInput),
		opts:      opts,
	}
	s.Run(r)
	return Result{Scenario: s.Name, Events: r.events}
}

// RunAll runs the named scenarios concurrently, each on its own host. An
// empty names list runs every scenario. Results keep the requested order.
func RunAll(ctx context.Context, names []string, logger *log.Logger, opts ...fastoverlay.Option) ([]Result, error) {
	if logger == nil {
		logger = log.Default()
	}
	all := Scenarios()
	if len(names) == 0 {
		names = Names()
	}

	selected := make([]Scenario, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(all, func(s Scenario) bool { return s.Name == name })
		if i == -1 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
		}
		selected = append(selected, all[i])
	}

	results := make([]Result, len(selected))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range selected {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = Run(s, logger.With("scenario", s.Name), opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Transitions returns only the state changes of res, ordered by time.
func (res Result) Transitions() []Event {
	var out []Event
	for _, e := range res.Events {
		if e.Note == "" {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}
