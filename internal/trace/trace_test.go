package trace

import (
	"context"
	"io"
	"testing"
	"time"

	"charm.land/log/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeeaiclub/fastoverlay"
)

func quiet() *log.Logger {
	return log.New(io.Discard)
}

func scenario(t *testing.T, name string) Scenario {
	t.Helper()
	for _, s := range Scenarios() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no scenario %q", name)
	return Scenario{}
}

func states(events []Event, modal string) []fastoverlay.State {
	var out []fastoverlay.State
	for _, e := range events {
		if e.Modal == modal && e.Note == "" {
			out = append(out, e.To)
		}
	}
	return out
}

func notes(events []Event) []string {
	var out []string
	for _, e := range events {
		if e.Note != "" {
			out = append(out, e.Modal+": "+e.Note)
		}
	}
	return out
}

func TestNestedScenarioClosesTopFirst(t *testing.T) {
	res := Run(scenario(t, "nested"), quiet())

	assert.Equal(t, []string{"b: hide requested", "a: hide requested"}, notes(res.Events))
	full := []fastoverlay.State{fastoverlay.Entering, fastoverlay.Entered, fastoverlay.Exiting, fastoverlay.Exited}
	assert.Equal(t, full, states(res.Events, "a"))
	assert.Equal(t, full, states(res.Events, "b"))

	bExited, aExiting := -1, -1
	for i, e := range res.Events {
		switch {
		case e.Modal == "b" && e.Note == "" && e.To == fastoverlay.Exited:
			bExited = i
		case e.Modal == "a" && e.Note == "" && e.To == fastoverlay.Exiting:
			aExiting = i
		}
	}
	require.NotEqual(t, -1, bExited)
	assert.Less(t, bExited, aExiting)
}

func TestRapidScenarioEntersOnce(t *testing.T) {
	res := Run(scenario(t, "rapid"), quiet())

	assert.Equal(t, []fastoverlay.State{
		fastoverlay.Entering,
		fastoverlay.Exiting,
		fastoverlay.Entering,
		fastoverlay.Entered,
	}, states(res.Events, "m"))
	last := res.Transitions()[len(res.Transitions())-1]
	assert.Equal(t, 500*time.Millisecond, last.At)
}

func TestStaticScenario(t *testing.T) {
	res := Run(scenario(t, "static"), quiet())

	assert.Equal(t, []string{"m: backdrop clicked", "m: hide requested"}, notes(res.Events))
	assert.Equal(t, fastoverlay.Exited, res.Transitions()[len(res.Transitions())-1].To)
}

func TestUnmountScenario(t *testing.T) {
	res := Run(scenario(t, "unmount"), quiet())

	assert.Equal(t, []fastoverlay.State{
		fastoverlay.Entering,
		fastoverlay.Entered,
		fastoverlay.Exiting,
		fastoverlay.Exited,
		fastoverlay.Unmounted,
	}, states(res.Events, "m"))
}

func TestDestroyScenario(t *testing.T) {
	res := Run(scenario(t, "destroy"), quiet())

	assert.Equal(t, []fastoverlay.State{fastoverlay.Entering, fastoverlay.Unmounted}, states(res.Events, "m"))
	assert.NotContains(t, states(res.Events, "m"), fastoverlay.Entered)
}

func TestRunAll(t *testing.T) {
	results, err := RunAll(context.Background(), nil, quiet())
	require.NoError(t, err)
	require.Len(t, results, len(Scenarios()))
	for i, name := range Names() {
		assert.Equal(t, name, results[i].Scenario)
		assert.NotEmpty(t, results[i].Events)
	}

	results, err = RunAll(context.Background(), []string{"static", "rapid"}, quiet())
	require.NoError(t, err)
	assert.Equal(t, "static", results[0].Scenario)
	assert.Equal(t, "rapid", results[1].Scenario)
}

func TestRunAllUnknownScenario(t *testing.T) {
	_, err := RunAll(context.Background(), []string{"nope"}, quiet())
	assert.ErrorIs(t, err, ErrUnknownScenario)
}

func TestRunAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunAll(ctx, nil, quiet())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunWithZeroTimeout(t *testing.T) {
	res := Run(scenario(t, "rapid"), quiet(), fastoverlay.WithMaxTransitionTimeout(0))
	for _, e := range res.Transitions() {
		assert.Equal(t, time.Duration(0), e.At%(100*time.Millisecond))
	}
	assert.Equal(t, fastoverlay.Entered, res.Transitions()[len(res.Transitions())-1].To)
}
