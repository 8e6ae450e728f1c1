package debug

import (
	"testing"
	"time"

	"github.com/sexprlang/sexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineDisabledNeverPauses(t *testing.T) {
	e := New()
	node := sexpr.NewList(sexpr.NewAtom(int64(1)))
	e.Breakpoints().Set(node, nil)
	assert.False(t, e.OnEval(nil, node), "a disabled engine must not pause even with a matching breakpoint")
}

func TestEngineBreakpointPauses(t *testing.T) {
	e := New()
	e.Enable()
	node := sexpr.NewList(sexpr.NewAtom(int64(1)))
	e.Breakpoints().Set(node, nil)
	assert.True(t, e.OnEval(nil, node))

	other := sexpr.NewList(sexpr.NewAtom(int64(2)))
	assert.False(t, e.OnEval(nil, other))
}

func TestEngineStopOnEntryFiresOnce(t *testing.T) {
	e := New(WithStopOnEntry())
	e.Enable()
	first := sexpr.NewList(sexpr.NewAtom(int64(1)))
	second := sexpr.NewList(sexpr.NewAtom(int64(2)))
	assert.True(t, e.OnEval(nil, first), "stop-on-entry must fire on the first evaluation")
	assert.False(t, e.OnEval(nil, second), "stop-on-entry must not fire again")
}

func TestEngineWaitIfPausedBlocksUntilResume(t *testing.T) {
	e := New()
	e.Enable()

	var events []EventType
	e.onEvent = func(ev Event) { events = append(events, ev.Type) }

	node := sexpr.NewList(sexpr.NewAtom(int64(1)))
	done := make(chan sexpr.DebugAction, 1)
	go func() {
		done <- e.WaitIfPaused(nil, node)
	}()

	select {
	case <-done:
		t.Fatal("WaitIfPaused returned before Resume was called")
	case <-time.After(20 * time.Millisecond):
	}

	e.Resume(sexpr.DebugContinue)
	select {
	case action := <-done:
		assert.Equal(t, sexpr.DebugContinue, action)
	case <-time.After(time.Second):
		t.Fatal("WaitIfPaused never returned after Resume")
	}

	require.Len(t, events, 2)
	assert.Equal(t, EventStopped, events[0])
	assert.Equal(t, EventContinued, events[1])
}

func TestEngineStepOverSkipsNestedCalls(t *testing.T) {
	e := New()
	e.Enable()

	outer := sexpr.NewList(sexpr.NewAtom(int64(1)))
	inner := sexpr.NewList(sexpr.NewAtom(int64(2)))
	sibling := sexpr.NewList(sexpr.NewAtom(int64(3)))

	go func() { e.Resume(sexpr.DebugStepOver) }()
	e.WaitIfPaused(nil, outer)

	e.OnFunEntry(nil, nil, nil)
	assert.False(t, e.OnEval(nil, inner), "step-over must not pause inside a nested call")
	e.OnFunReturn(nil, nil, nil)

	assert.True(t, e.OnEval(nil, sibling), "step-over must pause once back at the original depth")
}

func TestEngineStepOutPausesOnlyAfterReturn(t *testing.T) {
	e := New()
	e.Enable()
	e.OnFunEntry(nil, nil, nil) // depth 1, simulating a call already in progress

	node := sexpr.NewList(sexpr.NewAtom(int64(1)))
	go func() { e.Resume(sexpr.DebugStepOut) }()
	e.WaitIfPaused(nil, node)

	assert.False(t, e.OnEval(nil, node), "still inside the call, step-out must not pause yet")
	e.OnFunReturn(nil, nil, nil) // depth back to 0
	assert.True(t, e.OnEval(nil, node), "step-out pauses once the call has returned")
}

func TestEngineRequestPauseFiresNextEval(t *testing.T) {
	e := New()
	e.Enable()
	node := sexpr.NewList(sexpr.NewAtom(int64(1)))
	assert.False(t, e.OnEval(nil, node))

	e.RequestPause()
	assert.True(t, e.OnEval(nil, node))
}

func TestEnginePausedStateReflectsWaitIfPaused(t *testing.T) {
	e := New()
	e.Enable()
	node := sexpr.NewList(sexpr.NewAtom(int64(1)))

	_, _, paused := e.PausedState()
	assert.False(t, paused)

	go func() { e.Resume(sexpr.DebugContinue) }()
	e.WaitIfPaused(nil, node)

	_, _, paused = e.PausedState()
	assert.False(t, paused, "PausedState must report not-paused once WaitIfPaused has returned")
}

func TestEngineSetEventCallbackAfterConstruction(t *testing.T) {
	e := New()
	var got []EventType
	e.SetEventCallback(func(ev Event) { got = append(got, ev.Type) })
	e.Enable()
	e.Disconnect()
	require.Len(t, got, 1)
	assert.Equal(t, EventExited, got[0])
}

func TestEngineDisconnectNotifiesExited(t *testing.T) {
	var events []EventType
	e := New(WithEventCallback(func(ev Event) { events = append(events, ev.Type) }))
	e.Enable()
	e.Disconnect()
	require.Len(t, events, 1)
	assert.Equal(t, EventExited, events[0])
	assert.False(t, e.IsEnabled())
}
