package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestFake_AdvanceDeliversDueTick(t *testing.T) {
	fake := NewFake(start)
	ticker := fake.NewTicker(time.Second)
	defer ticker.Stop()

	received := make(chan time.Time, 1)
	go func() { received <- <-ticker.C() }()

	fake.Advance(time.Second)

	select {
	case tick := <-received:
		require.Equal(t, start.Add(time.Second), tick)
	case <-time.After(time.Second):
		require.Fail(t, "timeout waiting for tick")
	}
}

func TestFake_AdvanceBeforeDueDoesNotTick(t *testing.T) {
	fake := NewFake(start)
	ticker := fake.NewTicker(time.Second)
	defer ticker.Stop()

	fake.Advance(500 * time.Millisecond)

	select {
	case <-ticker.C():
		require.Fail(t, "unexpected tick")
	default:
	}
	require.Equal(t, start.Add(500*time.Millisecond), fake.Now())
}

func TestFake_MissedTicksCoalesce(t *testing.T) {
	fake := NewFake(start)
	ticker := fake.NewTicker(time.Second)
	defer ticker.Stop()

	ticks := make(chan time.Time, 10)
	go func() {
		for tick := range ticker.C() {
			ticks <- tick
		}
	}()

	fake.Advance(10 * time.Second)
	require.Eventually(t, func() bool { return len(ticks) == 1 }, time.Second, 5*time.Millisecond)

	// The next tick is scheduled relative to the coalesced one.
	fake.Advance(500 * time.Millisecond)
	fake.Advance(500 * time.Millisecond)
	require.Eventually(t, func() bool { return len(ticks) == 2 }, time.Second, 5*time.Millisecond)
}

func TestFake_StoppedTickerDoesNotBlockAdvance(t *testing.T) {
	fake := NewFake(start)
	ticker := fake.NewTicker(time.Second)
	require.Equal(t, 1, fake.ActiveTickers())

	ticker.Stop()
	ticker.Stop()
	require.Equal(t, 0, fake.ActiveTickers())

	done := make(chan struct{})
	go func() {
		fake.Advance(5 * time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "Advance blocked on a stopped ticker")
	}
}

func TestSystem_TickerStops(t *testing.T) {
	ticker := System.NewTicker(10 * time.Millisecond)
	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		require.Fail(t, "system ticker never fired")
	}
	ticker.Stop()
	require.WithinDuration(t, time.Now(), System.Now(), time.Second)
}
