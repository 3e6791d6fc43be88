package scheduler

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestRunExecutesSystemsInDeclaredOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(discardLogger())

	var order []string
	s.Register("a", func(context.Context) error { order = append(order, "a"); return nil })
	s.Register("b", func(context.Context) error { order = append(order, "b"); return nil })
	s.Register("c", func(context.Context) error {
		order = append(order, "c")
		if s.Tick() >= 2 {
			cancel()
		}
		return nil
	})

	s.Run(ctx)

	want := []string{"a", "b", "c", "a", "b", "c", "a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("got %d system invocations, want %d: %v", len(order), len(want), order)
	}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("invocation %d = %q, want %q", i, order[i], name)
		}
	}
}

func TestRunOverrunSkipsSleepAndLogsNoDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(discardLogger())

	var times []time.Time
	tick := 0
	s.Register("probe", func(context.Context) error {
		times = append(times, time.Now())
		tick++
		if tick == 1 {
			time.Sleep(80 * time.Millisecond)
		}
		if tick >= 3 {
			cancel()
		}
		return nil
	})

	s.Run(ctx)

	if len(times) < 3 {
		t.Fatalf("expected at least 3 ticks, got %d", len(times))
	}

	overrunGap := times[1].Sub(times[0])
	if overrunGap < 80*time.Millisecond || overrunGap > 110*time.Millisecond {
		t.Errorf("expected the tick after an overrun to start immediately (~80ms gap), got %v", overrunGap)
	}
}

func TestRunTeardownRunsOnceOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(discardLogger())
	var ran int
	s.RegisterTeardown(func() { ran++ })
	s.RegisterTeardown(func() { ran++ })

	s.Run(ctx)

	if ran != 2 {
		t.Errorf("teardown hooks ran %d times, want 2", ran)
	}
}
