package console

import (
	"context"
	"log/slog"
	"testing"

	"github.com/kael-voss/voxelpulse/internal/players"
	"github.com/kael-voss/voxelpulse/internal/scheduler"
)

func TestExecuteStopCancelsAndStopsLoop(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	cancelled := false
	c := New(slog.New(slog.DiscardHandler), players.NewList(), scheduler.New(slog.New(slog.DiscardHandler)), func() {
		cancelled = true
		cancel()
	})

	stop := c.execute("stop")
	if !stop {
		t.Error("expected execute(\"stop\") to report the loop should stop")
	}
	if !cancelled {
		t.Error("expected the cancel func to be invoked")
	}
}

func TestExecutePlayersAndTPSDoNotStop(t *testing.T) {
	c := New(slog.New(slog.DiscardHandler), players.NewList(), scheduler.New(slog.New(slog.DiscardHandler)), func() {})

	if c.execute("players") {
		t.Error("\"players\" should not stop the console loop")
	}
	if c.execute("tps") {
		t.Error("\"tps\" should not stop the console loop")
	}
}

func TestExecuteUnknownCommandDoesNotStop(t *testing.T) {
	c := New(slog.New(slog.DiscardHandler), players.NewList(), scheduler.New(slog.New(slog.DiscardHandler)), func() {})
	if c.execute("frobnicate") {
		t.Error("an unknown command should not stop the console loop")
	}
}
