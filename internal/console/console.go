// Package console is the admin REPL (stop, players, tps) driving the
// same shutdown flag the OS interrupt handler sets, so typing "stop"
// at the console and sending SIGINT behave identically.
package console

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	prompt "github.com/c-bata/go-prompt"

	"github.com/kael-voss/voxelpulse/internal/players"
	"github.com/kael-voss/voxelpulse/internal/scheduler"
)

const promptPrefix = "> "

var commandNames = []string{"stop", "players", "tps"}

// Console is an interactive admin shell over the running server.
type Console struct {
	log    *slog.Logger
	list   *players.List
	sched  *scheduler.Scheduler
	cancel context.CancelFunc

	history []string

	lastTPSCheck time.Time
	lastTicks    uint64
}

// New returns a console bound to list (for "players") and sched (for
// "tps"); cancel is called on "stop" — the same CancelFunc the
// OS interrupt handler cancels on SIGINT/SIGTERM.
func New(log *slog.Logger, list *players.List, sched *scheduler.Scheduler, cancel context.CancelFunc) *Console {
	return &Console{
		log:          log,
		list:         list,
		sched:        sched,
		cancel:       cancel,
		lastTPSCheck: time.Now(),
	}
}

// Run reads and executes commands until ctx is cancelled or "stop" is
// entered.
func (c *Console) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := prompt.Input(promptPrefix, c.complete,
			prompt.OptionTitle("voxelpulse console"),
			prompt.OptionHistory(c.history),
			prompt.OptionPrefix(promptPrefix),
			prompt.OptionCompletionOnDown(),
			prompt.OptionMaxSuggestion(12),
		)

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.history = append(c.history, line)
		if c.execute(line) {
			return
		}
	}
}

// execute runs one command line and reports whether the console loop
// should stop.
func (c *Console) execute(line string) bool {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case "stop":
		c.log.Info("stop requested from console")
		c.cancel()
		return true

	case "players":
		all := c.list.All()
		c.log.Info("connected players", "count", len(all))
		for _, p := range all {
			c.log.Info("player", "name", p.Name, "uuid", p.UUID)
		}

	case "tps":
		now := time.Now()
		ticks := c.sched.Tick()
		elapsed := now.Sub(c.lastTPSCheck).Seconds()
		var tps float64
		if elapsed > 0 {
			tps = float64(ticks-c.lastTicks) / elapsed
		}
		c.log.Info("tps", "ticks_per_second", tps, "total_ticks", ticks)
		c.lastTPSCheck = now
		c.lastTicks = ticks

	default:
		c.log.Info("unknown console command", "input", line)
	}
	return false
}

func (c *Console) complete(doc prompt.Document) []prompt.Suggest {
	word := doc.GetWordBeforeCursor()
	suggestions := make([]prompt.Suggest, 0, len(commandNames))
	for _, name := range commandNames {
		suggestions = append(suggestions, prompt.Suggest{Text: name})
	}
	sort.Slice(suggestions, func(i, j int) bool { return suggestions[i].Text < suggestions[j].Text })
	return prompt.FilterHasPrefix(suggestions, word, true)
}
