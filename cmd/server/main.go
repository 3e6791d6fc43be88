// Command server runs the voxelpulse game server: it loads
// configuration, opens the world store, and drives the accept loop
// and tick scheduler until SIGINT/SIGTERM or the console's "stop"
// command cancel the shared context.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/kael-voss/voxelpulse/internal/config"
	"github.com/kael-voss/voxelpulse/internal/console"
	"github.com/kael-voss/voxelpulse/internal/server"
	"github.com/kael-voss/voxelpulse/internal/storage"
	"github.com/kael-voss/voxelpulse/pkg/gamedata"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load("config.toml", os.Args[1:])
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.WorldPath)
	if err != nil {
		log.Error("open world store", "error", err)
		os.Exit(1)
	}

	gd := gamedata.MustLoad("minimal")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(cfg, log, store, gd)

	go console.New(log, srv.Players(), srv.Scheduler(), cancel).Run(ctx)

	var g errgroup.Group
	g.Go(func() error {
		return srv.Start(ctx)
	})
	g.Go(func() error {
		srv.Scheduler().Run(ctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
