// Package netio runs the two async per-connection tasks — reader and
// writer — that bridge a raw net.Conn to a conn.PlayerSide once a
// connection has completed the handshake/login driver and entered
// Play state (spec component B's network half).
package netio

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kael-voss/voxelpulse/internal/conn"
	"github.com/kael-voss/voxelpulse/pkg/protocol"
)

// RunPlayLoop starts the reader and writer tasks for a connection that
// has entered Play state and blocks until both exit. The pair is
// supervised by an errgroup rather than a pair of raw goroutines, so a
// panic or error in either task is captured the same way the tick
// scheduler supervises its own background work. Exactly one task
// exits first — on an I/O error or channel closure — and that closes
// the PlayerSide, which makes the other follow.
//
// writeTimeout bounds how long the writer may block on a single
// write/flush before it gives up on a stalled client and closes the
// connection; a client that stops reading would otherwise let the
// writer block forever while the player's outbound queue keeps growing.
func RunPlayLoop(c net.Conn, player *conn.PlayerSide, writeTimeout time.Duration, log *slog.Logger) {
	var g errgroup.Group

	g.Go(func() error {
		runReader(c, player, log)
		player.Close()
		return nil
	})
	g.Go(func() error {
		runWriter(c, player, writeTimeout, log)
		player.Close()
		c.Close() // unblocks the reader's pending socket read
		return nil
	})

	_ = g.Wait()
	c.Close()
}

func runReader(c net.Conn, player *conn.PlayerSide, log *slog.Logger) {
	r := bufio.NewReader(c)
	for {
		pkt, err := protocol.ReadAny(r)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("play read failed", "error", err)
			}
			return
		}
		if err := player.DeliverInbound(pkt); err != nil {
			log.Warn("disconnecting client", "reason", err)
			return
		}
	}
}

func runWriter(c net.Conn, player *conn.PlayerSide, writeTimeout time.Duration, log *slog.Logger) {
	w := bufio.NewWriter(c)
	for {
		pkt, ok := player.NextOutbound()
		if !ok {
			return
		}
		if writeTimeout > 0 {
			if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
				log.Debug("set write deadline failed", "error", err)
				return
			}
		}
		if err := protocol.WriteFramedPacket(w, pkt); err != nil {
			log.Debug("play write failed", "error", err)
			return
		}
		if err := w.Flush(); err != nil {
			log.Debug("play flush failed", "error", err)
			return
		}
	}
}
