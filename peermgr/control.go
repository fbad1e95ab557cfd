package peermgr

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/catid/timesync"
	"github.com/catid/timesync/glue/rwc"
	"github.com/catid/timesync/wire"
)

// Control runs the reliable MinDelta exchange for one peer over a
// websocket connection, the same transport derohe wraps with
// glue/rwc.ReadWriteCloser to adapt a websocket.Conn to an
// io.ReadWriteCloser for its length-prefixed framing. The cadence
// follows spec.md's recommendation: frequent while this side's
// Synchronizer for the peer is not yet synchronized, then backing off
// to a steady-state interval once it is.
type Control struct {
	peer *Peer
	conn *rwc.ReadWriteCloser
}

// NewControl wraps ws for peer's MinDelta exchange.
func NewControl(peer *Peer, ws *websocket.Conn) *Control {
	return &Control{peer: peer, conn: rwc.New(ws)}
}

// Run drives the send and receive loops until ctx is canceled or the
// connection fails. It returns the error that ended the loop, or nil
// if ctx was canceled.
func (c *Control) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() { errCh <- c.sendLoop(ctx) }()
	go func() { errCh <- c.recvLoop(ctx) }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (c *Control) sendLoop(ctx context.Context) error {
	for {
		interval := c.nextInterval()
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}

		msg := wire.MinDeltaMessage{
			MinDeltaTS24:  uint32(c.peer.Sync.GetMinDeltaTS24()),
			SentLocalUsec: uint64(time.Now().UnixMicro()),
		}
		if err := wire.WriteFrame(c.conn, msg); err != nil {
			return fmt.Errorf("peermgr: writing mindelta frame to %s: %w", c.peer.Addr, err)
		}
	}
}

func (c *Control) recvLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		var msg wire.MinDeltaMessage
		if err := wire.ReadFrame(c.conn, &msg); err != nil {
			return fmt.Errorf("peermgr: reading mindelta frame from %s: %w", c.peer.Addr, err)
		}

		nowUsec := uint64(time.Now().UnixMicro())
		c.peer.Sync.OnPeerMinDeltaTS24(timesync.TruncateCounter24(uint64(msg.MinDeltaTS24)), nowUsec)
		c.peer.Touch(time.Now())
		c.peer.Gauges.Update(c.peer.Sync.IsSynchronized(), c.peer.Sync.GetMinimumOneWayDelayUsec(), c.peer.Sync.GetClockDriftCorrectionUsec())
	}
}

func (c *Control) nextInterval() time.Duration {
	if c.peer.Sync.IsSynchronized() {
		return time.Duration(Settings.MinDeltaIntervalSteadyMs) * time.Millisecond
	}
	return time.Duration(Settings.MinDeltaIntervalStartupMs) * time.Millisecond
}
