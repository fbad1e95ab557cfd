// Command timesync-bench runs two Synchronizer instances against each
// other over real loopback sockets: UDP for the datagram timestamp
// path and a websocket for the reliable MinDelta side-channel. It runs
// one two-peer scenario, with the clock offset and the symmetric one-way
// delay set by flags, and prints a colored
// pass/fail summary, in the style of derohe's cmd/simulator and
// cmd/dero-miner console tools.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/gorilla/websocket"

	"github.com/catid/timesync"
	"github.com/catid/timesync/metrics"
	"github.com/catid/timesync/peermgr"
)

func main() {
	trials := flag.Int("trials", 200, "number of datagram exchange rounds per scenario")
	clockDeltaUsec := flag.Int64("clock-delta-usec", 1_000_000, "simulated clock offset between peer A and peer B")
	owdUsec := flag.Uint64("owd-usec", 10_000, "simulated symmetric one-way delay between peers")
	flag.Parse()

	if err := run(*trials, *clockDeltaUsec, *owdUsec); err != nil {
		color.Red("bench failed: %v", err)
		os.Exit(1)
	}
}

func run(trials int, clockDeltaUsec int64, owdUsec uint64) error {
	udpA, udpB, err := listenUDPPair()
	if err != nil {
		return fmt.Errorf("setting up udp pair: %w", err)
	}
	defer udpA.Close()
	defer udpB.Close()

	wsA, wsB, err := dialWebsocketPair()
	if err != nil {
		return fmt.Errorf("setting up control channel: %w", err)
	}
	defer wsA.Close()
	defer wsB.Close()

	peerA := &peermgr.Peer{Sync: timesync.NewSynchronizer(), Gauges: metrics.NewPeerGauges("bench-peer-a")}
	peerB := &peermgr.Peer{Sync: timesync.NewSynchronizer(), Gauges: metrics.NewPeerGauges("bench-peer-b")}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	controlA := peermgr.NewControl(peerA, wsA)
	controlB := peermgr.NewControl(peerB, wsB)
	go controlA.Run(ctx)
	go controlB.Run(ctx)

	// Each peer's simulated clock is the wall clock plus a fixed offset
	// (zero for A, clockDeltaUsec for B), and each receive time has
	// owdUsec added; the real loopback and scheduling delay adds on top
	// of owdUsec. Each side's simulated local clock still drives a real
	// 3-byte datagram over the loopback UDP socket to the other side.
	clockA := clockOffset{}
	clockB := clockOffset{offsetUsec: clockDeltaUsec}

	go recvDatagramLoop(udpB, peerB.Sync, &clockB, owdUsec)
	go recvDatagramLoop(udpA, peerA.Sync, &clockA, owdUsec)

	bar := pb.StartNew(trials)
	defer bar.Finish()

	for i := 0; i < trials; i++ {
		if err := sendDatagram(udpA, udpB.LocalAddr(), peerA.Sync, clockA.now()); err != nil {
			return fmt.Errorf("sending datagram A->B: %w", err)
		}
		if err := sendDatagram(udpB, udpA.LocalAddr(), peerB.Sync, clockB.now()); err != nil {
			return fmt.Errorf("sending datagram B->A: %w", err)
		}
		bar.Increment()
		time.Sleep(time.Millisecond)
	}

	// Give the receive loops and control goroutines a moment to drain
	// the accumulated datagrams and MinDelta exchange before reporting.
	time.Sleep(2 * time.Second)

	return report(peerA, peerB, clockDeltaUsec, owdUsec)
}

// clockOffset is a trivial simulated clock: real elapsed time plus a
// fixed signed offset, used to reproduce a known clockDeltaUsec
// between the two demo peers.
type clockOffset struct {
	offsetUsec int64
}

func (c *clockOffset) now() uint64 {
	return uint64(time.Now().UnixMicro() + c.offsetUsec)
}

// sendDatagram writes the 3-byte raw Counter24 send timestamp to dst,
// exactly the wire shape spec.md fixes for the UDP datagram path (no
// CBOR envelope; that is reserved for the reliable control channel).
func sendDatagram(conn *net.UDPConn, dst net.Addr, sync *timesync.Synchronizer, localUsec uint64) error {
	ts := sync.LocalTimeToDatagramTS24(localUsec)
	var buf [3]byte
	buf[0] = byte(ts)
	buf[1] = byte(ts >> 8)
	buf[2] = byte(ts >> 16)
	_, err := conn.WriteTo(buf[:], dst)
	return err
}

func recvDatagramLoop(conn *net.UDPConn, sync *timesync.Synchronizer, clock *clockOffset, owdUsec uint64) {
	var buf [3]byte
	for {
		n, _, err := conn.ReadFrom(buf[:])
		if err != nil {
			return
		}
		if n != 3 {
			continue
		}
		ts := timesync.TruncateCounter24(uint64(buf[0]) | uint64(buf[1])<<8 | uint64(buf[2])<<16)
		sync.OnAuthenticatedDatagramTimestamp(ts, clock.now()+owdUsec)
	}
}

func report(peerA, peerB *peermgr.Peer, clockDeltaUsec int64, owdUsec uint64) error {
	fmt.Println()
	if !peerA.Sync.IsSynchronized() || !peerB.Sync.IsSynchronized() {
		color.Red("FAIL: peers did not reach synchronized state")
		return fmt.Errorf("synchronization did not converge")
	}

	color.Green("PASS: both peers synchronized")
	fmt.Printf("  peer A: owd=%dus drift=%dus\n", peerA.Sync.GetMinimumOneWayDelayUsec(), peerA.Sync.GetClockDriftCorrectionUsec())
	fmt.Printf("  peer B: owd=%dus drift=%dus\n", peerB.Sync.GetMinimumOneWayDelayUsec(), peerB.Sync.GetClockDriftCorrectionUsec())
	fmt.Printf("  expected: owd~=%dus drift A~=%dus B~=%dus\n", owdUsec, clockDeltaUsec, -clockDeltaUsec)
	return nil
}

// listenUDPPair binds the two loopback UDP sockets peer A and peer B
// exchange their raw 3-byte datagram timestamps over.
func listenUDPPair() (*net.UDPConn, *net.UDPConn, error) {
	a, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		return nil, nil, err
	}
	b, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, b, nil
}

// dialWebsocketPair establishes one loopback websocket connection and
// returns both ends, for use as the reliable MinDelta control channel.
func dialWebsocketPair() (*websocket.Conn, *websocket.Conn, error) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	serverConnCh := make(chan *websocket.Conn, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/control", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			errCh <- err
			return
		}
		serverConnCh <- conn
	})

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, nil, err
	}
	server := &http.Server{Handler: mux}
	go server.Serve(listener)

	url := fmt.Sprintf("ws://%s/control", listener.Addr().String())
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, nil, err
	}

	select {
	case serverConn := <-serverConnCh:
		return clientConn, serverConn, nil
	case err := <-errCh:
		return nil, nil, err
	case <-time.After(5 * time.Second):
		return nil, nil, fmt.Errorf("timed out waiting for websocket upgrade")
	}
}
