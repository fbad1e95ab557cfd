package peermgr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/catid/timesync"
	"github.com/catid/timesync/metrics"
)

func dialControlPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConnCh := make(chan *websocket.Conn, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverConnCh <- conn
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-serverConnCh
	t.Cleanup(func() { serverConn.Close() })

	return clientConn, serverConn
}

func TestControlExchangesMinDeltaBothWays(t *testing.T) {
	savedStartup := Settings.MinDeltaIntervalStartupMs
	Settings.MinDeltaIntervalStartupMs = 10
	defer func() { Settings.MinDeltaIntervalStartupMs = savedStartup }()

	clientWS, serverWS := dialControlPair(t)

	peerA := &Peer{Sync: timesync.NewSynchronizer(), Gauges: metrics.NewPeerGauges("control-test-a")}
	peerB := &Peer{Sync: timesync.NewSynchronizer(), Gauges: metrics.NewPeerGauges("control-test-b")}

	// Seed each side with a local sample so OnPeerMinDeltaTS24 actually
	// latches synchronized once the MinDelta round trip completes.
	peerA.Sync.OnAuthenticatedDatagramTimestamp(timesync.TruncateCounter24(1000), 2000)
	peerB.Sync.OnAuthenticatedDatagramTimestamp(timesync.TruncateCounter24(1000), 2000)

	controlA := NewControl(peerA, clientWS)
	controlB := NewControl(peerB, serverWS)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go controlA.Run(ctx)
	go controlB.Run(ctx)

	require.Eventually(t, func() bool {
		return peerA.Sync.IsSynchronized() && peerB.Sync.IsSynchronized()
	}, time.Second, 10*time.Millisecond)
}
