package peermgr

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func udpAddr(t *testing.T, s string) *net.UDPAddr {
	t.Helper()
	addr, err := net.ResolveUDPAddr("udp", s)
	require.NoError(t, err)
	return addr
}

func TestTableRegisterIsIdempotent(t *testing.T) {
	var table Table
	addr := udpAddr(t, "127.0.0.1:9000")
	now := time.Now()

	p1 := table.Register(addr, 10_000_000, now)
	p2 := table.Register(addr, 10_000_000, now)

	require.Same(t, p1, p2)
}

func TestTableLookupAndRemove(t *testing.T) {
	var table Table
	addr := udpAddr(t, "127.0.0.1:9001")
	now := time.Now()

	table.Register(addr, 10_000_000, now)
	_, ok := table.Lookup(addr)
	require.True(t, ok)

	table.Remove(addr)
	_, ok = table.Lookup(addr)
	require.False(t, ok)
}

func TestPeerTouchResetsIdleTime(t *testing.T) {
	var table Table
	addr := udpAddr(t, "127.0.0.1:9002")
	start := time.Now()

	p := table.Register(addr, 10_000_000, start)
	later := start.Add(5 * time.Second)
	require.Equal(t, 5*time.Second, p.IdleSince(later))

	p.Touch(later)
	require.Equal(t, time.Duration(0), p.IdleSince(later))
}

func TestKeyDiffersByAddress(t *testing.T) {
	a := udpAddr(t, "127.0.0.1:9003")
	b := udpAddr(t, "127.0.0.1:9004")
	require.NotEqual(t, Key(a), Key(b))
}

func TestTableRangeVisitsAllPeers(t *testing.T) {
	var table Table
	now := time.Now()
	addrs := []*net.UDPAddr{
		udpAddr(t, "127.0.0.1:9010"),
		udpAddr(t, "127.0.0.1:9011"),
		udpAddr(t, "127.0.0.1:9012"),
	}
	for _, a := range addrs {
		table.Register(a, 10_000_000, now)
	}

	seen := map[string]bool{}
	table.Range(func(addr *net.UDPAddr, p *Peer) bool {
		seen[addr.String()] = true
		return true
	})

	require.Len(t, seen, len(addrs))
}
