package peermgr

import (
	"net"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/catid/timesync"
	"github.com/catid/timesync/metrics"
)

// Peer books-keeps one remote endpoint's clock-synchronization state:
// its Synchronizer, its per-peer metric gauges and the bookkeeping
// needed to detect and evict a peer that has gone quiet. Mirrors the
// shape of p2p/connection_pool.go's Connection, trimmed to what clock
// sync actually needs.
type Peer struct {
	SessionID uuid.UUID
	Addr      *net.UDPAddr

	Sync   *timesync.Synchronizer
	Gauges *metrics.PeerGauges

	mu            sync.Mutex
	lastSeen      time.Time
	datagramsSeen uint64
}

// Key returns the stable table key for addr: the xxhash of its string
// form, mirroring derohe's use of the TCP endpoint string as a
// dedup key in p2p/connection_pool.go's Key function, but pre-hashed
// since this table is read far more often than a TCP peer table is.
func Key(addr *net.UDPAddr) uint64 {
	return xxhash.Sum64String(addr.String())
}

// Touch records that a datagram or control message was just received
// from this peer, resetting its staleness clock.
func (p *Peer) Touch(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSeen = now
	p.datagramsSeen++
}

// IdleSince reports how long it has been since the peer was last
// touched.
func (p *Peer) IdleSince(now time.Time) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return now.Sub(p.lastSeen)
}

// Table is the set of currently known peers, keyed by Key(addr). It is
// safe for concurrent use, mirroring p2p/connection_pool.go's
// package-level connection_map sync.Map.
type Table struct {
	peers sync.Map // uint64 -> *Peer
}

// Register adds a new peer for addr if one is not already present,
// returning the (possibly pre-existing) Peer. windowUsec is forwarded
// to the new Synchronizer; it is ignored if the peer already exists.
func (t *Table) Register(addr *net.UDPAddr, windowUsec uint64, now time.Time) *Peer {
	key := Key(addr)
	if existing, ok := t.peers.Load(key); ok {
		return existing.(*Peer)
	}

	p := &Peer{
		SessionID: uuid.New(),
		Addr:      addr,
		Sync:      timesync.NewSynchronizerWithWindow(windowUsec),
		Gauges:    metrics.NewPeerGauges(addr.String()),
		lastSeen:  now,
	}

	actual, loaded := t.peers.LoadOrStore(key, p)
	if loaded {
		return actual.(*Peer)
	}
	return p
}

// Lookup returns the peer registered for addr, if any.
func (t *Table) Lookup(addr *net.UDPAddr) (*Peer, bool) {
	v, ok := t.peers.Load(Key(addr))
	if !ok {
		return nil, false
	}
	return v.(*Peer), true
}

// Remove evicts the peer registered for addr, if any.
func (t *Table) Remove(addr *net.UDPAddr) {
	t.peers.Delete(Key(addr))
}

// Range calls fn once per currently registered peer, stopping early if
// fn returns false. It has the same semantics as sync.Map.Range: a peer
// concurrently added or removed during iteration may or may not be
// observed.
func (t *Table) Range(fn func(addr *net.UDPAddr, p *Peer) bool) {
	t.peers.Range(func(_, value interface{}) bool {
		p := value.(*Peer)
		return fn(p.Addr, p)
	})
}
