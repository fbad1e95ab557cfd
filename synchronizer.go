package timesync

import "math"

// Window and error-bound constants from the algorithm's design. Windows
// default to ~10s, matched between the local and peer-reported estimators
// so neither dominates the other under asymmetric update rates.
const (
	// DefaultWindowUsec is the default sliding-window duration used by both
	// the local and peer-reported WindowedMin estimators.
	DefaultWindowUsec uint64 = 10_000_000

	// Time16ErrorBoundUsec is the one-quantum (32us) recovery error bound
	// for the 16-bit short timestamp codec; effective error with
	// accumulated jitter is documented as ~512us.
	Time16ErrorBoundUsec = 32

	// Time23ErrorBoundUsec is the one-quantum (8us) recovery error bound
	// for the 23-bit short timestamp codec; effective error in
	// synchronized steady state is <=16us.
	Time23ErrorBoundUsec = 8
)

// sentinelOWD represents "no OWD observed yet" prior to synchronization.
const sentinelOWD uint32 = math.MaxUint32

// Synchronizer is the stateful per-peer clock-synchronization core. It is
// not safe for concurrent use: all of its methods must be called from a
// single goroutine, typically the one that owns the peer's datagram
// receive loop (see the package doc for the external concurrency
// contract).
type Synchronizer struct {
	windowUsec uint64

	minDeltaLocal  WindowedMin // local view: localRecvTS24 - remoteSendTS24
	minDeltaRemote WindowedMin // remote-reported view of the reverse direction

	minOWDUsec           uint32
	clockDriftCorrection int64

	synchronized   bool
	sawLocalSample bool
}

// NewSynchronizer creates an unsynchronized Synchronizer using the default
// ~10s estimation window.
func NewSynchronizer() *Synchronizer {
	return NewSynchronizerWithWindow(DefaultWindowUsec)
}

// NewSynchronizerWithWindow creates an unsynchronized Synchronizer using
// the given window duration (microseconds) for both the local and
// peer-reported estimators.
func NewSynchronizerWithWindow(windowUsec uint64) *Synchronizer {
	return &Synchronizer{
		windowUsec: windowUsec,
		minOWDUsec: sentinelOWD,
	}
}

// LocalTimeToDatagramTS24 truncates the caller's local microsecond time to
// 24 bits. It is pure and makes no state change; this is the value an
// application attaches to every outbound datagram.
func (s *Synchronizer) LocalTimeToDatagramTS24(localUsec uint64) Counter24 {
	return TruncateCounter24(localUsec)
}

// OnAuthenticatedDatagramTimestamp processes one inbound, already
// authenticated datagram's timestamp. remoteSendTS24 is the 24-bit
// timestamp the remote peer attached at send time; localRecvUsec is this
// peer's local microsecond time when the datagram was received (captured
// as early as possible on the receive path). It returns the current
// packet's estimated one-way delay in microseconds, or 0 if not yet
// synchronized.
func (s *Synchronizer) OnAuthenticatedDatagramTimestamp(remoteSendTS24 Counter24, localRecvUsec uint64) uint32 {
	localTS24 := TruncateCounter24(localRecvUsec)
	delta24 := UnsignedDiff24(localTS24, remoteSendTS24)

	s.minDeltaLocal.Update(delta24, localRecvUsec, s.windowUsec)
	s.sawLocalSample = true

	if !s.synchronized {
		return 0
	}

	diff := int64(SignedDiff24(delta24, s.minDeltaLocal.Best()))
	owd := int64(s.minOWDUsec) + diff
	if owd < 0 {
		owd = 0
	}
	if uint32(owd) < s.minOWDUsec {
		s.minOWDUsec = uint32(owd)
	}
	return uint32(owd)
}

// GetMinDeltaTS24 returns the current local minimum delta, to be
// transmitted to the peer periodically (recommended every ~500ms during
// startup, ~2s steady-state) over any reliable channel. The value is
// modular; the peer places it directly into its own windowed minimum with
// no reference-based reconstruction required.
func (s *Synchronizer) GetMinDeltaTS24() Counter24 {
	return s.minDeltaLocal.Best()
}

// OnPeerMinDeltaTS24 processes a MinDelta value reported by the peer.
// nowLocalUsec is this peer's local time when the value was received (used
// only to age the peer-reported estimator; MinDelta values may arrive out
// of order over a reliable-but-unordered channel, and the windowed minimum
// tolerates that naturally).
func (s *Synchronizer) OnPeerMinDeltaTS24(remoteMinDelta Counter24, nowLocalUsec uint64) {
	s.minDeltaRemote.Update(remoteMinDelta, nowLocalUsec, s.windowUsec)

	if !s.sawLocalSample {
		return
	}
	s.synchronized = true

	c2s := s.minDeltaLocal.Best()
	s2c := s.minDeltaRemote.Best()

	// c2s is OWD + (local - remote) and s2c is OWD + (remote - local), so
	// half their difference is the offset to the remote clock and half
	// their sum is the OWD. Both are taken modulo 2^24 as signed values.
	// Arithmetic right shift by one on a signed difference: must not use a
	// logical shift here, or the sign of the offset would be lost.
	s.clockDriftCorrection = int64(SignedDiff24(s2c, c2s)) >> 1

	owdCandidate := int64((c2s + s2c).Signed()) >> 1
	if owdCandidate < 0 {
		owdCandidate = 0
	}
	if uint32(owdCandidate) < s.minOWDUsec {
		s.minOWDUsec = uint32(owdCandidate)
	}
}

// IsSynchronized reports whether this Synchronizer has received at least
// one local datagram sample and at least one peer-reported MinDelta. Once
// true, it is never reset to false.
func (s *Synchronizer) IsSynchronized() bool {
	return s.synchronized
}

// GetMinimumOneWayDelayUsec returns the smallest one-way delay observed so
// far, or 0 if not yet synchronized.
func (s *Synchronizer) GetMinimumOneWayDelayUsec() uint32 {
	if !s.synchronized {
		return 0
	}
	return s.minOWDUsec
}

// GetClockDriftCorrectionUsec returns the current signed offset (in
// microseconds) applied when mapping this peer's local times to the
// remote peer's clock. It is 0 until synchronized.
func (s *Synchronizer) GetClockDriftCorrectionUsec() int64 {
	return s.clockDriftCorrection
}

// ToRemoteTime23 compresses localUsec into a 23-bit timestamp expressed in
// the remote peer's clock, at 8us granularity (wrap period ~67s). The
// result is only meaningful to the remote peer, who recovers it with
// FromLocalTime23 against its own clock.
func (s *Synchronizer) ToRemoteTime23(localUsec uint64) Counter23 {
	remoteUsec := int64(localUsec) + s.clockDriftCorrection
	return TruncateCounter23(uint64(remoteUsec) >> 3)
}

// FromLocalTime23 reconstructs the sender's local-equivalent microsecond
// time from a 23-bit timestamp ts23 that the sender produced with its own
// ToRemoteTime23 call (i.e. expressed in this peer's clock). localUsec is
// this peer's current local time, used as the reconstruction reference.
func (s *Synchronizer) FromLocalTime23(localUsec uint64, ts23 Counter23) uint64 {
	return Reconstruct23(localUsec>>3, ts23) << 3
}

// ToRemoteTime16 compresses localUsec into a 16-bit timestamp expressed in
// the remote peer's clock, at 32us granularity (wrap period ~2.1s).
func (s *Synchronizer) ToRemoteTime16(localUsec uint64) Counter16 {
	remoteUsec := int64(localUsec) + s.clockDriftCorrection
	return TruncateCounter16(uint64(remoteUsec) >> 5)
}

// FromLocalTime16 reconstructs the sender's local-equivalent microsecond
// time from a 16-bit timestamp produced by the sender's ToRemoteTime16.
func (s *Synchronizer) FromLocalTime16(localUsec uint64, ts16 Counter16) uint64 {
	return Reconstruct16(localUsec>>5, ts16) << 5
}
