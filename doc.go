// Package timesync implements a peer-to-peer clock synchronization core for
// unreliable datagram transports.
//
// Each Synchronizer tracks, for one remote peer, the minimum one-way delay
// (OWD) in each direction and the resulting clock offset, using every
// received datagram as a probe. It also exposes compact 16- and 23-bit
// timestamp codecs for attaching short wall-clock-equivalent times to
// application messages.
//
// The package owns no sockets, no threads, and performs no I/O: the
// transport, the wall-clock source, and dispatching from the receive path
// to the Synchronizer's owning goroutine are all the caller's
// responsibility. A Synchronizer is not safe for concurrent use; callers
// that receive on a different goroutine than the one driving the
// Synchronizer must marshal access themselves.
package timesync
