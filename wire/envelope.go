// Package wire frames the messages exchanged over a peer's reliable
// control channel. The UDP datagram path that carries the raw 24-bit
// send timestamp stays outside this package entirely (spec.md §6 fixes
// it as a bare counter prefix, with no envelope); this package exists
// only for the periodic MinDelta exchange, modeled on
// p2p/rpc_cbor_codec.go's length-prefixed CBOR framing.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// MaxFrameBytes bounds a single frame's declared length. The control
// channel only ever carries small fixed-shape messages, so anything
// anywhere near this size indicates a corrupt or hostile peer rather
// than a legitimate oversized message.
const MaxFrameBytes = 4096

// MinDeltaMessage is the periodic report of a Synchronizer's current
// local minimum delta, sent over the reliable channel so the peer can
// fold it into its own peer-reported windowed minimum (spec.md §4.3
// step 2). SentLocalUsec is the sender's local time at the moment the
// message was built. The receiver in peermgr does not read it; it
// timestamps admission into its own estimator with its own clock.
type MinDeltaMessage struct {
	MinDeltaTS24  uint32 `cbor:"d"`
	SentLocalUsec uint64 `cbor:"t"`
}

// ReadFrame reads one length-prefixed CBOR frame from r and decodes it
// into obj. It returns io.EOF if the connection is closed cleanly
// before any bytes of a new frame arrive.
func ReadFrame(r io.Reader, obj interface{}) error {
	var lengthBuf [4]byte
	if _, err := io.ReadFull(r, lengthBuf[:]); err != nil {
		return err
	}

	frameLength := binary.LittleEndian.Uint32(lengthBuf[:])
	if frameLength == 0 {
		return nil
	}
	if frameLength > MaxFrameBytes {
		return fmt.Errorf("wire: frame length %d exceeds maximum %d", frameLength, MaxFrameBytes)
	}

	data := make([]byte, frameLength)
	if _, err := io.ReadFull(r, data); err != nil {
		return fmt.Errorf("wire: reading frame body: %w", err)
	}
	return cbor.Unmarshal(data, obj)
}

// WriteFrame CBOR-encodes obj and writes it to w as a 4-byte
// little-endian length prefix followed by the encoded bytes.
func WriteFrame(w io.Writer, obj interface{}) error {
	data, err := cbor.Marshal(obj)
	if err != nil {
		return fmt.Errorf("wire: marshaling frame: %w", err)
	}

	var lengthBuf [4]byte
	binary.LittleEndian.PutUint32(lengthBuf[:], uint32(len(data)))

	if _, err := w.Write(lengthBuf[:]); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
