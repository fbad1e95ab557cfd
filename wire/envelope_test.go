package wire

import (
	"bytes"
	"testing"
)

func TestWriteFrameReadFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	msg := MinDeltaMessage{MinDeltaTS24: 123456, SentLocalUsec: 987654321}

	if err := WriteFrame(&buf, msg); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	var got MinDeltaMessage
	if err := ReadFrame(&buf, &got); err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if got != msg {
		t.Errorf("round trip = %+v, want %+v", got, msg)
	}
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	lengthBuf := []byte{0, 0, 0, 0}
	// MaxFrameBytes+1, little-endian.
	oversized := uint32(MaxFrameBytes + 1)
	lengthBuf[0] = byte(oversized)
	lengthBuf[1] = byte(oversized >> 8)
	lengthBuf[2] = byte(oversized >> 16)
	lengthBuf[3] = byte(oversized >> 24)
	buf.Write(lengthBuf)

	var got MinDeltaMessage
	if err := ReadFrame(&buf, &got); err == nil {
		t.Fatal("ReadFrame: want error for oversized frame length, got nil")
	}
}

func TestReadFrameZeroLengthIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0})

	var got MinDeltaMessage
	if err := ReadFrame(&buf, &got); err != nil {
		t.Fatalf("ReadFrame on zero-length frame: %v", err)
	}
}

func TestMultipleFramesSequentialRead(t *testing.T) {
	var buf bytes.Buffer
	first := MinDeltaMessage{MinDeltaTS24: 1, SentLocalUsec: 2}
	second := MinDeltaMessage{MinDeltaTS24: 3, SentLocalUsec: 4}

	if err := WriteFrame(&buf, first); err != nil {
		t.Fatalf("WriteFrame first: %v", err)
	}
	if err := WriteFrame(&buf, second); err != nil {
		t.Fatalf("WriteFrame second: %v", err)
	}

	var gotFirst, gotSecond MinDeltaMessage
	if err := ReadFrame(&buf, &gotFirst); err != nil {
		t.Fatalf("ReadFrame first: %v", err)
	}
	if err := ReadFrame(&buf, &gotSecond); err != nil {
		t.Fatalf("ReadFrame second: %v", err)
	}
	if gotFirst != first || gotSecond != second {
		t.Errorf("got %+v, %+v want %+v, %+v", gotFirst, gotSecond, first, second)
	}
}
