package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xzz53/dynamixel-tool/internal/protocol"
)

func TestEncodeV1Ping(t *testing.T) {
	buf := make([]byte, 16)
	n := EncodeV1(buf, 1, protocol.Ping, nil)
	want := []byte{0xFF, 0xFF, 0x01, 0x02, 0x01, 0xFB}
	if !bytes.Equal(buf[:n], want) {
		t.Fatalf("got % X, want % X", buf[:n], want)
	}
}

func TestEncodeV1Read(t *testing.T) {
	buf := make([]byte, 16)
	n := EncodeV1(buf, 1, protocol.Read, []byte{0x2B, 0x01})
	want := []byte{0xFF, 0xFF, 0x01, 0x04, 0x02, 0x2B, 0x01, 0xCC}
	if !bytes.Equal(buf[:n], want) {
		t.Fatalf("got % X, want % X", buf[:n], want)
	}
}

func TestDecodeV1PingStatusOK(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0x01, 0x02, 0x00, 0xFC}
	out := make([]byte, 8)
	n, err := DecodeV1(buf, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("frame len = %d, want %d", n, len(buf))
	}
}

func TestDecodeV1ReadStatusOneByte(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0x01, 0x03, 0x00, 0x20, 0xDB}
	out := make([]byte, 8)
	n, err := DecodeV1(buf, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("frame len = %d, want %d", n, len(buf))
	}
	if out[0] != 32 {
		t.Fatalf("param = %d, want 32", out[0])
	}
}

func TestDecodeV1BadChecksum(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0x01, 0x02, 0x01, 0x00}
	out := make([]byte, 8)
	_, err := DecodeV1(buf, out)
	if !errors.Is(err, protocol.ErrBadPacket) {
		t.Fatalf("got %v, want ErrBadPacket", err)
	}
}

func TestDecodeV1StatusError(t *testing.T) {
	buf := make([]byte, 16)
	n := EncodeStatusV1(buf, 1, 0x02, nil)
	out := make([]byte, 8)
	_, err := DecodeV1(buf[:n], out)
	var se *protocol.StatusError
	if !errors.As(err, &se) || se.Byte != 0x02 {
		t.Fatalf("got %v, want StatusError(0x02)", err)
	}
	if !errors.Is(err, protocol.ErrStatus) {
		t.Fatalf("errors.Is(err, ErrStatus) = false")
	}
}

// Flipping any single byte of a valid frame (other than the checksum byte
// compensating) causes decode to fail or report a different status.
func TestDecodeV1SingleByteFlipBreaksFrame(t *testing.T) {
	buf := make([]byte, 16)
	n := EncodeStatusV1(buf, 5, 0, []byte{0x10, 0x42})
	orig := append([]byte(nil), buf[:n]...)

	for i := 0; i < n-1; i++ { // skip checksum byte itself
		corrupt := append([]byte(nil), orig...)
		corrupt[i] ^= 0xFF
		out := make([]byte, 8)
		if _, err := DecodeV1(corrupt, out); err == nil {
			t.Fatalf("flipping byte %d silently decoded", i)
		}
	}
}

func TestEncodeDecodeV1RoundTrip(t *testing.T) {
	buf := make([]byte, 32)
	params := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	n := EncodeV1(buf, 7, protocol.Write, params)
	buf[4] = 0 // zero the error byte for a "status" read-back
	buf[n-1] = ChecksumV1(buf[:n])
	out := make([]byte, 8)
	pn, err := DecodeV1(buf[:n], out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pn != n {
		t.Fatalf("frame len mismatch")
	}
	if !bytes.Equal(out[:len(params)], params) {
		t.Fatalf("params mismatch: got % X, want % X", out[:len(params)], params)
	}
}
