package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// maxFrameLen guards against a corrupt or hostile length prefix forcing an
// unbounded allocation; large enough for any realistic sync-read/write
// payload (65535-byte V2 instruction body plus envelope overhead).
const maxFrameLen = 1 << 20

// ErrFrameTooLarge is returned when a length prefix exceeds maxFrameLen.
var ErrFrameTooLarge = errors.New("bridge: frame too large")

// writeEnvelope writes env to w as a 4-byte big-endian length prefix
// followed by its CBOR encoding.
func writeEnvelope(w io.Writer, env Envelope) error {
	body, err := cbor.Marshal(env)
	if err != nil {
		return fmt.Errorf("bridge: encode envelope: %w", err)
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("bridge: write length prefix: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("bridge: write envelope body: %w", err)
	}
	return nil
}

// readEnvelope reads one length-prefixed CBOR envelope from r.
func readEnvelope(r io.Reader) (Envelope, error) {
	var env Envelope
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return env, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameLen {
		return env, ErrFrameTooLarge
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return env, fmt.Errorf("bridge: read envelope body: %w", err)
	}
	if err := cbor.Unmarshal(body, &env); err != nil {
		return env, fmt.Errorf("bridge: decode envelope: %w", err)
	}
	return env, nil
}

// writeRequest writes req to w as a Request-only envelope; used by clients.
func writeRequest(w io.Writer, req Request) error {
	body, err := cbor.Marshal(req)
	if err != nil {
		return fmt.Errorf("bridge: encode request: %w", err)
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("bridge: write length prefix: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("bridge: write request body: %w", err)
	}
	return nil
}

// readRequest reads one length-prefixed CBOR Request from r.
func readRequest(r io.Reader) (Request, error) {
	var req Request
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return req, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameLen {
		return req, ErrFrameTooLarge
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return req, fmt.Errorf("bridge: read request body: %w", err)
	}
	if err := cbor.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("bridge: decode request: %w", err)
	}
	return req, nil
}
