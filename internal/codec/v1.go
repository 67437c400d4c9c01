// Package codec implements bit-exact Protocol 1 and Protocol 2 frame
// encoding/decoding as pure functions over caller-supplied buffers.
package codec

import (
	"fmt"

	"github.com/xzz53/dynamixel-tool/internal/protocol"
)

// V1HeaderLen is the minimum prefix needed to know a V1 frame's declared
// length (header + id + length byte).
const V1HeaderLen = 4

// v1Overhead is the number of non-parameter bytes in a V1 instruction or
// status frame: FF FF id length opcode ... checksum.
const v1Overhead = 6

// EncodeV1 writes a V1 instruction frame to buffer and returns its length.
// It panics if the frame (6 + len(params) bytes) would not fit — the source
// treats this as a precondition violation, not a recoverable error.
func EncodeV1(buffer []byte, id byte, opcode protocol.Opcode, params []byte) int {
	n := len(params) + v1Overhead
	if n > len(buffer) {
		panic(fmt.Sprintf("codec: v1 frame of %d bytes does not fit in %d-byte buffer", n, len(buffer)))
	}

	buffer[0] = 0xFF
	buffer[1] = 0xFF
	buffer[2] = id
	buffer[3] = byte(2 + len(params))
	buffer[4] = byte(opcode)
	copy(buffer[5:5+len(params)], params)

	var sum byte
	for _, b := range buffer[2 : 5+len(params)] {
		sum += b
	}
	buffer[5+len(params)] = ^sum
	return n
}

// DecodeV1 parses a V1 status frame from buffer into out (which must be at
// least as large as the frame's parameter region). It returns the frame
// length on success.
//
// Classification follows spec.md's stated preference (§9, item 3): a
// well-formed frame whose error byte is non-zero reports protocol.StatusError
// rather than ErrBadPacket.
func DecodeV1(buffer []byte, out []byte) (int, error) {
	if len(buffer) < 6 {
		return 0, protocol.ErrBadPacket
	}
	if buffer[3] < 2 {
		return 0, protocol.ErrBadPacket
	}
	paramLen := int(buffer[3]) - 2
	frameLen := v1Overhead + paramLen
	if len(buffer) < frameLen {
		return 0, protocol.ErrBadPacket
	}
	if buffer[0] != 0xFF || buffer[1] != 0xFF {
		return 0, protocol.ErrBadPacket
	}

	var sum byte
	for _, b := range buffer[2 : 5+paramLen] {
		sum += b
	}
	if ^sum != buffer[5+paramLen] {
		return 0, protocol.ErrBadPacket
	}

	if errByte := buffer[4]; errByte != 0 {
		return 0, protocol.NewStatusError(errByte)
	}

	if len(out) < paramLen {
		return 0, fmt.Errorf("codec: v1 decode: output buffer too small for %d params", paramLen)
	}
	copy(out[:paramLen], buffer[5:5+paramLen])
	return frameLen, nil
}

// ChecksumV1 computes the bitwise-NOT of the 8-bit wrapping sum of bytes
// from id through the last param byte inclusive (buffer[2:end-1]).
func ChecksumV1(frame []byte) byte {
	var sum byte
	for _, b := range frame[2 : len(frame)-1] {
		sum += b
	}
	return ^sum
}
