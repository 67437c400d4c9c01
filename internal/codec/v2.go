package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/xzz53/dynamixel-tool/internal/protocol"
)

// V2HeaderLen is the minimum prefix needed to know a V2 frame's declared
// length (4-byte header + id + 2-byte length field).
const V2HeaderLen = 7

// v2Overhead is the number of non-parameter bytes in a V2 instruction frame:
// FF FF FD 00 id length_lo length_hi opcode ... crc_lo crc_hi.
const v2Overhead = 10

// v2StatusOverhead is the same, for a status frame, which additionally
// carries the 0x55 marker byte ahead of the error byte (length field counts
// it, so the frame is one byte longer for the same param count).
const v2StatusOverhead = 11

// crc16UMTSTable is a precomputed CRC-16/UMTS (CRC-16/BUYPASS) table: poly
// 0x8005, init 0, no input/output reflection, no final XOR.
var crc16UMTSTable = func() [256]uint16 {
	var tbl [256]uint16
	const poly = 0x8005
	for i := 0; i < 256; i++ {
		crc := uint16(i) << 8
		for b := 0; b < 8; b++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		tbl[i] = crc
	}
	return tbl
}()

// CRC16UMTS computes the CRC-16/UMTS checksum of data: seed 0, no
// reflection, no XOR-out.
func CRC16UMTS(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = (crc << 8) ^ crc16UMTSTable[byte(crc>>8)^b]
	}
	return crc
}

// EncodeV2 writes a V2 instruction frame to buffer and returns its length.
// Byte-stuffing is not performed on encode — per spec.md §4.1.2 the source
// implementation does not stuff either; decoders must tolerate stuffed
// streams produced by real devices (resync recovers on the next attempt).
func EncodeV2(buffer []byte, id byte, opcode protocol.Opcode, params []byte) int {
	n := len(params) + v2Overhead
	if n > len(buffer) {
		panic(fmt.Sprintf("codec: v2 frame of %d bytes does not fit in %d-byte buffer", n, len(buffer)))
	}

	length := uint16(3 + len(params))
	buffer[0] = 0xFF
	buffer[1] = 0xFF
	buffer[2] = 0xFD
	buffer[3] = 0x00
	buffer[4] = id
	binary.LittleEndian.PutUint16(buffer[5:7], length)
	buffer[7] = byte(opcode)
	copy(buffer[8:8+len(params)], params)

	crc := CRC16UMTS(buffer[0 : 8+len(params)])
	binary.LittleEndian.PutUint16(buffer[8+len(params):10+len(params)], crc)
	return n
}

// DecodeV2 parses a V2 status frame from buffer into out. It returns the
// frame length on success. As with DecodeV1, a well-formed frame with a
// non-zero error byte reports protocol.StatusError, not ErrBadPacket.
func DecodeV2(buffer []byte, out []byte) (int, error) {
	if len(buffer) < 10 {
		return 0, protocol.ErrBadPacket
	}
	length := binary.LittleEndian.Uint16(buffer[5:7])
	if length < 4 {
		return 0, protocol.ErrBadPacket
	}
	paramLen := int(length) - 4
	frameLen := v2StatusOverhead + paramLen
	if len(buffer) < frameLen {
		return 0, protocol.ErrBadPacket
	}
	if buffer[0] != 0xFF || buffer[1] != 0xFF || buffer[2] != 0xFD || buffer[3] != 0x00 {
		return 0, protocol.ErrBadPacket
	}

	crc := CRC16UMTS(buffer[0 : 9+paramLen])
	wantCRC := binary.LittleEndian.Uint16(buffer[9+paramLen : 11+paramLen])
	if crc != wantCRC {
		return 0, protocol.ErrBadPacket
	}

	if errByte := buffer[8]; errByte != 0 {
		return 0, protocol.NewStatusError(errByte)
	}

	if len(out) < paramLen {
		return 0, fmt.Errorf("codec: v2 decode: output buffer too small for %d params", paramLen)
	}
	copy(out[:paramLen], buffer[9:9+paramLen])
	return frameLen, nil
}
