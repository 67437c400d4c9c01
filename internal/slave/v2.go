package slave

import (
	"context"
	"encoding/binary"

	"github.com/xzz53/dynamixel-tool/internal/codec"
	"github.com/xzz53/dynamixel-tool/internal/metrics"
	"github.com/xzz53/dynamixel-tool/internal/protocol"
	"github.com/xzz53/dynamixel-tool/internal/transport"
)

// v2RecvCap bounds the V2 receive buffer. A 2-byte length field caps the
// instruction body at 65535 bytes, so the largest frame (7-byte prefix plus
// body, 65542 bytes) fits.
const v2RecvCap = 65536 + 7

type v2Protocol struct {
	tr  transport.AsyncTransport
	buf *recvBuf
	out [65536]byte
}

func newV2(tr transport.AsyncTransport) *v2Protocol {
	return &v2Protocol{tr: tr, buf: newRecvBuf(tr, v2RecvCap)}
}

func (p *v2Protocol) RecvInstruction(ctx context.Context) (protocol.RawInstruction, error) {
	for {
		for p.buf.ensureBuffer(ctx, 7) != nil {
			select {
			case <-ctx.Done():
				return protocol.RawInstruction{}, ctx.Err()
			default:
			}
		}

		if p.buf.at(0) != 0xFF || p.buf.at(1) != 0xFF {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}
		if p.buf.at(2) != 0xFD {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}
		if p.buf.at(3) != 0x00 {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}

		id := p.buf.at(4)
		if id == protocol.InvalidID {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}

		length := int(p.buf.at(5)) | int(p.buf.at(6))<<8
		if length == 0 {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}

		// As in V1, any timeout assembling the body clears the whole
		// buffer rather than just dropping the frame-in-progress — ported
		// verbatim from the reference decoder's ensure_buffer, which
		// always clears on a failed read regardless of how much of the
		// header had already resynced.
		if err := p.buf.ensureBuffer(ctx, 7+length); err != nil {
			p.buf.clear()
			metrics.IncSlaveBufferClear()
			continue
		}

		// A status reply places the 0x55 marker in the slot an
		// instruction uses for its opcode. On a half-duplex link that
		// echoes our own transmissions back to us, this is how a
		// well-formed echoed status frame is told apart from a genuine
		// instruction: discard it and resync from scratch.
		if p.buf.at(7) == protocol.StatusV2Marker {
			p.buf.clear()
			metrics.IncSlaveBufferClear()
			continue
		}

		opcode, ok := protocol.OpcodeFromByte(p.buf.at(7))
		if !ok {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}

		crc := codec.CRC16UMTS(p.buf.slice(0, 7+length-2))
		wantCRC := binary.LittleEndian.Uint16(p.buf.slice(7+length-2, 7+length))
		if crc != wantCRC {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}

		paramLen := length - 3
		data := append([]byte(nil), p.buf.slice(8, 8+paramLen)...)
		// The whole buffer is cleared after delivery, not just this frame:
		// bytes of a following frame that were already buffered are
		// discarded.
		p.buf.clear()

		return protocol.RawInstruction{
			Version: protocol.V2,
			ID:      id,
			Opcode:  opcode,
			Data:    data,
		}, nil
	}
}

func (p *v2Protocol) SendStatus(id byte, errByte byte, params []byte) error {
	n := codec.EncodeStatusV2(p.out[:], id, errByte, params)
	return p.tr.Write(p.out[:n])
}
