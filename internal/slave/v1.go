package slave

import (
	"context"

	"github.com/xzz53/dynamixel-tool/internal/codec"
	"github.com/xzz53/dynamixel-tool/internal/metrics"
	"github.com/xzz53/dynamixel-tool/internal/protocol"
	"github.com/xzz53/dynamixel-tool/internal/transport"
)

// v1RecvCap bounds the V1 receive buffer at 256 bytes. A 1-byte length
// field allows frames of up to 259 bytes (4 + 255); a frame declaring a
// length above 252 does not fit and is cleared as overrun.
const v1RecvCap = 256

type v1Protocol struct {
	tr  transport.AsyncTransport
	buf *recvBuf
	out [256]byte
}

func newV1(tr transport.AsyncTransport) *v1Protocol {
	return &v1Protocol{tr: tr, buf: newRecvBuf(tr, v1RecvCap)}
}

func (p *v1Protocol) RecvInstruction(ctx context.Context) (protocol.RawInstruction, error) {
	for {
		for p.buf.ensureBuffer(ctx, 4) != nil {
			select {
			case <-ctx.Done():
				return protocol.RawInstruction{}, ctx.Err()
			default:
			}
		}

		if p.buf.at(0) != 0xFF {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}
		if p.buf.at(1) != 0xFF {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}

		id := p.buf.at(2)
		if id == protocol.InvalidID {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}

		length := p.buf.at(3)
		if length == 0 {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}

		if err := p.buf.ensureBuffer(ctx, 4+int(length)); err != nil {
			p.buf.clear()
			metrics.IncSlaveBufferClear()
			continue
		}

		paramLen := int(length) - 2
		var sum byte
		for _, b := range p.buf.slice(2, 5+paramLen) {
			sum += b
		}
		checksum := ^sum
		if checksum != p.buf.at(5+paramLen) {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}

		frameLen := 4 + int(length)

		// A status reply's opcode slot carries 0x00; on a link that
		// echoes our own transmissions back to us, a well-formed echo is
		// told apart here and discarded wholesale rather than parsed as
		// an instruction.
		if p.buf.at(4) == byte(protocol.StatusV1) {
			p.buf.drain(frameLen)
			metrics.IncSlaveBufferClear()
			continue
		}

		opcode, ok := protocol.OpcodeFromByte(p.buf.at(4))
		if !ok {
			p.buf.popFront()
			metrics.IncSlaveResync()
			continue
		}

		data := append([]byte(nil), p.buf.slice(5, 5+paramLen)...)
		p.buf.drain(frameLen)

		return protocol.RawInstruction{
			Version: protocol.V1,
			ID:      id,
			Opcode:  opcode,
			Data:    data,
		}, nil
	}
}

func (p *v1Protocol) SendStatus(id byte, errByte byte, params []byte) error {
	n := codec.EncodeStatusV1(p.out[:], id, errByte, params)
	return p.tr.Write(p.out[:n])
}
