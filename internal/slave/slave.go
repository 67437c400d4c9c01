// Package slave implements the asynchronous instruction-receiver state
// machine a simulated or bridged Dynamixel device uses to parse incoming
// frames off a shared, byte-at-a-time link and answer them with a status
// reply.
//
// Unlike the master engine, the slave owns no request/response pairing: it
// free-runs a receive loop over whatever bytes arrive, resynchronizing on
// garbage and discarding its own echoed status frames (common on a
// half-duplex bus wired without direction control).
package slave

import (
	"context"

	"github.com/xzz53/dynamixel-tool/internal/protocol"
	"github.com/xzz53/dynamixel-tool/internal/transport"
)

// Protocol is the version-polymorphic capability every concrete engine
// (v1Protocol, v2Protocol) implements, letting callers stay oblivious to
// which wire version they're speaking.
type Protocol interface {
	// RecvInstruction blocks until a complete, checksum-valid instruction
	// frame addressed to a real opcode has been received, or ctx is done.
	RecvInstruction(ctx context.Context) (protocol.RawInstruction, error)

	// SendStatus writes a status reply frame for id with the given error
	// byte and parameters.
	SendStatus(id byte, errByte byte, params []byte) error
}

// New constructs the receiver state machine for the given protocol version,
// bound to tr for its lifetime.
func New(version protocol.Version, tr transport.AsyncTransport) Protocol {
	if version == protocol.V1 {
		return newV1(tr)
	}
	return newV2(tr)
}
