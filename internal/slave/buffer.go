package slave

import (
	"context"
	"time"

	"github.com/xzz53/dynamixel-tool/internal/protocol"
	"github.com/xzz53/dynamixel-tool/internal/transport"
)

// recvReadDeadline bounds each individual transport read issued while
// assembling a frame; ensureBuffer may issue many of these while waiting
// for enough bytes to arrive.
const recvReadDeadline = 100 * time.Millisecond

// recvBuf is the byte-at-a-time accumulation queue the V1 and V2 receivers
// pop bytes from during resync and drain wholesale once a frame completes.
// cap bounds how large the queue is allowed to grow (v1RecvCap, 256, for
// V1; v2RecvCap, 65543, for V2) before it is treated as overrun and cleared.
type recvBuf struct {
	data []byte
	cap  int
	tr   transport.AsyncTransport
}

func newRecvBuf(tr transport.AsyncTransport, capacity int) *recvBuf {
	return &recvBuf{tr: tr, cap: capacity}
}

func (b *recvBuf) len() int { return len(b.data) }

func (b *recvBuf) at(i int) byte { return b.data[i] }

func (b *recvBuf) popFront() {
	if len(b.data) > 0 {
		b.data = b.data[1:]
	}
}

func (b *recvBuf) clear() { b.data = b.data[:0] }

// drain discards the first n bytes (a completed frame), preserving any
// trailing bytes of a subsequent frame already present in the buffer.
func (b *recvBuf) drain(n int) {
	if n >= len(b.data) {
		b.clear()
		return
	}
	b.data = b.data[n:]
}

func (b *recvBuf) slice(from, to int) []byte { return b.data[from:to] }

// ensureBuffer blocks, issuing repeated bounded reads, until at least n
// bytes are queued. It returns protocol.ErrTimedOut if ctx is cancelled or
// a single read deadline expires without progress; callers decide whether
// a timeout clears the buffer or is retried.
func (b *recvBuf) ensureBuffer(ctx context.Context, n int) error {
	if len(b.data) >= n {
		return nil
	}
	if n > b.cap {
		b.clear()
		return protocol.ErrTimedOut
	}

	chunk := make([]byte, n-len(b.data))
	for len(b.data) < n {
		select {
		case <-ctx.Done():
			return protocol.ErrTimedOut
		default:
		}

		want := n - len(b.data)
		nRead, err := b.tr.Read(chunk[:want], recvReadDeadline)
		if err != nil || nRead == 0 {
			return protocol.ErrTimedOut
		}
		b.data = append(b.data, chunk[:nRead]...)
	}
	return nil
}
