package serialport

import (
	"errors"
	"testing"
	"time"

	"github.com/xzz53/dynamixel-tool/internal/protocol"
)

// fakePort models a port whose Read returns 0, nil on an internal
// timeout, matching tarm/serial's documented behavior.
type fakePort struct {
	writeBuf []byte
	chunks   [][]byte
	idx      int
	ticks    int // Read calls returning (0, nil) before the next chunk is delivered
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.writeBuf = append(p.writeBuf, b...)
	return len(b), nil
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.idx >= len(p.chunks) {
		return 0, nil
	}
	if p.ticks > 0 {
		p.ticks--
		return 0, nil
	}
	n := copy(b, p.chunks[p.idx])
	p.idx++
	return n, nil
}

func (p *fakePort) Close() error { return nil }

func TestTransportWriteAll(t *testing.T) {
	p := &fakePort{}
	tr := New(p)
	if err := tr.WriteAll([]byte{1, 2, 3}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	if string(p.writeBuf) != string([]byte{1, 2, 3}) {
		t.Fatalf("got %v", p.writeBuf)
	}
}

func TestTransportReadExactAssemblesChunks(t *testing.T) {
	p := &fakePort{chunks: [][]byte{{0xFF, 0xFF}, {0x01, 0x02}}}
	tr := New(p)
	buf := make([]byte, 4)
	if err := tr.ReadExact(buf, 50*time.Millisecond); err != nil {
		t.Fatalf("ReadExact: %v", err)
	}
	want := []byte{0xFF, 0xFF, 0x01, 0x02}
	for i, b := range want {
		if buf[i] != b {
			t.Fatalf("byte %d: got %x want %x", i, buf[i], b)
		}
	}
}

func TestTransportReadExactTimesOut(t *testing.T) {
	p := &fakePort{}
	tr := New(p)
	buf := make([]byte, 4)
	err := tr.ReadExact(buf, 5*time.Millisecond)
	if !errors.Is(err, protocol.ErrTimedOut) {
		t.Fatalf("got %v, want protocol.ErrTimedOut", err)
	}
}
