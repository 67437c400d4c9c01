package main

import (
	"testing"
	"time"

	"github.com/xzz53/dynamixel-tool/internal/codec"
	"github.com/xzz53/dynamixel-tool/internal/master"
	"github.com/xzz53/dynamixel-tool/internal/protocol"
)

// fakeTransport is a minimal replay double, modeled on master's own
// fakeTransport test double.
type fakeTransport struct {
	writes  [][]byte
	reads   [][]byte
	readIdx int
}

func (f *fakeTransport) WriteAll(p []byte) error {
	f.writes = append(f.writes, append([]byte(nil), p...))
	return nil
}

func (f *fakeTransport) ReadExact(p []byte, _ time.Duration) error {
	if f.readIdx >= len(f.reads) {
		return protocol.ErrTimedOut
	}
	frame := f.reads[f.readIdx]
	f.readIdx++
	if len(frame) != len(p) {
		return protocol.ErrBadPacket
	}
	copy(p, frame)
	return nil
}

func statusReplyV1(id byte) []byte {
	buf := make([]byte, 16)
	n := codec.EncodeStatusV1(buf, id, 0, nil)
	return buf[:n]
}

func TestEncodeUintLittleEndian(t *testing.T) {
	got := encodeUint(0x0102, 2)
	want := []byte{0x02, 0x01}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestExtractSyncFlag(t *testing.T) {
	found, rest := extractSyncFlag([]string{"1,2", "30", "--sync", "5"})
	if !found {
		t.Fatal("expected --sync to be found")
	}
	want := []string{"1,2", "30", "5"}
	for i, w := range want {
		if rest[i] != w {
			t.Fatalf("rest = %v, want %v", rest, want)
		}
	}

	found, rest = extractSyncFlag([]string{"1,2", "30", "5"})
	if found {
		t.Fatal("expected --sync not found")
	}
	if len(rest) != 3 {
		t.Fatalf("rest = %v", rest)
	}
}

func TestWriteAllIssuesOnePerID(t *testing.T) {
	tr := &fakeTransport{reads: [][]byte{statusReplyV1(1), statusReplyV1(2)}}
	m := master.New(tr, protocol.V1, 0)
	if err := writeAll(m, []byte{1, 2}, 30, []byte{0x01, 0x02}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tr.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(tr.writes))
	}
}

func TestWriteSyncIssuesSingleBroadcast(t *testing.T) {
	tr := &fakeTransport{}
	m := master.New(tr, protocol.V2, 0)
	if err := writeSync(m, []byte{1, 2, 3}, 30, []byte{0x01, 0x02}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tr.writes) != 1 {
		t.Fatalf("expected a single broadcast write, got %d", len(tr.writes))
	}
}
