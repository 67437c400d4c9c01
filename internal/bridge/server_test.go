package bridge

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/xzz53/dynamixel-tool/internal/codec"
	"github.com/xzz53/dynamixel-tool/internal/master"
	"github.com/xzz53/dynamixel-tool/internal/protocol"
)

// fakeTransport replays a fixed queue of reply frames, mirroring the
// master package's own test double.
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

func v1PingReply(id byte) []byte {
	buf := make([]byte, 16)
	n := codec.EncodeStatusV1(buf, id, 0, nil)
	return buf[:n]
}

func dialAndShake(t *testing.T, ctx context.Context, addr string) net.Conn {
	t.Helper()
	d := net.Dialer{Timeout: time.Second}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	errCh := make(chan error, 1)
	go func() {
		_, err := conn.Write([]byte(hello))
		errCh <- err
	}()
	buf := make([]byte, len(hello))
	if _, err := conn.Read(buf); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("write hello: %v", err)
	}
	if string(buf) != hello {
		t.Fatalf("bad hello: %q", buf)
	}
	return conn
}

func TestServerPingRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tr := &fakeTransport{reads: [][]byte{v1PingReply(5)}}
	m := master.New(tr, protocol.V1, 0)
	srv := NewServer(WithMaster(m), WithListenAddr(":0"), WithHandshakeTimeout(2*time.Second))

	go func() {
		if err := srv.Serve(ctx); err != nil {
			t.Logf("Serve returned: %v", err)
		}
	}()
	select {
	case <-srv.Ready():
	case <-time.After(time.Second):
		t.Fatal("server did not become ready")
	}

	conn := dialAndShake(t, ctx, srv.Addr())
	defer conn.Close()

	if err := writeRequest(conn, Request{Op: OpPing, ID: 5}); err != nil {
		t.Fatalf("writeRequest: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	env, err := readEnvelope(conn)
	if err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	if env.Response == nil || !env.Response.OK {
		t.Fatalf("expected OK response, got %+v", env)
	}
}

func TestWorkerBroadcastsStatusError(t *testing.T) {
	statusErrReply := func(id byte) []byte {
		buf := make([]byte, 16)
		n := codec.EncodeStatusV1(buf, id, 0x01, nil)
		return buf[:n]
	}
	tr := &fakeTransport{reads: [][]byte{statusErrReply(3)}}
	m := master.New(tr, protocol.V1, 0)
	hub := New()
	w := newWorker(m, hub)
	defer w.close()

	cl := &Client{Out: make(chan Event, 4), Closed: make(chan struct{})}
	hub.Add(cl)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := w.submit(ctx, Request{Op: OpPing, ID: 3})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.OK {
		t.Fatalf("expected status error response, got OK")
	}

	select {
	case ev := <-cl.Out:
		if ev.Kind != EventStatusError {
			t.Fatalf("got event kind %v, want EventStatusError", ev.Kind)
		}
	default:
		t.Fatal("expected a broadcast event")
	}
}

