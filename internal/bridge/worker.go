package bridge

import (
	"context"
	"errors"

	"github.com/xzz53/dynamixel-tool/internal/master"
	"github.com/xzz53/dynamixel-tool/internal/protocol"
)

// call pairs a Request with the channel its Response is delivered on.
type call struct {
	req  Request
	resp chan Response
}

// worker serializes every bridge Request onto a single goroutine so that
// concurrent remote callers never race for the half-duplex bus the master
// engine owns exclusively per operation (spec.md §5). Shaped after the
// teacher's transport.AsyncTx fan-in, but request/response rather than
// fire-and-forget.
type worker struct {
	m   *master.Master
	hub *Hub
	ch  chan call
}

func newWorker(m *master.Master, hub *Hub) *worker {
	w := &worker{m: m, hub: hub, ch: make(chan call, 64)}
	go w.loop()
	return w
}

func (w *worker) loop() {
	for c := range w.ch {
		c.resp <- w.execute(c.req)
	}
}

// submit blocks until the request has been executed (or ctx is done) and
// returns its Response.
func (w *worker) submit(ctx context.Context, req Request) (Response, error) {
	c := call{req: req, resp: make(chan Response, 1)}
	select {
	case w.ch <- c:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
	select {
	case resp := <-c.resp:
		return resp, nil
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

func (w *worker) close() { close(w.ch) }

func (w *worker) execute(req Request) Response {
	switch req.Op {
	case OpPing:
		err := w.m.Ping(req.ID)
		return w.reply(req, nil, nil, err)
	case OpScan:
		found, err := w.m.Scan(req.Start, req.End)
		if err == nil {
			w.hub.Broadcast(Event{Kind: EventScanProgress, Op: OpScan, Found: found})
		}
		return w.reply(req, found, nil, err)
	case OpRead:
		data, err := w.m.Read(req.ID, req.Address, req.Count)
		return w.reply(req, data, nil, err)
	case OpWrite:
		err := w.m.Write(req.ID, req.Address, req.Data)
		return w.reply(req, nil, nil, err)
	case OpSyncRead:
		datas, err := w.m.SyncRead(req.IDs, req.Address, req.Count)
		return w.reply(req, nil, datas, err)
	case OpSyncWrite:
		err := w.m.SyncWrite(req.IDs, req.Address, req.Datas)
		return w.reply(req, nil, nil, err)
	default:
		return Response{OK: false, Error: "unknown op: " + string(req.Op)}
	}
}

// reply builds a Response and, on failure, broadcasts the matching event:
// a StatusError from the device surfaces as EventStatusError, any other
// failure (which only reaches here after the master engine's own retry
// budget is exhausted) surfaces as EventRetryExhausted.
func (w *worker) reply(req Request, data []byte, datas [][]byte, err error) Response {
	if err != nil {
		var ev Event
		if errors.Is(err, protocol.ErrStatus) {
			ev = Event{Kind: EventStatusError, ID: req.ID, Op: req.Op, Address: req.Address, Message: err.Error()}
		} else {
			ev = Event{Kind: EventRetryExhausted, ID: req.ID, Op: req.Op, Address: req.Address, Message: err.Error()}
		}
		w.hub.Broadcast(ev)
		return Response{OK: false, Error: err.Error()}
	}
	return Response{OK: true, Data: data, Datas: datas}
}
