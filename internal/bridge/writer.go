package bridge

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/xzz53/dynamixel-tool/internal/metrics"
)

// startWriter launches the goroutine that multiplexes two outbound
// streams onto a single bridge connection: Request replies (cl.response)
// and Hub-broadcast Events (cl.Out), writing each as a length-prefixed
// CBOR Envelope.
func (s *Server) startWriter(ctxDone <-chan struct{}, conn net.Conn, cl *Client, logger *slog.Logger) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			var env Envelope
			select {
			case resp := <-cl.response:
				env = Envelope{Response: &resp}
			case ev := <-cl.Out:
				env = Envelope{Event: &ev}
			case <-cl.Closed:
				return
			case <-ctxDone:
				return
			}
			if err := writeEnvelope(conn, env); err != nil {
				wrap := fmt.Errorf("%w: %v", ErrConnWrite, err)
				metrics.IncError(mapErrToMetric(wrap))
				s.setError(wrap)
				logger.Warn("conn_write_error", "error", wrap)
				return
			}
		}
	}()
}
