package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/xzz53/dynamixel-tool/internal/metrics"
)

// startReader launches the goroutine that decodes Request frames from conn
// and submits each to the server's worker, queuing the Response for
// delivery via cl's output path.
func (s *Server) startReader(ctx context.Context, ctxDone <-chan struct{}, conn net.Conn, cl *Client, logger *slog.Logger) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			req, err := readRequest(conn)
			if err != nil {
				if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
					wrap := fmt.Errorf("%w: %v", ErrConnRead, err)
					metrics.IncError(mapErrToMetric(wrap))
					s.setError(wrap)
					logger.Warn("conn_read_error", "error", wrap)
				}
				s.disconnect(conn, cl, logger)
				return
			}

			resp, err := s.worker.submit(ctx, req)
			if err != nil {
				s.disconnect(conn, cl, logger)
				return
			}
			select {
			case cl.response <- resp:
			case <-cl.Closed:
				return
			case <-ctxDone:
				return
			}
		}
	}()
}

func (s *Server) disconnect(conn net.Conn, cl *Client, logger *slog.Logger) {
	_ = conn.Close()
	s.Hub.Remove(cl)
	s.clientsMu.Lock()
	delete(s.clients, cl)
	s.clientsMu.Unlock()
	s.totalDisconnected.Add(1)
	logger.Info("client_disconnected")
}
