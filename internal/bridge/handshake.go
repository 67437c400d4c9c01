package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// hello is the bridge's wire identifier, exchanged verbatim by both ends
// before any framed traffic — mirrors the teacher's CANNELLONIv1 hello.
const hello = "DYNAMIXELv1"

// Handshake performs the simultaneous hello exchange required before a
// connection is accepted as a bridge client.
func Handshake(ctx context.Context, c net.Conn, timeout time.Duration) error {
	if err := c.SetDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	defer c.SetDeadline(time.Time{})

	errCh := make(chan error, 2)

	go func() {
		_, err := io.WriteString(c, hello)
		errCh <- err
	}()

	go func() {
		buf := make([]byte, len(hello))
		_, err := io.ReadFull(c, buf)
		if err == nil && string(buf) != hello {
			err = errors.New("bad hello")
		}
		errCh <- err
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("handshake: %w", err)
			}
		}
	}
	return nil
}
