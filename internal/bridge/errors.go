package bridge

import (
	"errors"

	"github.com/xzz53/dynamixel-tool/internal/metrics"
)

// Sentinel errors wrapped with %w at the point of origin so callers can
// classify failures via errors.Is without string matching.
var (
	ErrListen    = errors.New("listen")
	ErrAccept    = errors.New("accept")
	ErrHandshake = errors.New("handshake")
	ErrConnRead  = errors.New("conn_read")
	ErrConnWrite = errors.New("conn_write")
	ErrContext   = errors.New("context_cancelled")
)

// mapErrToMetric maps a wrapped sentinel error to a metrics label.
func mapErrToMetric(err error) string {
	switch {
	case errors.Is(err, ErrConnRead):
		return metrics.ErrBridgeRead
	case errors.Is(err, ErrConnWrite):
		return metrics.ErrBridgeWrite
	case errors.Is(err, ErrHandshake):
		return metrics.ErrHandshake
	case errors.Is(err, ErrAccept), errors.Is(err, ErrListen):
		return metrics.ErrBridgeRead
	case errors.Is(err, ErrContext):
		return "context"
	default:
		return "other"
	}
}
