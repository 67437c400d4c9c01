// Package master implements the synchronous request/response engine that
// drives one or many daisy-chained Dynamixel servos over a half-duplex
// link. Every public operation owns the transport for its full duration:
// one write, followed by exactly the number of reply bytes the operation
// is known to need (spec.md §4.2.3).
package master

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/xzz53/dynamixel-tool/internal/codec"
	"github.com/xzz53/dynamixel-tool/internal/metrics"
	"github.com/xzz53/dynamixel-tool/internal/protocol"
	"github.com/xzz53/dynamixel-tool/internal/transport"
)

// defaultReadDeadline is the per-read timeout applied to every transport
// read issued by the master, per spec.md §3 ("default 10 ms on the master
// transport").
const defaultReadDeadline = 10 * time.Millisecond

// bufCap is sized to the largest possible V2 frame (65535 declared length
// plus the 7-byte prefix); V1 frames fit comfortably within it too.
const bufCap = 65535 + 16

// Master is a synchronous, single-threaded engine bound to one transport
// and one protocol version for its lifetime. It is not safe for concurrent
// use by multiple goroutines — the bus is half-duplex and only one
// operation may be in flight at a time (spec.md §5).
type Master struct {
	tr           transport.Transport
	version      protocol.Version
	retries      int
	readDeadline time.Duration
}

// Option configures a Master at construction time.
type Option func(*Master)

// WithReadDeadline overrides the per-read timeout (default 10ms).
func WithReadDeadline(d time.Duration) Option {
	return func(m *Master) {
		if d > 0 {
			m.readDeadline = d
		}
	}
}

// New constructs a Master bound to tr for the given protocol version, with
// retries additional attempts allowed per operation (total attempts =
// retries+1).
func New(tr transport.Transport, version protocol.Version, retries int, opts ...Option) *Master {
	m := &Master{
		tr:           tr,
		version:      version,
		retries:      retries,
		readDeadline: defaultReadDeadline,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Version reports the protocol version this engine was constructed with.
func (m *Master) Version() protocol.Version { return m.version }

func (m *Master) attempts() int { return m.retries + 1 }

// recordAttempt classifies a single attempt's outcome for the metrics
// counters; it never alters control flow.
func recordAttempt(attempt int, err error) {
	if attempt > 0 {
		metrics.IncRetry()
	}
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, protocol.ErrTimedOut):
		metrics.IncTimeout()
	case errors.Is(err, protocol.ErrStatus):
		metrics.IncStatusError()
	case errors.Is(err, protocol.ErrBadPacket):
		metrics.IncMalformed()
	}
}

// Scan pings every ID in [start, end) and collects those that replied
// successfully within the per-ID retry budget. It always returns a nil
// error — per spec.md §4.2.2, scan's inner retry never surfaces a failure,
// it simply omits unresponsive IDs from the result.
func (m *Master) Scan(start, end byte) ([]byte, error) {
	var found []byte
	for id := int(start); id < int(end); id++ {
		for attempt := 0; attempt < m.attempts(); attempt++ {
			if err := m.Ping(byte(id)); err == nil {
				found = append(found, byte(id))
				break
			}
		}
	}
	return found, nil
}

// Ping verifies that a device with the given id is present and responding.
func (m *Master) Ping(id byte) error {
	metrics.IncRequest()
	var lastErr error
	for attempt := 0; attempt < m.attempts(); attempt++ {
		err := m.ping1(id)
		recordAttempt(attempt, err)
		if err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

func (m *Master) ping1(id byte) error {
	buf := make([]byte, bufCap)
	n := m.encode(buf, id, protocol.Ping, nil)
	if err := m.tr.WriteAll(buf[:n]); err != nil {
		return err
	}

	var readLen int
	switch m.version {
	case protocol.V1:
		readLen = 6
	default:
		// The source reads 14 bytes for a V2 ping reply even though the
		// minimal (zero-param) reply is 11 bytes; preserved verbatim per
		// spec.md §9 open question 1 rather than guessed at.
		readLen = 14
	}
	reply := buf[:readLen]
	if err := m.tr.ReadExact(reply, m.readDeadline); err != nil {
		return err
	}
	scratch := make([]byte, readLen)
	return m.decode(reply, scratch)
}

// Read reads count bytes starting at address addr from device id.
func (m *Master) Read(id byte, addr, count uint16) ([]byte, error) {
	if m.version == protocol.V1 {
		if addr > 0xFE {
			return nil, protocol.ErrInvalidAddress
		}
		if count > 0xFF {
			return nil, protocol.ErrInvalidCount
		}
	}

	metrics.IncRequest()
	var lastErr error
	for attempt := 0; attempt < m.attempts(); attempt++ {
		data, err := m.read1(id, addr, count)
		recordAttempt(attempt, err)
		if err != nil {
			lastErr = err
			continue
		}
		return data, nil
	}
	return nil, lastErr
}

func (m *Master) read1(id byte, addr, count uint16) ([]byte, error) {
	buf := make([]byte, bufCap)
	params := make([]byte, 4)
	binary.LittleEndian.PutUint16(params[0:2], addr)
	binary.LittleEndian.PutUint16(params[2:4], count)
	if m.version == protocol.V1 {
		params = []byte{byte(addr), byte(count)}
	}

	n := m.encode(buf, id, protocol.Read, params)
	if err := m.tr.WriteAll(buf[:n]); err != nil {
		return nil, err
	}

	readLen := m.statusOverhead() + int(count)
	reply := buf[:readLen]
	if err := m.tr.ReadExact(reply, m.readDeadline); err != nil {
		return nil, err
	}
	out := make([]byte, count)
	if err := m.decode(reply, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Write writes data starting at address addr on device id.
func (m *Master) Write(id byte, addr uint16, data []byte) error {
	if m.version == protocol.V1 && addr > 0xFF {
		return protocol.ErrInvalidAddress
	}

	metrics.IncRequest()
	var lastErr error
	for attempt := 0; attempt < m.attempts(); attempt++ {
		err := m.write1(id, addr, data)
		recordAttempt(attempt, err)
		if err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

func (m *Master) write1(id byte, addr uint16, data []byte) error {
	buf := make([]byte, bufCap)
	var params []byte
	if m.version == protocol.V1 {
		params = make([]byte, 1+len(data))
		params[0] = byte(addr)
		copy(params[1:], data)
	} else {
		params = make([]byte, 2+len(data))
		binary.LittleEndian.PutUint16(params[0:2], addr)
		copy(params[2:], data)
	}

	n := m.encode(buf, id, protocol.Write, params)
	if err := m.tr.WriteAll(buf[:n]); err != nil {
		return err
	}

	readLen := m.statusOverhead()
	reply := buf[:readLen]
	if err := m.tr.ReadExact(reply, m.readDeadline); err != nil {
		return err
	}
	return m.decode(reply, nil)
}

// SyncWrite issues a single V2 broadcast write of len(data[i]) bytes to
// each ids[i], starting at addr. It is Protocol 2 only and expects no
// reply. All payloads must share the same length (spec.md §9 open
// question 4): the source derives the sync-write block size from
// data[0], so unequal lengths are rejected as ErrInvalidArg before any
// I/O rather than silently truncated or padded.
func (m *Master) SyncWrite(ids []byte, addr uint16, data [][]byte) error {
	if m.version != protocol.V2 {
		return protocol.ErrInvalidArg
	}
	if len(ids) != len(data) {
		return protocol.ErrInvalidArg
	}
	if len(data) == 0 {
		return protocol.ErrInvalidArg
	}
	blockLen := len(data[0])
	for _, d := range data {
		if len(d) != blockLen {
			return protocol.ErrInvalidArg
		}
	}

	metrics.IncRequest()
	var lastErr error
	for attempt := 0; attempt < m.attempts(); attempt++ {
		err := m.syncWrite1(ids, addr, data, blockLen)
		recordAttempt(attempt, err)
		if err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

func (m *Master) syncWrite1(ids []byte, addr uint16, data [][]byte, blockLen int) error {
	buf := make([]byte, bufCap)
	params := make([]byte, 0, 4+len(ids)*(1+blockLen))
	head := make([]byte, 4)
	binary.LittleEndian.PutUint16(head[0:2], addr)
	binary.LittleEndian.PutUint16(head[2:4], uint16(blockLen))
	params = append(params, head...)
	for i, id := range ids {
		params = append(params, id)
		params = append(params, data[i]...)
	}

	n := m.encode(buf, protocol.BroadcastID, protocol.SyncWrite, params)
	return m.tr.WriteAll(buf[:n])
}

// SyncRead issues a single V2 broadcast read and then reads one status
// packet per ID, in list order. A failure on any one reply fails the
// whole call (retried as a unit, per spec.md §4.2.3).
func (m *Master) SyncRead(ids []byte, addr, count uint16) ([][]byte, error) {
	if m.version != protocol.V2 {
		return nil, protocol.ErrInvalidArg
	}

	metrics.IncRequest()
	metrics.SetSyncReadDevices(len(ids))
	var lastErr error
	for attempt := 0; attempt < m.attempts(); attempt++ {
		data, err := m.syncRead1(ids, addr, count)
		recordAttempt(attempt, err)
		if err != nil {
			lastErr = err
			continue
		}
		return data, nil
	}
	return nil, lastErr
}

func (m *Master) syncRead1(ids []byte, addr, count uint16) ([][]byte, error) {
	buf := make([]byte, bufCap)
	params := make([]byte, 4+len(ids))
	binary.LittleEndian.PutUint16(params[0:2], addr)
	binary.LittleEndian.PutUint16(params[2:4], count)
	copy(params[4:], ids)

	n := m.encode(buf, protocol.BroadcastID, protocol.SyncRead, params)
	if err := m.tr.WriteAll(buf[:n]); err != nil {
		return nil, err
	}

	readLen := m.statusOverhead() + int(count)
	result := make([][]byte, 0, len(ids))
	for range ids {
		reply := buf[:readLen]
		if err := m.tr.ReadExact(reply, m.readDeadline); err != nil {
			return nil, err
		}
		out := make([]byte, count)
		if err := m.decode(reply, out); err != nil {
			return nil, err
		}
		result = append(result, out)
	}
	return result, nil
}

// statusOverhead is the number of non-parameter bytes in a status reply:
// 6 for V1, 11 for V2 (spec.md §4.2.3).
func (m *Master) statusOverhead() int {
	if m.version == protocol.V1 {
		return 6
	}
	return 11
}

func (m *Master) encode(buf []byte, id byte, opcode protocol.Opcode, params []byte) int {
	if m.version == protocol.V1 {
		return codec.EncodeV1(buf, id, opcode, params)
	}
	return codec.EncodeV2(buf, id, opcode, params)
}

func (m *Master) decode(buf []byte, out []byte) error {
	if out == nil {
		out = make([]byte, 0)
	}
	if m.version == protocol.V1 {
		_, err := codec.DecodeV1(buf, out)
		return err
	}
	_, err := codec.DecodeV2(buf, out)
	return err
}
