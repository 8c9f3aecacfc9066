package netio

import (
	"errors"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

var (
	// ErrDisconnected reports a graceful close by the peer. Not an error
	// condition for logging purposes; sessions terminate quietly on it.
	ErrDisconnected = errors.New("netio: peer disconnected")

	// ErrFatal reports an aborted or otherwise unusable connection.
	ErrFatal = errors.New("netio: fatal socket error")
)

// Socket is the receive surface ReceiveExactly needs. Recv returns the
// number of bytes placed into b and any transport condition; a
// non-blocking socket with nothing pending reports (0, EWOULDBLOCK).
type Socket interface {
	Recv(b []byte) (int, error)
}

// Reader assembles exact-length reads over a Socket. PollYield, when
// non-zero, is slept between would-block retries; zero keeps the
// original busy-poll behavior.
type Reader struct {
	Sock      Socket
	PollYield time.Duration
}

// ReceiveExactly blocks until exactly n bytes have been collected or a
// terminal condition occurs. It never returns partial data: the result
// is either n bytes and a nil error, or nil and ErrDisconnected /
// ErrFatal. Both frame headers and payloads must come through here so
// that partial reads and would-block retries are handled uniformly.
func (r *Reader) ReceiveExactly(n int) ([]byte, error) {
	buf := make([]byte, n)
	offset := 0
	for offset < n {
		nread, err := r.Sock.Recv(buf[offset:])
		if nread > 0 {
			offset += nread
			continue
		}
		switch classify(err) {
		case condWouldBlock:
			// No data yet on a non-blocking socket; keep waiting.
			if r.PollYield > 0 {
				time.Sleep(r.PollYield)
			}
		case condClosed:
			return nil, ErrDisconnected
		case condAborted:
			return nil, errors.Join(ErrFatal, err)
		default:
			log.Error().Err(err).Msg("unexpected socket error while receiving")
			return nil, errors.Join(ErrFatal, err)
		}
	}
	return buf, nil
}

type condition int

const (
	condWouldBlock condition = iota
	condClosed
	condAborted
	condUnexpected
)

func classify(err error) condition {
	switch {
	case errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR):
		return condWouldBlock
	case err == nil || errors.Is(err, io.EOF):
		// Zero bytes with no error code means the peer closed cleanly.
		return condClosed
	case errors.Is(err, unix.ECONNABORTED) || errors.Is(err, unix.ECONNRESET) ||
		errors.Is(err, unix.ENOTCONN) || errors.Is(err, unix.EPIPE) ||
		errors.Is(err, net.ErrClosed):
		return condAborted
	default:
		return condUnexpected
	}
}

// ConnSocket adapts a net.Conn to the Socket interface.
type ConnSocket struct {
	Conn net.Conn
}

func (s ConnSocket) Recv(b []byte) (int, error) {
	n, err := s.Conn.Read(b)
	if err != nil && n == 0 {
		return 0, err
	}
	return n, nil
}
