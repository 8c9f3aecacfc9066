package server

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/holoscene/simgate/internal/dispatch"
	"github.com/holoscene/simgate/internal/observability"
	"github.com/holoscene/simgate/internal/protocol/frame"
	"github.com/holoscene/simgate/internal/protocol/netio"
)

// Session owns one accepted connection and its worker goroutine. The
// worker runs a strict request/response cycle: one frame in, one frame
// out, in arrival order, with no pipelining. Nothing is shared between
// sessions; a failing session only ever tears itself down.
type Session struct {
	id       string
	endpoint string
	conn     net.Conn
	reader   *netio.Reader
	limits   frame.Limits

	dispatcher *dispatch.Dispatcher
	notify     func(endpoint, command string)
	onClose    func(*Session)

	stop      atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

func newSession(conn net.Conn, d *dispatch.Dispatcher, limits frame.Limits, pollYield time.Duration,
	notify func(endpoint, command string), onClose func(*Session)) *Session {
	return &Session{
		id:         uuid.NewString(),
		endpoint:   conn.RemoteAddr().String(),
		conn:       conn,
		reader:     &netio.Reader{Sock: netio.ConnSocket{Conn: conn}, PollYield: pollYield},
		limits:     limits,
		dispatcher: d,
		notify:     notify,
		onClose:    onClose,
		done:       make(chan struct{}),
	}
}

func (s *Session) ID() string       { return s.id }
func (s *Session) Endpoint() string { return s.endpoint }

// start launches the session worker.
func (s *Session) start() {
	observability.SessionOpened()
	log.Info().Str("session", s.id).Str("endpoint", s.endpoint).Msg("client connected")
	go s.run()
}

func (s *Session) run() {
	defer close(s.done)
	defer s.close()

	for {
		// The stop flag is cooperative: it is only observed here,
		// between request cycles. An in-flight read is unblocked by
		// Stop closing the socket, not by the flag.
		if s.stop.Load() {
			return
		}

		payload, err := s.reader.ReceiveFrame(s.limits)
		if err != nil {
			s.logReadFailure(err)
			return
		}

		command := string(payload)
		if s.notify != nil {
			s.notify(s.endpoint, command)
		}

		started := time.Now()
		result := s.dispatcher.Dispatch(command)
		observability.CommandDispatched(command, result.Outcome == dispatch.OutcomeOK || result.IsBinary(), time.Since(started))

		if err := frame.Write(s.conn, result.Payload(), s.limits); err != nil {
			log.Error().Str("session", s.id).Err(err).Msg("failed to send response")
			return
		}
	}
}

func (s *Session) logReadFailure(err error) {
	switch {
	case errors.Is(err, netio.ErrDisconnected):
		log.Info().Str("session", s.id).Str("endpoint", s.endpoint).
			Msg("connection gracefully closed by the client")
	case s.stop.Load():
		// Stop closed the socket under the read; not a transport fault.
		log.Debug().Str("session", s.id).Msg("read unblocked by stop")
	default:
		log.Error().Str("session", s.id).Str("endpoint", s.endpoint).Err(err).
			Msg("session read failed")
	}
}

// Stop requests shutdown and forces an in-progress read to unblock by
// closing the socket. Safe to call more than once.
func (s *Session) Stop() {
	s.stop.Store(true)
	s.close()
}

// Wait blocks until the worker has fully exited.
func (s *Session) Wait() {
	<-s.done
}

type closeHalves interface {
	CloseRead() error
	CloseWrite() error
}

// close shuts down both socket directions before closing, so the
// listening side is never left with a half-open connection, then
// deregisters the session. Runs exactly once.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		if ch, ok := s.conn.(closeHalves); ok {
			_ = ch.CloseRead()
			_ = ch.CloseWrite()
		}
		_ = s.conn.Close()
		observability.SessionClosed()
		if s.onClose != nil {
			s.onClose(s)
		}
		log.Info().Str("session", s.id).Str("endpoint", s.endpoint).Msg("session closed")
	})
}
