package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/holoscene/simgate/internal/dispatch"
	"github.com/holoscene/simgate/internal/protocol/frame"
)

var ErrAlreadyStarted = errors.New("server: already started")

// ReceivedListener observes every decoded command. Listeners run
// synchronously on the owning session's goroutine, in registration
// order, before the command is answered.
type ReceivedListener func(endpoint, command string)

// Config carries the transport settings for one Server.
type Config struct {
	// TCPAddr is the host:port to listen on. Empty disables TCP.
	TCPAddr string
	// UnixSocket is a filesystem path for a local domain socket
	// speaking the same framed protocol. Empty disables it.
	UnixSocket string
	// PollYield is slept between would-block retries in the receive
	// loop. Zero busy-polls, matching the original behavior.
	PollYield time.Duration

	Limits frame.Limits
}

// Server accepts connections and runs one Session per client. The
// dispatcher must be fully populated before Start; it is treated as
// read-only from then on.
type Server struct {
	cfg        Config
	dispatcher *dispatch.Dispatcher

	mu        sync.Mutex
	started   bool
	listeners []net.Listener
	sessions  map[string]*Session
	received  []ReceivedListener

	acceptWG sync.WaitGroup
}

func New(cfg Config, d *dispatch.Dispatcher) *Server {
	if cfg.Limits.MaxPayloadBytes == 0 {
		cfg.Limits = frame.DefaultLimits()
	}
	return &Server{
		cfg:        cfg,
		dispatcher: d,
		sessions:   make(map[string]*Session),
	}
}

// OnReceived registers a listener for decoded commands.
func (s *Server) OnReceived(fn ReceivedListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, fn)
}

// Start binds the configured listeners and begins accepting. Each
// accepted connection gets its own Session and worker goroutine, so a
// slow client never stalls the accept path or other sessions.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	if s.cfg.TCPAddr == "" && s.cfg.UnixSocket == "" {
		return errors.New("server: no listen address configured")
	}

	if s.cfg.TCPAddr != "" {
		ln, err := net.Listen("tcp", s.cfg.TCPAddr)
		if err != nil {
			return fmt.Errorf("server: listen tcp %s: %w", s.cfg.TCPAddr, err)
		}
		s.listeners = append(s.listeners, ln)
		log.Info().Str("addr", ln.Addr().String()).Msg("listening on tcp")
	}
	if s.cfg.UnixSocket != "" {
		// A stale socket file from an unclean shutdown blocks the bind.
		if err := removeStaleSocket(s.cfg.UnixSocket); err != nil {
			s.closeListenersLocked()
			return err
		}
		ln, err := net.Listen("unix", s.cfg.UnixSocket)
		if err != nil {
			s.closeListenersLocked()
			return fmt.Errorf("server: listen unix %s: %w", s.cfg.UnixSocket, err)
		}
		s.listeners = append(s.listeners, ln)
		log.Info().Str("path", s.cfg.UnixSocket).Msg("listening on unix socket")
	}

	s.started = true
	for _, ln := range s.listeners {
		s.acceptWG.Add(1)
		go s.acceptLoop(ln)
	}
	return nil
}

// TCPAddr reports the bound TCP address, useful when configured with
// port 0.
func (s *Server) TCPAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ln := range s.listeners {
		if addr, ok := ln.Addr().(*net.TCPAddr); ok {
			return addr
		}
	}
	return nil
}

func (s *Server) acceptLoop(ln net.Listener) {
	defer s.acceptWG.Done()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Error().Err(err).Msg("accept failed")
			return
		}
		sess := newSession(conn, s.dispatcher, s.cfg.Limits, s.cfg.PollYield,
			s.broadcastReceived, s.removeSession)
		if !s.addSession(sess) {
			// Stop won the race between Accept and registration; this
			// session would otherwise outlive shutdown unobserved.
			sess.Stop()
			return
		}
		sess.start()
	}
}

// addSession registers a session unless the server is already stopping.
// A refused session is the caller's to tear down.
func (s *Server) addSession(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return false
	}
	s.sessions[sess.ID()] = sess
	return true
}

func (s *Server) removeSession(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess.ID())
}

func (s *Server) broadcastReceived(endpoint, command string) {
	s.mu.Lock()
	listeners := make([]ReceivedListener, len(s.received))
	copy(listeners, s.received)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(endpoint, command)
	}
}

// SessionCount reports the number of live sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SessionInfo describes one live session for listings.
type SessionInfo struct {
	ID       string `json:"id"`
	Endpoint string `json:"endpoint"`
}

// Sessions lists the live sessions, sorted by id for stable output.
func (s *Server) Sessions() []SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SessionInfo, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, SessionInfo{ID: sess.ID(), Endpoint: sess.Endpoint()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stop closes the listeners, stops every session, and waits for all
// workers to exit before releasing the unix socket path.
func (s *Server) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.closeListenersLocked()
	active := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		active = append(active, sess)
	}
	s.mu.Unlock()

	for _, sess := range active {
		sess.Stop()
	}
	for _, sess := range active {
		sess.Wait()
	}
	s.acceptWG.Wait()

	if s.cfg.UnixSocket != "" {
		_ = os.Remove(s.cfg.UnixSocket)
	}
	log.Info().Msg("server stopped")
}

func (s *Server) closeListenersLocked() {
	for _, ln := range s.listeners {
		_ = ln.Close()
	}
	s.listeners = nil
}

func removeStaleSocket(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("server: stat unix socket %s: %w", path, err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("server: remove stale unix socket %s: %w", path, err)
	}
	return nil
}
