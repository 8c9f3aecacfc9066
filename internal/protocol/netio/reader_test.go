package netio

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/holoscene/simgate/internal/protocol/frame"
	"github.com/holoscene/simgate/internal/testutil/testlog"
)

// step is one scripted Recv outcome for the fake socket.
type step struct {
	data []byte
	err  error
}

// scriptSocket replays a fixed sequence of receive outcomes,
// simulating partial reads, would-block conditions, and terminal
// errors in any order.
type scriptSocket struct {
	steps []step
	calls int
}

func (s *scriptSocket) Recv(b []byte) (int, error) {
	if s.calls >= len(s.steps) {
		return 0, io.EOF
	}
	st := s.steps[s.calls]
	s.calls++
	n := copy(b, st.data)
	return n, st.err
}

func oneBytePer(data []byte) []step {
	steps := make([]step, 0, len(data))
	for _, b := range data {
		steps = append(steps, step{data: []byte{b}})
	}
	return steps
}

func TestReceiveExactlyAssemblesOneByteChunks(t *testing.T) {
	testlog.Start(t)
	want := []byte("vget /camera/0/fov")
	r := &Reader{Sock: &scriptSocket{steps: oneBytePer(want)}}
	got, err := r.ReceiveExactly(len(want))
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("assembled bytes mismatch: %q", got)
	}
}

func TestReceiveExactlyRetriesWouldBlock(t *testing.T) {
	testlog.Start(t)
	want := []byte("abcd")
	steps := []step{
		{data: want[:1]},
		{err: unix.EWOULDBLOCK},
		{err: unix.EAGAIN},
		{data: want[1:3]},
		{err: unix.EWOULDBLOCK},
		{data: want[3:]},
	}
	r := &Reader{Sock: &scriptSocket{steps: steps}}
	got, err := r.ReceiveExactly(len(want))
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("offset corrupted across would-block retries: %q", got)
	}
}

func TestReceiveExactlyGracefulClose(t *testing.T) {
	testlog.Start(t)
	r := &Reader{Sock: &scriptSocket{steps: []step{{data: []byte("ab")}, {err: nil}}}}
	_, err := r.ReceiveExactly(4)
	if !errors.Is(err, ErrDisconnected) {
		t.Fatalf("expected ErrDisconnected, got %v", err)
	}
}

func TestReceiveExactlyEOFIsDisconnect(t *testing.T) {
	testlog.Start(t)
	r := &Reader{Sock: &scriptSocket{steps: []step{{err: io.EOF}}}}
	_, err := r.ReceiveExactly(1)
	if !errors.Is(err, ErrDisconnected) {
		t.Fatalf("expected ErrDisconnected, got %v", err)
	}
}

func TestReceiveExactlyAbortIsFatal(t *testing.T) {
	testlog.Start(t)
	for _, errno := range []error{unix.ECONNABORTED, unix.ECONNRESET, unix.ENOTCONN} {
		r := &Reader{Sock: &scriptSocket{steps: []step{{err: errno}}}}
		_, err := r.ReceiveExactly(1)
		if !errors.Is(err, ErrFatal) {
			t.Fatalf("expected ErrFatal for %v, got %v", errno, err)
		}
		if !errors.Is(err, errno) {
			t.Fatalf("underlying errno %v not preserved: %v", errno, err)
		}
	}
}

func TestReceiveExactlyUnexpectedErrorIsFatal(t *testing.T) {
	testlog.Start(t)
	boom := errors.New("weird transport condition")
	r := &Reader{Sock: &scriptSocket{steps: []step{{err: boom}}}}
	_, err := r.ReceiveExactly(1)
	if !errors.Is(err, ErrFatal) {
		t.Fatalf("expected ErrFatal, got %v", err)
	}
}

func TestReceiveFrameRoundTripInSmallChunks(t *testing.T) {
	testlog.Start(t)
	payload := []byte("vset /camera/0/rotation 0.0 90.0 0.0")
	msg, err := frame.Encode(payload, frame.DefaultLimits())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	r := &Reader{Sock: &scriptSocket{steps: oneBytePer(msg)}}
	got, err := r.ReceiveFrame(frame.DefaultLimits())
	if err != nil {
		t.Fatalf("receive frame: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %q", got)
	}
}

func TestReceiveFrameRejectsBadMagic(t *testing.T) {
	testlog.Start(t)
	msg := frame.EncodeHeader(frame.Header{Magic: 0x01020304, PayloadLen: 4})
	r := &Reader{Sock: &scriptSocket{steps: []step{{data: msg}}}}
	_, err := r.ReceiveFrame(frame.DefaultLimits())
	if !errors.Is(err, frame.ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestReceiveFrameRejectsEmptyPayload(t *testing.T) {
	testlog.Start(t)
	msg := frame.EncodeHeader(frame.Header{Magic: frame.Magic, PayloadLen: 0})
	r := &Reader{Sock: &scriptSocket{steps: []step{{data: msg}}}}
	_, err := r.ReceiveFrame(frame.DefaultLimits())
	if !errors.Is(err, frame.ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
}
