package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Magic is the fixed header constant shared with every deployed client.
// The wire order is little-endian to stay compatible with that fleet.
const Magic uint32 = 0x9E2B83C1

const HeaderLen = 8

var (
	ErrBadMagic        = errors.New("frame: bad header magic")
	ErrEmptyPayload    = errors.New("frame: empty payload")
	ErrPayloadTooLarge = errors.New("frame: payload too large")
	ErrShortHeader     = errors.New("frame: short header")
)

// Header is the fixed wire header: magic followed by the payload byte count.
type Header struct {
	Magic      uint32
	PayloadLen uint32
}

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxPayloadBytes uint32
}

func DefaultLimits() Limits {
	return Limits{
		MaxPayloadBytes: 64 * 1024 * 1024,
	}
}

func EncodeHeader(h Header) []byte {
	buf := make([]byte, HeaderLen)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.PayloadLen)
	return buf
}

func DecodeHeader(b []byte) (Header, error) {
	if len(b) != HeaderLen {
		return Header{}, fmt.Errorf("%w: got %d bytes", ErrShortHeader, len(b))
	}
	return Header{
		Magic:      binary.LittleEndian.Uint32(b[0:4]),
		PayloadLen: binary.LittleEndian.Uint32(b[4:8]),
	}, nil
}

// ValidateHeader enforces the stream invariants: an agreed magic and a
// non-empty payload. A violation poisons the whole stream; callers must
// close the connection rather than resynchronize.
func ValidateHeader(h Header, limits Limits) error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: 0x%08X", ErrBadMagic, h.Magic)
	}
	if h.PayloadLen == 0 {
		return ErrEmptyPayload
	}
	if h.PayloadLen > limits.MaxPayloadBytes {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, h.PayloadLen)
	}
	return nil
}

// payloadFits reports whether a payload of n bytes is within limits.
// The comparison stays in uint64 so lengths past 4GiB cannot wrap
// around a uint32 limit and slip through.
func payloadFits(n uint64, limits Limits) bool {
	return n <= uint64(limits.MaxPayloadBytes)
}

// Encode wraps payload into one complete wire message.
func Encode(payload []byte, limits Limits) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	if !payloadFits(uint64(len(payload)), limits) {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}
	h := Header{Magic: Magic, PayloadLen: uint32(len(payload))}
	out := make([]byte, 0, HeaderLen+len(payload))
	out = append(out, EncodeHeader(h)...)
	out = append(out, payload...)
	return out, nil
}

// Write sends one framed payload, looping until every byte is on the wire.
func Write(w io.Writer, payload []byte, limits Limits) error {
	msg, err := Encode(payload, limits)
	if err != nil {
		return err
	}
	for len(msg) > 0 {
		n, err := w.Write(msg)
		if err != nil {
			return err
		}
		msg = msg[n:]
	}
	return nil
}
