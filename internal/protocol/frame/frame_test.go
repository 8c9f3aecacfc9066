package frame

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payload := []byte("vget /camera/0/location")
	msg, err := Encode(payload, DefaultLimits())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(msg) != HeaderLen+len(payload) {
		t.Fatalf("unexpected message length: %d", len(msg))
	}

	h, err := DecodeHeader(msg[:HeaderLen])
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if err := ValidateHeader(h, DefaultLimits()); err != nil {
		t.Fatalf("validate header: %v", err)
	}
	if h.Magic != Magic {
		t.Fatalf("magic mismatch: 0x%08X", h.Magic)
	}
	if int(h.PayloadLen) != len(payload) {
		t.Fatalf("payload length mismatch: %d", h.PayloadLen)
	}
	if !bytes.Equal(msg[HeaderLen:], payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestEncodeRejectsEmptyPayload(t *testing.T) {
	if _, err := Encode(nil, DefaultLimits()); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
	if _, err := Encode([]byte{}, DefaultLimits()); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
}

func TestValidateHeaderRejectsZeroLength(t *testing.T) {
	h := Header{Magic: Magic, PayloadLen: 0}
	if err := ValidateHeader(h, DefaultLimits()); !errors.Is(err, ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload, got %v", err)
	}
}

func TestValidateHeaderRejectsBadMagic(t *testing.T) {
	h := Header{Magic: 0xDEADBEEF, PayloadLen: 4}
	if err := ValidateHeader(h, DefaultLimits()); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestValidateHeaderRejectsOversizedPayload(t *testing.T) {
	limits := Limits{MaxPayloadBytes: 16}
	h := Header{Magic: Magic, PayloadLen: 17}
	if err := ValidateHeader(h, limits); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestPayloadFitsRejectsLengthsPastUint32(t *testing.T) {
	limits := Limits{MaxPayloadBytes: 1024}
	if !payloadFits(1024, limits) {
		t.Fatalf("limit boundary rejected")
	}
	if payloadFits(1025, limits) {
		t.Fatalf("oversize payload accepted")
	}
	// A length just past 4GiB must not wrap to a small value and pass.
	huge := uint64(1)<<32 + 16
	if payloadFits(huge, limits) {
		t.Fatalf("length %d wrapped around the limit check", huge)
	}
}

func TestDecodeHeaderRejectsShortInput(t *testing.T) {
	if _, err := DecodeHeader([]byte{1, 2, 3}); !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestHeaderWireOrderIsLittleEndian(t *testing.T) {
	msg, err := Encode([]byte("x"), DefaultLimits())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0xC1, 0x83, 0x2B, 0x9E}
	if !bytes.Equal(msg[:4], want) {
		t.Fatalf("magic wire order mismatch: % X", msg[:4])
	}
	if msg[4] != 1 || msg[5] != 0 || msg[6] != 0 || msg[7] != 0 {
		t.Fatalf("length wire order mismatch: % X", msg[4:8])
	}
}

func TestWriteHandlesShortWrites(t *testing.T) {
	payload := []byte("vget /cameras")
	w := &drippingWriter{}
	if err := Write(w, payload, DefaultLimits()); err != nil {
		t.Fatalf("write: %v", err)
	}
	want, _ := Encode(payload, DefaultLimits())
	if !bytes.Equal(w.buf.Bytes(), want) {
		t.Fatalf("written bytes mismatch")
	}
}

// drippingWriter accepts one byte per call.
type drippingWriter struct {
	buf bytes.Buffer
}

func (w *drippingWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	w.buf.WriteByte(p[0])
	return 1, nil
}
