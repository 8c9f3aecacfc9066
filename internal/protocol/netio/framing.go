package netio

import (
	"github.com/holoscene/simgate/internal/protocol/frame"
)

// ReceiveFrame reads one complete framed payload: the fixed header
// first, then exactly the advertised number of payload bytes. Header
// violations come back as frame sentinel errors; the caller must treat
// them as stream-poisoning and close the connection.
func (r *Reader) ReceiveFrame(limits frame.Limits) ([]byte, error) {
	hb, err := r.ReceiveExactly(frame.HeaderLen)
	if err != nil {
		return nil, err
	}
	h, err := frame.DecodeHeader(hb)
	if err != nil {
		return nil, err
	}
	if err := frame.ValidateHeader(h, limits); err != nil {
		return nil, err
	}
	return r.ReceiveExactly(int(h.PayloadLen))
}
