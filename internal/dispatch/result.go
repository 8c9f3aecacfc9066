package dispatch

import "fmt"

// Outcome tags one command execution result.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeOKBinary
	OutcomeError
	OutcomeInvalidArgument
)

// ExecResult is the single tagged outcome a handler produces per
// dispatched command. Exactly one of Message or Binary is meaningful,
// selected by Outcome.
type ExecResult struct {
	Outcome Outcome
	Message string
	Binary  []byte
}

func OK() ExecResult {
	return ExecResult{Outcome: OutcomeOK}
}

func OKMsg(format string, args ...any) ExecResult {
	return ExecResult{Outcome: OutcomeOK, Message: fmt.Sprintf(format, args...)}
}

func OKBinary(data []byte) ExecResult {
	return ExecResult{Outcome: OutcomeOKBinary, Binary: data}
}

func Errorf(format string, args ...any) ExecResult {
	return ExecResult{Outcome: OutcomeError, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument() ExecResult {
	return ExecResult{Outcome: OutcomeInvalidArgument, Message: "argument error"}
}

// IsBinary reports whether the payload must be sent as an opaque blob.
func (r ExecResult) IsBinary() bool {
	return r.Outcome == OutcomeOKBinary
}

// Payload serializes the result for the wire. Plain OK without a
// message becomes "ok"; failures carry the "error " prefix the client
// fleet checks for.
func (r ExecResult) Payload() []byte {
	switch r.Outcome {
	case OutcomeOKBinary:
		return r.Binary
	case OutcomeOK:
		if r.Message == "" {
			return []byte("ok")
		}
		return []byte(r.Message)
	default:
		return []byte("error " + r.Message)
	}
}
