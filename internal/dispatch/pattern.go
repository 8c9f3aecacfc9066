package dispatch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrBadPattern = errors.New("dispatch: malformed pattern")
)

// ArgKind is the declared type of one placeholder.
type ArgKind int

const (
	ArgUint ArgKind = iota
	ArgFloat
	ArgStr
)

func (k ArgKind) String() string {
	switch k {
	case ArgUint:
		return "uint"
	case ArgFloat:
		return "float"
	default:
		return "str"
	}
}

// part is one run within a segment: either literal text that must match
// verbatim or a typed placeholder capturing a substring.
type part struct {
	literal string
	kind    ArgKind
	isPH    bool
}

// segment matches exactly one whitespace-delimited token of the input.
// Placeholders may be embedded inside a path-style token, so a segment
// is a sequence of parts rather than a single classification.
type segment struct {
	parts []part
}

// pattern is the compiled form of one registered pattern text. Parsing
// happens once at registration; matching is positional comparison only.
type pattern struct {
	text     string
	segments []segment
	argc     int
}

func parsePattern(text string) (pattern, error) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return pattern{}, fmt.Errorf("%w: empty pattern", ErrBadPattern)
	}
	p := pattern{text: text}
	for _, tok := range tokens {
		seg, nPH, err := parseSegment(tok)
		if err != nil {
			return pattern{}, err
		}
		p.segments = append(p.segments, seg)
		p.argc += nPH
	}
	return p, nil
}

func parseSegment(tok string) (segment, int, error) {
	var seg segment
	nPH := 0
	rest := tok
	for rest != "" {
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			seg.parts = append(seg.parts, part{literal: rest})
			break
		}
		closeIdx := strings.IndexByte(rest, ']')
		if closeIdx < open {
			return segment{}, 0, fmt.Errorf("%w: unbalanced brackets in %q", ErrBadPattern, tok)
		}
		if open > 0 {
			seg.parts = append(seg.parts, part{literal: rest[:open]})
		}
		kind, err := parseKind(rest[open+1 : closeIdx])
		if err != nil {
			return segment{}, 0, fmt.Errorf("%w: %s in %q", ErrBadPattern, err, tok)
		}
		seg.parts = append(seg.parts, part{kind: kind, isPH: true})
		nPH++
		rest = rest[closeIdx+1:]
	}
	return seg, nPH, nil
}

func parseKind(name string) (ArgKind, error) {
	switch name {
	case "uint":
		return ArgUint, nil
	case "float":
		return ArgFloat, nil
	case "str":
		return ArgStr, nil
	default:
		return ArgStr, fmt.Errorf("unknown placeholder %q", name)
	}
}

// match compares a tokenized command against the pattern. On success it
// returns the extracted placeholder values in left-to-right order.
func (p pattern) match(tokens []string) ([]string, bool) {
	if len(tokens) != len(p.segments) {
		return nil, false
	}
	args := make([]string, 0, p.argc)
	for i, seg := range p.segments {
		vals, ok := seg.match(tokens[i])
		if !ok {
			return nil, false
		}
		args = append(args, vals...)
	}
	return args, true
}

func (s segment) match(tok string) ([]string, bool) {
	var vals []string
	rest := tok
	for i, pt := range s.parts {
		if !pt.isPH {
			if !strings.HasPrefix(rest, pt.literal) {
				return nil, false
			}
			rest = rest[len(pt.literal):]
			continue
		}
		// A placeholder captures up to the next literal run, or the
		// remainder of the token when it is the trailing part.
		var raw string
		if i+1 < len(s.parts) {
			next := s.parts[i+1].literal
			at := strings.Index(rest, next)
			if at < 0 {
				return nil, false
			}
			raw, rest = rest[:at], rest[at:]
		} else {
			raw, rest = rest, ""
		}
		if !acceptValue(pt.kind, raw) {
			return nil, false
		}
		vals = append(vals, raw)
	}
	if rest != "" {
		return nil, false
	}
	return vals, true
}

func acceptValue(kind ArgKind, raw string) bool {
	if raw == "" {
		return false
	}
	switch kind {
	case ArgUint:
		_, err := strconv.ParseUint(raw, 10, 32)
		return err == nil
	case ArgFloat:
		_, err := strconv.ParseFloat(raw, 64)
		return err == nil
	default:
		return true
	}
}
