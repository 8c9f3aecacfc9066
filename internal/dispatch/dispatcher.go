package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicatePattern = errors.New("dispatch: pattern already registered")
)

// Handler executes one matched command. Arguments arrive already
// validated against the placeholder grammar; any semantic validation
// (does this id exist, is the value in range) is the handler's job and
// is reported through the returned ExecResult, never by panicking.
type Handler func(args []string) ExecResult

type binding struct {
	pattern     pattern
	handler     Handler
	description string
}

// BindingInfo describes one registered command for listings.
type BindingInfo struct {
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
}

// Dispatcher routes command text to registered handlers. Registration
// happens once at startup before any session runs; lookups afterwards
// need no synchronization because the registry is read-only.
//
// Registration order is load-bearing: when several patterns could match
// the same input, the earliest registration wins.
type Dispatcher struct {
	bindings []binding
	seen     map[string]struct{}
}

func New() *Dispatcher {
	return &Dispatcher{seen: make(map[string]struct{})}
}

func (d *Dispatcher) Register(patternText string, h Handler, description string) error {
	if h == nil {
		return fmt.Errorf("dispatch: nil handler for %q", patternText)
	}
	p, err := parsePattern(patternText)
	if err != nil {
		return err
	}
	if _, dup := d.seen[p.text]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicatePattern, p.text)
	}
	d.seen[p.text] = struct{}{}
	d.bindings = append(d.bindings, binding{
		pattern:     p,
		handler:     h,
		description: description,
	})
	return nil
}

// MustRegister is Register for startup wiring where a bad pattern is a
// programming error.
func (d *Dispatcher) MustRegister(patternText string, h Handler, description string) {
	if err := d.Register(patternText, h, description); err != nil {
		panic(err)
	}
}

// Dispatch matches commandText against every registered pattern in
// registration order and invokes the first match. A command no pattern
// accepts produces an Error result; the connection itself is unaffected.
func (d *Dispatcher) Dispatch(commandText string) ExecResult {
	tokens := strings.Fields(commandText)
	if len(tokens) == 0 {
		return Errorf("empty command")
	}
	for _, b := range d.bindings {
		args, ok := b.pattern.match(tokens)
		if !ok {
			continue
		}
		return b.handler(args)
	}
	return Errorf("can not find a handler for command %q", commandText)
}

// Bindings lists registered commands in registration order.
func (d *Dispatcher) Bindings() []BindingInfo {
	out := make([]BindingInfo, 0, len(d.bindings))
	for _, b := range d.bindings {
		out = append(out, BindingInfo{Pattern: b.pattern.text, Description: b.description})
	}
	return out
}

// HelpText renders one line per registered command.
func (d *Dispatcher) HelpText() string {
	var sb strings.Builder
	for _, b := range d.bindings {
		sb.WriteString(b.pattern.text)
		if b.description != "" {
			sb.WriteString("\t")
			sb.WriteString(b.description)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
