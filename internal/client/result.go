package client

import (
	"errors"

	"github.com/rbright/notifyctl/internal/protocol"
)

// ErrConnectionRefused marks dials that found no listener at the endpoint.
var ErrConnectionRefused = errors.New("connection refused")

const refusedText = "ERROR: Connection refused. Is the server running?"

// Kind classifies how a round trip ended.
type Kind int

const (
	KindDelivered Kind = iota
	KindConnectionRefused
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindDelivered:
		return "delivered"
	case KindConnectionRefused:
		return "connection_refused"
	case KindTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one request/response exchange.
// Reply is only meaningful for KindDelivered; Err is set for every other kind.
type Result struct {
	Kind  Kind
	Reply protocol.Reply
	Err   error
}

// OK reports whether the peer was reached and answered (possibly with nothing).
func (r Result) OK() bool {
	return r.Kind == KindDelivered
}

// Text renders the result as the single user-facing line printed by the CLI.
func (r Result) Text() string {
	switch r.Kind {
	case KindDelivered:
		return r.Reply.String()
	case KindConnectionRefused:
		return refusedText
	default:
		if r.Err == nil {
			return "ERROR: unknown failure"
		}
		return "ERROR: " + r.Err.Error()
	}
}

// Cause returns the innermost error behind a failed result, following the
// last branch of multi-error wraps. It is nil for delivered results.
func (r Result) Cause() error {
	err := r.Err
	for err != nil {
		var next error
		switch wrapped := err.(type) {
		case interface{ Unwrap() []error }:
			if errs := wrapped.Unwrap(); len(errs) > 0 {
				next = errs[len(errs)-1]
			}
		case interface{ Unwrap() error }:
			next = wrapped.Unwrap()
		}
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}

func delivered(reply protocol.Reply) Result {
	return Result{Kind: KindDelivered, Reply: reply}
}

func failed(err error) Result {
	if errors.Is(err, ErrConnectionRefused) {
		return Result{Kind: KindConnectionRefused, Err: err}
	}
	return Result{Kind: KindTransportFailure, Err: err}
}
