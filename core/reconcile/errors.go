package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches invalid keys, incompatible schemas and unresolvable comparators.
	ErrConfiguration = errors.New("configuration error")
	// ErrStream matches failures of a stream's Schema, Open, Next or Close.
	ErrStream = errors.New("stream error")
	// ErrConsumer matches failures returned by an event consumer.
	ErrConsumer = errors.New("consumer error")
	// ErrOutOfOrder is wrapped by the stream error raised when order checking is
	// enabled and a stream yields a key lower than its previous one.
	ErrOutOfOrder = errors.New("stream out of key order")
)

// ConfigError is a fatal configuration problem, normally detected before any row is read.
type ConfigError struct {
	// Side is the side the problem was found on, or SideNone.
	Side Side
	// Column is the offending column name, if any.
	Column string
	// Reason describes the problem.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Side != SideNone {
		msg += ": " + e.Side.String()
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" column %q", e.Column)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrConfiguration) succeed.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// StreamError wraps a failure of one stream operation.
type StreamError struct {
	Side Side
	// Op is one of "schema", "open", "next" or "close".
	Op  string
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error: %s %s: %v", e.Side, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StreamError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrStream) succeed.
func (e *StreamError) Is(target error) bool { return target == ErrStream }

// ConsumerError wraps a failure returned by an event consumer.
type ConsumerError struct {
	Err error
}

func (e *ConsumerError) Error() string {
	return fmt.Sprintf("consumer error: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConsumerError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrConsumer) succeed.
func (e *ConsumerError) Is(target error) bool { return target == ErrConsumer }
