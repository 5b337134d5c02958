package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

var (
	ErrWorkerPanic     = fmt.Errorf("worker panic")
	ErrMissingAddress  = fmt.Errorf("no address provided")
	ErrMissingUsername = fmt.Errorf("no user name provided")
	ErrInvalidAddress  = fmt.Errorf("invalid server address")
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
	ErrHandshake       = fmt.Errorf("websocket handshake failed")
	ErrTransport       = fmt.Errorf("websocket transport failure")
	ErrServerClosed    = fmt.Errorf("close frame received")
	ErrInputClosed     = fmt.Errorf("input closed")
	ErrQueueClosed     = fmt.Errorf("queue closed")
	ErrInputDecode     = fmt.Errorf("input is not valid UTF-8")
	ErrCloseSent       = fmt.Errorf("message written after close frame")
)

// Class groups errors by how the client reacts to them.
type Class int

const (
	ClassNone Class = iota
	ClassConfiguration
	ClassTransport
	ClassIgnorable
	ClassShutdown
)

func (c Class) String() string {
	switch c {
	case ClassConfiguration:
		return "configuration"
	case ClassTransport:
		return "transport"
	case ClassIgnorable:
		return "ignorable"
	case ClassShutdown:
		return "shutdown"
	default:
		return "none"
	}
}

// Classify maps an error onto the reaction the client applies to it.
// Unknown errors are treated as transport failures.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassNone
	case Is(err, ErrMissingAddress), Is(err, ErrMissingUsername),
		Is(err, ErrInvalidAddress), Is(err, ErrInvalidConfig):
		return ClassConfiguration
	case Is(err, ErrServerClosed), Is(err, ErrInputClosed), Is(err, context.Canceled):
		return ClassShutdown
	case Is(err, ErrInputDecode), Is(err, ErrCloseSent):
		return ClassIgnorable
	default:
		return ClassTransport
	}
}

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }
