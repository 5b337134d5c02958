//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
	"wschat/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Race(ctx context.Context) error
	Stop()
	Wait()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// MessageSink is the write side of a connection. Only one goroutine sends.
type MessageSink interface {
	Send(ctx context.Context, msg domain.Outbound) error
}

// FrameSource is the read side of a connection. Only one goroutine receives.
type FrameSource interface {
	Receive(ctx context.Context) (domain.Inbound, error)
}

// Connection is a duplex session with the server.
type Connection interface {
	MessageSink
	FrameSource
	Close() error
}

// Dialer opens a Connection to a server address.
type Dialer interface {
	Dial(ctx context.Context, address string) (Connection, error)
}
