package workers

import (
	"context"
	"log/slog"
	"wschat/contract"
	"wschat/domain"
	"wschat/errors"
	"wschat/runtime/queue"
)

var _ contract.Worker = (*OutboundForwarder)(nil)

// OutboundForwarder is the only writer of the connection once the session is announced.
type OutboundForwarder struct {
	log   *slog.Logger
	sink  contract.MessageSink
	queue *queue.Queue[domain.Outbound]
}

func NewOutboundForwarder(log *slog.Logger, sink contract.MessageSink, queue *queue.Queue[domain.Outbound]) *OutboundForwarder {
	return &OutboundForwarder{log: log, sink: sink, queue: queue}
}

// Run forwards queued messages in order. When the input side is closed and
// drained it closes the connection normally and returns ErrInputClosed.
func (w *OutboundForwarder) Run(ctx context.Context) error {
	for {
		msg, err := w.queue.Pop(ctx)
		if errors.Is(err, errors.ErrQueueClosed) {
			w.closeSink(ctx)
			return errors.ErrInputClosed
		}
		if err != nil {
			return err
		}

		if err := w.sink.Send(ctx, msg); err != nil {
			if errors.Classify(err) == errors.ClassIgnorable {
				w.log.Warn("Message not sent", "error", err)
				continue
			}
			return err
		}
		if msg.IsClose() && msg.Close != nil {
			w.log.Info("Close frame sent", "code", msg.Close.Code, "reason", msg.Close.Reason)
		}
	}
}

func (w *OutboundForwarder) closeSink(ctx context.Context) {
	closeMsg := domain.CloseMessage(&domain.CloseFrame{Code: domain.CloseNormal})
	if err := w.sink.Send(ctx, closeMsg); err != nil {
		w.log.Debug("Close on end of input failed", "error", err)
	}
}
