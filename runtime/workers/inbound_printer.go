package workers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"wschat/contract"
	"wschat/domain"
	"wschat/errors"
	"wschat/ui"

	"github.com/samber/lo"
)

// CompletionNotice is printed once the server closes the session.
const CompletionNotice = "Close Frame Received. Disconnection Complete."

// expectedCloseCodes are the close codes of an orderly shutdown.
var expectedCloseCodes = []int{domain.CloseNormal, 1001, 1005}

var _ contract.Worker = (*InboundPrinter)(nil)

// InboundPrinter is the only reader of the connection and the only writer of the console output.
type InboundPrinter struct {
	log      *slog.Logger
	source   contract.FrameSource
	output   io.Writer
	renderer ui.Renderer
}

func NewInboundPrinter(log *slog.Logger, source contract.FrameSource, output io.Writer, renderer ui.Renderer) *InboundPrinter {
	return &InboundPrinter{log: log, source: source, output: output, renderer: renderer}
}

// Run prints frames until the server closes the session, which is reported
// as ErrServerClosed. Any transport failure is returned as is.
func (w *InboundPrinter) Run(ctx context.Context) error {
	for {
		frame, err := w.source.Receive(ctx)
		if err != nil {
			return err
		}

		switch frame.Kind {
		case domain.InboundClose:
			return w.closed(frame.Close)
		case domain.InboundText:
			if _, err := w.output.Write(w.renderer.Line(frame.Text)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		default:
			w.log.Debug("Ignoring frame", "kind", frame.Kind.String(), "size", len(frame.Data))
		}
	}
}

func (w *InboundPrinter) closed(frame *domain.CloseFrame) error {
	if _, err := fmt.Fprintln(w.output, CompletionNotice); err != nil {
		w.log.Debug("Completion notice not printed", "error", err)
	}
	if frame == nil {
		return errors.ErrServerClosed
	}
	if !lo.Contains(expectedCloseCodes, frame.Code) {
		w.log.Warn("Server closed abnormally", "code", frame.Code, "reason", frame.Reason)
	}
	return fmt.Errorf("%w: code %d %q", errors.ErrServerClosed, frame.Code, frame.Reason)
}
