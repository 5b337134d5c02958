// Package runtime wires the console, the queue and the connection into one session.
// It orchestrates the workers without containing message rules.
package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"wschat/contract"
	"wschat/domain"
	"wschat/errors"
	"wschat/runtime/queue"
	"wschat/runtime/workers"
	"wschat/ui"

	"github.com/google/uuid"
)

// HandshakeNotice is printed once the connection is open.
const HandshakeNotice = "WebSocket handshake has been successfully completed"

// Settings are the session parameters resolved from arguments and environment.
type Settings struct {
	Address   string
	Identity  domain.Identity
	InputMode workers.InputMode
	ChunkSize int
}

type Orchestrator struct {
	log      *slog.Logger
	dialer   contract.Dialer
	input    io.Reader
	output   io.Writer
	settings Settings
}

func NewOrchestrator(log *slog.Logger, dialer contract.Dialer,
	input io.Reader, output io.Writer, settings Settings) *Orchestrator {
	return &Orchestrator{
		log:      log,
		dialer:   dialer,
		input:    input,
		output:   output,
		settings: settings,
	}
}

// Run drives one session. It returns nil when the session ended normally:
// the server closed it, the input ended, or ctx was canceled.
func (o *Orchestrator) Run(ctx context.Context) error {
	log := o.log.With("session", uuid.NewString())
	outbound := queue.New[domain.Outbound]()

	// 1. Input reading starts first so nothing typed during the handshake is lost.
	readerCtx, stopReader := context.WithCancel(ctx)
	defer stopReader()
	reader := workers.NewInputReader(log, o.input, outbound, o.settings.InputMode, o.settings.ChunkSize)
	go func() {
		if err := reader.Run(readerCtx); err != nil {
			log.Debug("Input reader stopped", "error", err)
		}
	}()

	// 2. Handshake
	conn, err := o.dialer.Dial(ctx, o.settings.Address)
	if err != nil {
		return err
	}
	closeConn := sync.OnceFunc(func() {
		log.Debug("Closing connection")
		_ = conn.Close()
	})
	defer closeConn()
	if _, err := fmt.Fprintln(o.output, HandshakeNotice); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	// 3. Announce the user before anything typed is forwarded.
	if err := conn.Send(ctx, o.settings.Identity.Message()); err != nil {
		return fmt.Errorf("send identity: %w", err)
	}
	log.Info("Session started", "address", o.settings.Address, "identity", string(o.settings.Identity))

	// 4. Race the two directions.
	var sup contract.ISupervisor = workers.NewSupervisor(log)
	sup.Add(
		workers.NewOutboundForwarder(log, conn, outbound),
		workers.NewInboundPrinter(log, conn, o.output, ui.NewRenderer(ui.ServerColor)),
	)
	err = sup.Race(ctx)

	// 5. Shutdown: the loser is canceled, then unblocked by closing the connection.
	stopReader()
	sup.Stop()
	closeConn()
	sup.Wait()

	switch errors.Classify(err) {
	case errors.ClassNone, errors.ClassShutdown:
		log.Info("Session ended", "reason", fmt.Sprint(err))
		return nil
	default:
		return err
	}
}
