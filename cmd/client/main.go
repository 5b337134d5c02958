package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"wschat/domain"
	"wschat/errors"
	"wschat/internal"
	"wschat/runtime"
	"wschat/runtime/workers"
	"wschat/transport"

	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitConfig  = 1
	exitRuntime = 2
)

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, _ := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(code)
}

// run resolves arguments and environment, then drives a single session.
// Every ending, normal or not, comes back here to pick the exit code.
// A returned error has already been reported on stderr.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (code int, err error) {
	defer func() {
		if err != nil {
			report(stderr, err)
		}
	}()

	// 1. Arguments are checked before any network activity.
	parsed, err := internal.ParseArgs(args)
	if err != nil {
		return exitConfig, err
	}

	// 2. Environment
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 3. Ctrl+C ends the session cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialer := transport.NewDialer(log, config.HandshakeTimeout, config.WriteTimeout)
	orchestrator := runtime.NewOrchestrator(log, dialer, stdin, stdout, runtime.Settings{
		Address:   parsed.Address,
		Identity:  domain.NewIdentity(parsed.Username),
		InputMode: workers.InputMode(config.InputMode),
		ChunkSize: config.ChunkSize,
	})

	err = orchestrator.Run(ctx)
	switch errors.Classify(err) {
	case errors.ClassNone, errors.ClassShutdown:
		return exitOK, nil
	case errors.ClassConfiguration:
		return exitConfig, err
	default:
		return exitRuntime, err
	}
}

// report prints err on stderr. Missing arguments get their fixed usage line.
func report(stderr io.Writer, err error) {
	switch {
	case errors.Is(err, errors.ErrMissingAddress):
		fmt.Fprintln(stderr, "No address provided.")
	case errors.Is(err, errors.ErrMissingUsername):
		fmt.Fprintln(stderr, "No user name provided.")
	default:
		fmt.Fprintf(stderr, "Client error: %v\n", err)
	}
}
