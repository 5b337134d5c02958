package workers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
	"wschat/contract"
	"wschat/domain"
	"wschat/errors"
	"wschat/runtime/queue"
)

// DefaultChunkSize is the size of a single read in chunk mode.
const DefaultChunkSize = 1024

type InputMode string

const (
	// InputLine treats every newline terminated line as one message.
	InputLine InputMode = "line"
	// InputChunk treats every read of up to chunkSize bytes as one message.
	InputChunk InputMode = "chunk"
)

var _ contract.Worker = (*InputReader)(nil)

// InputReader turns console input into outbound messages.
// It closes the queue when the input ends, whatever the reason.
type InputReader struct {
	log       *slog.Logger
	input     io.Reader
	queue     *queue.Queue[domain.Outbound]
	mode      InputMode
	chunkSize int
}

func NewInputReader(
	log *slog.Logger,
	input io.Reader,
	queue *queue.Queue[domain.Outbound],
	mode InputMode,
	chunkSize int) *InputReader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &InputReader{
		log:       log,
		input:     input,
		queue:     queue,
		mode:      mode,
		chunkSize: chunkSize,
	}
}

func (w *InputReader) Run(ctx context.Context) error {
	defer w.queue.Close()
	if w.mode == InputChunk {
		return w.readChunks(ctx)
	}
	return w.readLines(ctx)
}

func (w *InputReader) readLines(ctx context.Context) error {
	reader := bufio.NewReaderSize(w.input, w.chunkSize)
	for {
		// A line is read whole whatever its length.
		line, err := reader.ReadBytes('\n')
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if len(line) > 0 {
			w.publish(line)
		}
		if errors.Is(err, io.EOF) {
			w.log.Debug("Input reached end of file")
			return nil
		}
		if err != nil {
			w.log.Warn("Input stopped", "error", err)
			return nil
		}
	}
}

func (w *InputReader) readChunks(ctx context.Context) error {
	buf := make([]byte, w.chunkSize)
	for {
		n, err := w.input.Read(buf)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if n > 0 {
			w.publish(buf[:n])
		}
		if err != nil {
			w.log.Debug("Input stopped", "error", err)
			return nil
		}
		if n == 0 {
			w.log.Debug("Input returned no data")
			return nil
		}
	}
}

// publish queues at most one message for a single input candidate.
func (w *InputReader) publish(raw []byte) {
	if !utf8.Valid(raw) {
		w.log.Warn("Skipping input", "error", fmt.Errorf("%w: %d bytes", errors.ErrInputDecode, len(raw)))
		return
	}
	msg, ok := domain.ParseInput(string(raw))
	if !ok {
		return
	}
	if err := w.queue.Push(msg); err != nil {
		w.log.Warn("Input dropped", "error", err)
	}
}
