package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"wschat/domain"
	"wschat/errors"
	"wschat/mocks"
	"wschat/runtime/workers"
	"wschat/transport"

	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// syncBuffer is a bytes.Buffer safe for one writer and one polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fakeConnection records every sent message and blocks Receive until canceled.
type fakeConnection struct {
	mu     sync.Mutex
	sent   []domain.Outbound
	closed bool
}

func (c *fakeConnection) Send(ctx context.Context, msg domain.Outbound) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeConnection) Receive(ctx context.Context) (domain.Inbound, error) {
	<-ctx.Done()
	return domain.Inbound{}, ctx.Err()
}

func (c *fakeConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConnection) Sent() []domain.Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Outbound(nil), c.sent...)
}

func settings(address string) Settings {
	return Settings{
		Address:   address,
		Identity:  domain.NewIdentity("alice"),
		InputMode: workers.InputLine,
		ChunkSize: workers.DefaultChunkSize,
	}
}

func waitFor(t *testing.T, condition func() bool) {
	t.Helper()
	require.Eventually(t, condition, 2*time.Second, 5*time.Millisecond)
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	received := make(chan string, 10)
	closes := make(chan *websocket.CloseError, 1)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			_, data, err := ws.ReadMessage()
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				// gorilla already echoed the close frame
				closes <- closeErr
				return
			}
			if err != nil {
				return
			}
			received <- string(data)
			if string(data) == "hello" {
				_ = ws.WriteMessage(websocket.TextMessage, []byte("hi there"))
			}
		}
	}))
	defer srv.Close()

	stdin, typing := io.Pipe()
	defer typing.Close()
	var stdout syncBuffer
	dialer := transport.NewDialer(log, time.Second, time.Second)
	orchestrator := NewOrchestrator(log, dialer, stdin, &stdout, settings("ws"+strings.TrimPrefix(srv.URL, "http")))

	done := make(chan error, 1)
	go func() { done <- orchestrator.Run(context.Background()) }()

	// Then the identity is the first frame on the wire
	req.Equal("alice: ", <-received)

	// When the user types hello, the server gets it and answers
	_, err := typing.Write([]byte("hello\n"))
	req.NoError(err)
	req.Equal("hello", <-received)
	waitFor(t, func() bool { return strings.Contains(stdout.String(), "hi there") })

	// When the user disconnects
	_, err = typing.Write([]byte("  /dc \n"))
	req.NoError(err)

	select {
	case closeErr := <-closes:
		req.Equal(websocket.CloseNormalClosure, closeErr.Code)
		req.Equal("finished", closeErr.Text)
	case <-time.After(2 * time.Second):
		req.Fail("server did not receive the close frame")
	}

	// Then the session ends cleanly after the echoed close
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("session did not end")
	}
	req.Equal(
		"WebSocket handshake has been successfully completed\n"+
			"\x1b[38;2;255;0;0mhi there\x1b[0m\n"+
			"Close Frame Received. Disconnection Complete.\n",
		stdout.String(),
	)
	req.Empty(received)
}

func TestOrchestrator_HandshakeFailure(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	dialer := mocks.NewMockDialer(ctrl)
	var stdout syncBuffer

	dialer.EXPECT().
		Dial(gomock.Any(), "ws://localhost:9000").
		Return(nil, fmt.Errorf("%w: connection refused", errors.ErrHandshake)).
		Times(1)

	orchestrator := NewOrchestrator(log, dialer, strings.NewReader(""), &stdout, settings("ws://localhost:9000"))

	err := orchestrator.Run(context.Background())

	req.ErrorIs(err, errors.ErrHandshake)
	req.Empty(stdout.String())
}

func TestOrchestrator_IdentityFirstThenInputUntilEOF(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	dialer := mocks.NewMockDialer(ctrl)
	conn := &fakeConnection{}
	var stdout syncBuffer

	dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(conn, nil).Times(1)

	// Given input already available before the handshake completes
	input := strings.NewReader("hello\n\nworld\n")
	orchestrator := NewOrchestrator(log, dialer, input, &stdout, settings("ws://localhost:9000"))

	// When the session runs until the input ends
	err := orchestrator.Run(context.Background())

	// Then the identity goes first and the connection is closed normally
	req.NoError(err)
	req.Equal([]domain.Outbound{
		domain.TextMessage("alice: "),
		domain.TextMessage("hello"),
		domain.TextMessage("world"),
		domain.CloseMessage(&domain.CloseFrame{Code: domain.CloseNormal}),
	}, conn.Sent())
	req.Equal(HandshakeNotice+"\n", stdout.String())
	conn.mu.Lock()
	defer conn.mu.Unlock()
	req.True(conn.closed)
}

func TestOrchestrator_LongLineKeepsSession(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	dialer := mocks.NewMockDialer(ctrl)
	conn := &fakeConnection{}
	var stdout syncBuffer
	long := strings.Repeat("x", 70*1024)

	dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(conn, nil).Times(1)

	// Given a pasted line far longer than a read buffer
	input := strings.NewReader("hello\n" + long + "\nafter\n")
	orchestrator := NewOrchestrator(log, dialer, input, &stdout, settings("ws://localhost:9000"))

	err := orchestrator.Run(context.Background())

	// Then it is sent whole and the next line still goes through
	req.NoError(err)
	req.Equal([]domain.Outbound{
		domain.TextMessage("alice: "),
		domain.TextMessage("hello"),
		domain.TextMessage(long),
		domain.TextMessage("after"),
		domain.CloseMessage(&domain.CloseFrame{Code: domain.CloseNormal}),
	}, conn.Sent())
}

func TestOrchestrator_Interrupted(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	dialer := mocks.NewMockDialer(ctrl)
	conn := &fakeConnection{}
	var stdout syncBuffer

	dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(conn, nil).Times(1)

	stdin, typing := io.Pipe()
	defer typing.Close()
	orchestrator := NewOrchestrator(log, dialer, stdin, &stdout, settings("ws://localhost:9000"))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- orchestrator.Run(ctx) }()
	waitFor(t, func() bool { return len(conn.Sent()) == 1 })

	// When the user presses Ctrl+C
	cancel()

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.Fail("session did not stop on interrupt")
	}
}
