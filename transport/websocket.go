// Package transport opens the WebSocket session and translates gorilla frames
// into domain messages. The protocol itself is left to gorilla/websocket.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"wschat/contract"
	"wschat/domain"
	"wschat/errors"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

// closeWait bounds the write of a close frame when no write timeout is configured.
const closeWait = time.Second

var _ contract.Dialer = (*Dialer)(nil)
var _ contract.Connection = (*Conn)(nil)

type Dialer struct {
	log          *slog.Logger
	dialer       *websocket.Dialer
	writeTimeout time.Duration
}

func NewDialer(log *slog.Logger, handshakeTimeout, writeTimeout time.Duration) *Dialer {
	return &Dialer{
		log: log,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: handshakeTimeout,
		},
		writeTimeout: writeTimeout,
	}
}

// Dial parses the address and performs the opening handshake.
// The scheme decides between plaintext (ws) and TLS (wss).
func (d *Dialer) Dial(ctx context.Context, address string) (contract.Connection, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidAddress, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if !lo.Contains([]string{"ws", "wss"}, scheme) {
		return nil, fmt.Errorf("%w: unsupported scheme %q", errors.ErrInvalidAddress, u.Scheme)
	}

	ws, resp, err := d.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: %s: %v", errors.ErrHandshake, resp.Status, err)
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrHandshake, err)
	}

	d.log.Debug("Handshake completed", "address", u.Redacted(), "tls", scheme == "wss")
	return &Conn{ws: ws, log: d.log, writeTimeout: d.writeTimeout}, nil
}

// Conn adapts a gorilla connection. One goroutine may Send while another Receives.
type Conn struct {
	ws           *websocket.Conn
	log          *slog.Logger
	writeTimeout time.Duration
}

func (c *Conn) Send(ctx context.Context, msg domain.Outbound) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var err error
	switch msg.Kind {
	case domain.OutboundText:
		if err = c.ws.SetWriteDeadline(c.deadline(ctx)); err != nil {
			return fmt.Errorf("%w: %v", errors.ErrTransport, err)
		}
		err = c.ws.WriteMessage(websocket.TextMessage, []byte(msg.Text))
	case domain.OutboundClose:
		deadline := c.deadline(ctx)
		if deadline.IsZero() {
			deadline = time.Now().Add(closeWait)
		}
		err = c.ws.WriteControl(websocket.CloseMessage, closePayload(msg.Close), deadline)
	default:
		return fmt.Errorf("%w: unknown outbound kind %d", errors.ErrTransport, msg.Kind)
	}

	if errors.Is(err, websocket.ErrCloseSent) {
		return fmt.Errorf("%w: %v", errors.ErrCloseSent, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrTransport, err)
	}
	return nil
}

// Receive returns the next frame. A close from the peer is a frame, not an error.
func (c *Conn) Receive(ctx context.Context) (domain.Inbound, error) {
	if err := ctx.Err(); err != nil {
		return domain.Inbound{}, err
	}

	messageType, data, err := c.ws.ReadMessage()
	if err != nil {
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) {
			return domain.Inbound{
				Kind:  domain.InboundClose,
				Close: &domain.CloseFrame{Code: closeErr.Code, Reason: closeErr.Text},
			}, nil
		}
		if ctx.Err() != nil {
			return domain.Inbound{}, ctx.Err()
		}
		return domain.Inbound{}, fmt.Errorf("%w: %v", errors.ErrTransport, err)
	}

	switch messageType {
	case websocket.TextMessage:
		return domain.Inbound{Kind: domain.InboundText, Text: string(data)}, nil
	default:
		return domain.Inbound{Kind: domain.InboundBinary, Data: data}, nil
	}
}

// Close tears down the network connection without a close handshake.
func (c *Conn) Close() error {
	return c.ws.Close()
}

func (c *Conn) deadline(ctx context.Context) time.Time {
	if d, ok := ctx.Deadline(); ok {
		return d
	}
	if c.writeTimeout > 0 {
		return time.Now().Add(c.writeTimeout)
	}
	return time.Time{}
}

func closePayload(frame *domain.CloseFrame) []byte {
	if frame == nil {
		return websocket.FormatCloseMessage(websocket.CloseNoStatusReceived, "")
	}
	return websocket.FormatCloseMessage(frame.Code, frame.Reason)
}
