// Package domain contains the values exchanged between the console and the server.
// Messages are immutable and carry no runtime, network, or UI logic.
package domain

// CloseNormal is the WebSocket status code for a normal closure.
const CloseNormal = 1000

// CloseFrame carries the status code and optional reason of a close handshake.
type CloseFrame struct {
	Code   int
	Reason string
}

type OutboundKind int

const (
	OutboundText OutboundKind = iota
	OutboundClose
)

// Outbound is a message produced from console input and written once to the server.
type Outbound struct {
	Kind  OutboundKind
	Text  string
	Close *CloseFrame
}

func TextMessage(text string) Outbound {
	return Outbound{Kind: OutboundText, Text: text}
}

// CloseMessage builds a close message. A nil frame closes without status.
func CloseMessage(frame *CloseFrame) Outbound {
	return Outbound{Kind: OutboundClose, Close: frame}
}

func (o Outbound) IsClose() bool { return o.Kind == OutboundClose }

type InboundKind int

const (
	InboundText InboundKind = iota
	InboundBinary
	InboundClose
)

// Inbound is a frame delivered by the server.
type Inbound struct {
	Kind  InboundKind
	Text  string
	Data  []byte
	Close *CloseFrame
}

func (i Inbound) IsClose() bool { return i.Kind == InboundClose }

func (k InboundKind) String() string {
	switch k {
	case InboundText:
		return "text"
	case InboundBinary:
		return "binary"
	case InboundClose:
		return "close"
	default:
		return "unknown"
	}
}
