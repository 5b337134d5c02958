package domain

import "strings"

const (
	// DisconnectCommand is the local command that starts a close handshake.
	DisconnectCommand = "/dc"
	// DisconnectReason is sent with the close frame triggered by DisconnectCommand.
	DisconnectReason = "finished"
)

// ParseInput turns one console input candidate into an outbound message.
// It reports false when the input is blank and nothing must be sent.
func ParseInput(raw string) (Outbound, bool) {
	text := strings.TrimSpace(raw)
	switch text {
	case "":
		return Outbound{}, false
	case DisconnectCommand:
		return CloseMessage(&CloseFrame{Code: CloseNormal, Reason: DisconnectReason}), true
	default:
		return TextMessage(text), true
	}
}
