package domain

import "strings"

// Identity is the display prefix announced once at the start of a session.
type Identity string

func NewIdentity(username string) Identity {
	return Identity(strings.TrimSpace(username) + ": ")
}

func (i Identity) Message() Outbound {
	return TextMessage(string(i))
}
