// Package ui formats server messages for the terminal.
// It never reads input or touches the connection.
package ui

import (
	"github.com/gookit/color"
)

// ServerColor is the foreground color of every message received from the server.
var ServerColor = color.RGB(255, 0, 0)

// Renderer wraps text in a 24-bit foreground color escape.
// The escape is always emitted, whatever the terminal detection says.
type Renderer struct {
	code string
}

func NewRenderer(c color.RGBColor) Renderer {
	return Renderer{code: c.String()}
}

// Line returns the colored text followed by a reset code and a newline.
func (r Renderer) Line(text string) []byte {
	return []byte(color.StartSet + r.code + "m" + text + color.ResetSet + "\n")
}
