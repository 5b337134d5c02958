package ui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderer_Line(t *testing.T) {
	req := require.New(t)
	renderer := NewRenderer(ServerColor)

	// When a server text is rendered
	line := renderer.Line("hi there")

	// Then red escape, text, reset and newline follow each other
	req.Equal("\x1b[38;2;255;0;0mhi there\x1b[0m\n", string(line))
}

func TestRenderer_Line_Empty(t *testing.T) {
	req := require.New(t)
	renderer := NewRenderer(ServerColor)

	req.Equal("\x1b[38;2;255;0;0m\x1b[0m\n", string(renderer.Line("")))
}
