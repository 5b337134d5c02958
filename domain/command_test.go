package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name     string
		input    string
		expected Outbound
		ok       bool
	}{
		{
			name:     "Plain line is trimmed",
			input:    "  hello world \n",
			expected: TextMessage("hello world"),
			ok:       true,
		},
		{
			name:  "Blank line is discarded",
			input: " \t\r\n",
			ok:    false,
		},
		{
			name:  "Empty input is discarded",
			input: "",
			ok:    false,
		},
		{
			name:     "Disconnect command becomes a close frame",
			input:    "  /dc \n",
			expected: CloseMessage(&CloseFrame{Code: CloseNormal, Reason: "finished"}),
			ok:       true,
		},
		{
			name:     "Disconnect command followed by text is plain text",
			input:    "/dc now",
			expected: TextMessage("/dc now"),
			ok:       true,
		},
		{
			name:     "Inner whitespace is preserved",
			input:    "a  b\tc\n",
			expected: TextMessage("a  b\tc"),
			ok:       true,
		},
	}

	for _, tt := range tests {
		msg, ok := ParseInput(tt.input)
		req.Equal(tt.ok, ok, tt.name)
		req.Equal(tt.expected, msg, tt.name)
	}
}

func TestParseInput_CloseIsNeverText(t *testing.T) {
	req := require.New(t)

	msg, ok := ParseInput("/dc")

	req.True(ok)
	req.True(msg.IsClose())
	req.Empty(msg.Text)
	req.Equal(1000, msg.Close.Code)
	req.Equal("finished", msg.Close.Reason)
}
