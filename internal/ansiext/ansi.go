package ansiext

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Escape makes content safe to draw on a single line. Control characters
// become their Unicode Control Pictures, with newlines shown as ␤.
func Escape(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		switch {
		case r == '\n':
			sb.WriteRune('␤')
		case r >= 0 && r <= 0x1f: // Control characters 0x00-0x1F
			sb.WriteRune('␀' + r)
		case r == ansi.DEL:
			sb.WriteRune('␡')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
