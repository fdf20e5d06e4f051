package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat represents the output format of the headless commands
type OutputFormat string

const (
	// Text format prints tables for people.
	Text OutputFormat = "text"

	// JSON format prints the raw results as indented JSON.
	JSON OutputFormat = "json"
)

// String returns the string representation of the OutputFormat
func (f OutputFormat) String() string {
	return string(f)
}

// SupportedFormats is a list of all supported output formats as strings
var SupportedFormats = []string{
	string(Text),
	string(JSON),
}

// Parse converts a string to an OutputFormat
func Parse(s string) (OutputFormat, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case string(Text):
		return Text, nil
	case string(JSON):
		return JSON, nil
	default:
		return "", fmt.Errorf("invalid format: %s", s)
	}
}

// IsValid checks if the provided format string is supported
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// GetHelpText returns a formatted string describing all supported formats
func GetHelpText() string {
	return fmt.Sprintf("output format, %s (default) or %s", Text, JSON)
}

// Write prints v to w. JSON output encodes v itself; text output is whatever
// text renders.
func Write(w io.Writer, format OutputFormat, v any, text func() string) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal output into JSON: %w", err)
		}
		return nil
	case Text:
		fallthrough
	default:
		_, err := fmt.Fprintln(w, text())
		return err
	}
}
