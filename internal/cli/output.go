package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	// OutputFormatText renders human-readable text. The default.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON renders the result structure as indented JSON.
	OutputFormatJSON OutputFormat = "json"
)

// ParseOutputFormat parses the --output flag value. An empty value means
// text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "text", "":
		return OutputFormatText, nil
	case "json":
		return OutputFormatJSON, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be 'text' or 'json'", s)
	}
}

// OutputWriter renders command results in the selected format.
type OutputWriter struct {
	format OutputFormat
	writer io.Writer
}

// NewOutputWriter creates an OutputWriter targeting stdout.
func NewOutputWriter(format OutputFormat) *OutputWriter {
	return &OutputWriter{format: format, writer: os.Stdout}
}

// IsJSON reports whether JSON output was selected.
func (o *OutputWriter) IsJSON() bool {
	return o.format == OutputFormatJSON
}

// WriteJSON renders data as indented JSON regardless of the selected
// format.
func (o *OutputWriter) WriteJSON(data any) error {
	enc := json.NewEncoder(o.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Write renders either data as JSON or, in text mode, whatever textFunc
// prints.
func (o *OutputWriter) Write(data any, textFunc func()) error {
	if o.IsJSON() {
		return o.WriteJSON(data)
	}
	textFunc()
	return nil
}
