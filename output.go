package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// writeOutput renders data as JSON or YAML, or calls text for the text format.
func writeOutput(w io.Writer, format string, data any, text func(io.Writer) error) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		return text(w)
	}
	return fmt.Errorf("invalid format %q: must be one of %v", format, ValidFormats)
}
