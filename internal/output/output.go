package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported format: %s (use yaml or json)", s)
}

// Result is the output of a kill or open command.
type Result struct {
	OK     bool   `yaml:"ok" json:"ok"`
	Action string `yaml:"action" json:"action"`
	PID    int32  `yaml:"pid,omitempty" json:"pid,omitempty"`
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
}

// Print writes v to w in format f.
func Print(w io.Writer, f Format, v interface{}) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}
}
