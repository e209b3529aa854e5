package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a result serialization.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported format: %s (use markdown, json, yaml or toml)", s)
}

type markdowner interface{ Markdown() string }

// Encode serializes v. Markdown output requires v to implement
// Markdown() string or be a slice of such values.
func Encode(v any, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		b, err := PrettyJSON(v)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	case FormatTOML:
		// TOML documents must be tables at the top level.
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(map[string]any{"result": v}); err != nil {
			return nil, fmt.Errorf("marshal toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		if m, ok := v.(markdowner); ok {
			return []byte(m.Markdown()), nil
		}
		return nil, fmt.Errorf("value of type %T has no markdown form", v)
	}
}

// EncodeAll serializes a list of results. Markdown sections are separated by
// blank lines; structured formats encode the list as a whole.
func EncodeAll[T any](items []T, f Format) ([]byte, error) {
	if f != FormatMarkdown {
		return Encode(items, f)
	}
	var parts []string
	for _, it := range items {
		b, err := Encode(it, f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, strings.TrimRight(string(b), "\n"))
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return []byte(strings.Join(parts, "\n\n") + "\n"), nil
}
