package decl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/containerd/errdefs"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks a Format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: cannot tell the format of %q, use .json, .yaml or .yml", errdefs.ErrInvalidArgument, path)
}

// Load reads, validates and decodes the declaration at path.
func Load(path string) (*Declaration, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read declaration: %w", err)
	}
	d, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse validates data against the declaration schema and decodes it. YAML is
// normalised to JSON first so both formats go through the same checks.
func Parse(data []byte, format Format) (*Declaration, error) {
	var raw []byte
	switch format {
	case FormatJSON:
		raw = data
	case FormatYAML:
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: unmarshal yaml: %w", errdefs.ErrInvalidArgument, err)
		}
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: convert yaml: %w", errdefs.ErrInvalidArgument, err)
		}
		raw = b
	default:
		return nil, fmt.Errorf("%w: unknown format %q", errdefs.ErrInvalidArgument, format)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: unmarshal json: %w", errdefs.ErrInvalidArgument, err)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var d Declaration
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: decode declaration: %w", errdefs.ErrInvalidArgument, err)
	}
	return &d, nil
}
