// Copyright (c) 2021-2026 Rustam Gilyazov and Contributors.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package simplifycmd

// In this file: output formats.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatText = "text"
)

var (
	errUnknownFormat = errors.New("unknown output format")
	errNoText        = errors.New("text format is not supported for this kind")
)

// renderer encodes the simplified responses in one output format.
type renderer struct {
	format string
	label  *color.Color
}

// newRenderer returns the renderer for the format.  colour enables colours
// in the text format.
func newRenderer(format string, k *kind, colour bool) (*renderer, error) {
	switch format {
	case formatJSON, formatYAML:
	case formatText:
		if k.lines == nil {
			return nil, fmt.Errorf("%w: %s", errNoText, k.Name)
		}
	default:
		return nil, fmt.Errorf("%w: %q, use one of: json, yaml, text", errUnknownFormat, format)
	}
	label := color.New(color.FgHiCyan)
	if !colour {
		label.DisableColor()
	} else {
		label.EnableColor()
	}
	return &renderer{format: format, label: label}, nil
}

// ext returns the file extension for the output files.
func (r *renderer) ext() string {
	switch r.format {
	case formatYAML:
		return ".yaml"
	case formatText:
		return ".txt"
	default:
		return ".json"
	}
}

// render simplifies raw and encodes the result.
func (r *renderer) render(k *kind, raw json.RawMessage) (data []byte, passthrough bool, err error) {
	if r.format == formatText {
		lines := k.lines(raw)
		return r.text(lines), len(lines) == 0, nil
	}
	v, passthrough := k.simplify(raw)
	js, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, passthrough, err
	}
	if r.format == formatYAML {
		data, err := toYAML(js)
		return data, passthrough, err
	}
	return append(js, '\n'), passthrough, nil
}

func (r *renderer) text(lines []string) []byte {
	var buf bytes.Buffer
	for _, ln := range lines {
		if label, rest, ok := strings.Cut(ln, ": "); ok {
			buf.WriteString(r.label.Sprint(label))
			buf.WriteString(": ")
			buf.WriteString(rest)
		} else {
			buf.WriteString(ln)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// toYAML converts JSON to block style YAML, keeping the order of the keys.
func toYAML(js []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(js, &doc); err != nil {
		return nil, err
	}
	blockStyle(&doc)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// blockStyle resets the flow and quoting styles that the JSON input
// brings in.  The encoder quotes the strings that need it.
func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle | yaml.DoubleQuotedStyle
	for _, c := range n.Content {
		blockStyle(c)
	}
}
