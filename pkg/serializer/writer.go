// Package serializer writes results as JSON, YAML or a flattened table.
package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// SupportedFormats returns the names of all formats.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	}
	return true
}

// Serializer writes a value somewhere.
type Serializer interface {
	Serialize(ctx context.Context, data any) error
}

// Closer is implemented by serializers that own a resource.
type Closer interface {
	Close() error
}

// Writer serializes values to an io.Writer in one format.
type Writer struct {
	format Format
	out    io.Writer
	closer io.Closer

	closeOnce sync.Once
	closeErr  error
}

// NewWriter returns a Writer for out. Unknown formats fall back to JSON.
func NewWriter(format Format, out io.Writer) *Writer {
	if format.IsUnknown() {
		format = FormatJSON
	}
	if out == nil {
		out = os.Stdout
	}
	return &Writer{format: format, out: out}
}

// NewStdoutWriter returns a Writer for standard output.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout returns a Writer for path, or for standard output
// when path is blank or "-". The caller closes file writers through Closer.
func NewFileWriterOrStdout(format Format, path string) (Serializer, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format), nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	w := NewWriter(format, f)
	w.closer = f
	return w, nil
}

// Write passes raw bytes through to the destination, for output that is
// already rendered.
func (w *Writer) Write(p []byte) (int, error) {
	return w.out.Write(p)
}

// Close closes the underlying file, if any. It is safe to call more than once.
func (w *Writer) Close() error {
	w.closeOnce.Do(func() {
		if w.closer != nil {
			w.closeErr = w.closer.Close()
		}
	})
	return w.closeErr
}

// Serialize writes data in the writer's format.
func (w *Writer) Serialize(ctx context.Context, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch w.format {
	case FormatYAML:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return w.serializeTable(data)
	default:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		return nil
	}
}

// serializeTable flattens data into FIELD/VALUE rows. The value goes through
// JSON first so custom marshalers and json tags apply, then through a YAML
// node tree, which keeps object key order.
func (w *Writer) serializeTable(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize to table: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return fmt.Errorf("failed to serialize to table: %w", err)
	}

	var rows [][2]string
	if len(node.Content) > 0 {
		rows = flatten("", node.Content[0], rows)
	}

	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	if len(rows) == 0 {
		fmt.Fprintln(tw, "<empty>\t")
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}

func flatten(prefix string, n *yaml.Node, rows [][2]string) [][2]string {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if prefix != "" {
				key = prefix + "." + key
			}
			rows = flatten(key, n.Content[i+1], rows)
		}
	case yaml.SequenceNode:
		for i, c := range n.Content {
			rows = flatten(fmt.Sprintf("%s[%d]", prefix, i), c, rows)
		}
	case yaml.AliasNode:
		return flatten(prefix, n.Alias, rows)
	default:
		v := n.Value
		if n.Tag == "!!null" {
			v = "<nil>"
		}
		rows = append(rows, [2]string{prefix, v})
	}
	return rows
}
