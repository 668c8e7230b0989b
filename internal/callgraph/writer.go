package callgraph

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter writes chains as JSON.
type JSONWriter struct {
	// Indent specifies the indentation for pretty printing.
	Indent string
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter() *JSONWriter {
	return &JSONWriter{Indent: ""}
}

// NewPrettyJSONWriter creates a JSON writer with pretty printing.
func NewPrettyJSONWriter() *JSONWriter {
	return &JSONWriter{Indent: "  "}
}

// Write writes the chain as JSON to the writer.
func (w *JSONWriter) Write(c *Chain, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	if w.Indent != "" {
		encoder.SetIndent("", w.Indent)
	}
	if c.Callers == nil {
		cp := *c
		cp.Callers = []string{}
		c = &cp
	}
	return encoder.Encode(c)
}

// DOTWriter writes a chain in DOT format, one edge per caller link.
type DOTWriter struct{}

// NewDOTWriter creates a new DOT format writer.
func NewDOTWriter() *DOTWriter {
	return &DOTWriter{}
}

// Write writes the chain in DOT format. Edges point from caller to callee.
func (w *DOTWriter) Write(c *Chain, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "digraph %q {\n", c.Graph); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(writer, "  node [shape=box];"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "  %q [style=bold];\n", c.Method); err != nil {
		return err
	}

	callee := c.Method
	for _, caller := range c.Callers {
		if _, err := fmt.Fprintf(writer, "  %q -> %q;\n", caller, callee); err != nil {
			return err
		}
		callee = caller
	}

	_, err := fmt.Fprintln(writer, "}")
	return err
}
