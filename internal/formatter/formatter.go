// Package formatter renders permutation summaries for terminals and
// scripts.
package formatter

import (
	"fmt"
	"io"
	"sort"

	"github.com/compile-report/pkg/model"
)

// ReportFormatter writes one permutation summary.
type ReportFormatter interface {
	// Format writes s to w.
	Format(w io.Writer, s *model.ReportSummary) error

	// Name is the value selecting this formatter on the command line.
	Name() string
}

// Registry manages formatter instances.
type Registry struct {
	formatters map[string]ReportFormatter
}

// NewRegistry creates a new formatter registry with the text and JSON
// formatters.
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[string]ReportFormatter)}
	r.Register(&TextFormatter{})
	r.Register(&JSONFormatter{Indent: "  "})
	return r
}

// Register registers a formatter, replacing one of the same name.
func (r *Registry) Register(f ReportFormatter) {
	r.formatters[f.Name()] = f
}

// Get returns the formatter called name.
func (r *Registry) Get(name string) (ReportFormatter, error) {
	if f, ok := r.formatters[name]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("unknown output format %q (valid: %v)", name, r.Names())
}

// Names lists the registered formatter names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format writes s to w with the formatter called name.
func (r *Registry) Format(w io.Writer, name string, s *model.ReportSummary) error {
	f, err := r.Get(name)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("nothing to format")
	}
	return f.Format(w, s)
}
