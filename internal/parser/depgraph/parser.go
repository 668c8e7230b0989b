// Package depgraph ingests the dependency-graph document: named tables of
// method to calling-method links, where a table may extend one declared
// earlier in the same document.
package depgraph

import (
	"context"
	"io"

	"github.com/compile-report/internal/callgraph"
	"github.com/compile-report/internal/parser"
	"github.com/compile-report/pkg/model"
	"github.com/compile-report/pkg/utils"
)

const (
	elemTable  = "table"
	elemMethod = "method"
	elemCalled = "called"
)

// Parser implements parser.Ingestor for dependency documents.
type Parser struct {
	logger utils.Logger
}

// NewParser creates a dependency-graph parser. A nil logger discards output.
func NewParser(logger utils.Logger) *Parser {
	return &Parser{logger: utils.OrNull(logger)}
}

// Kind returns parser.DocumentDependencies.
func (p *Parser) Kind() parser.DocumentKind {
	return parser.DocumentDependencies
}

// Parse reads every graph of the document. Inheritance is merged eagerly
// when a table closes. On error the returned set holds what was read
// before the failure.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*callgraph.Set, *parser.Stats, error) {
	h := &handler{set: callgraph.NewSet(), stats: parser.NewStats()}
	if err := parser.Walk(ctx, r, h); err != nil {
		p.logger.Warn("dependency graphs aborted after %d graphs: %v", h.set.Len(), err)
		return h.set, h.stats, err
	}

	p.logger.Debug("dependency graphs: %d graphs, %d links", h.set.Len(), h.stats.Records)
	return h.set, h.stats, nil
}

// Ingest parses the document and stores the graphs in report, replacing
// any graphs stored before.
func (p *Parser) Ingest(ctx context.Context, r io.Reader, report *model.PermutationReport) (*parser.Stats, error) {
	if report == nil {
		return nil, parser.ErrNilReport
	}
	set, stats, err := p.Parse(ctx, r)
	report.DependencyGraphs = set.ToMap()
	return stats, err
}

type handler struct {
	set   *callgraph.Set
	stats *parser.Stats

	table     *callgraph.Graph
	tableElem parser.Element
	method    string
	hasMethod bool
}

func (h *handler) StartElement(el parser.Element) error {
	h.stats.Elements++
	switch el.Name {
	case elemTable:
		return h.openTable(el)
	case elemMethod:
		return h.openMethod(el)
	case elemCalled:
		return h.called(el)
	}
	return nil
}

func (h *handler) EndElement(name string) error {
	switch name {
	case elemMethod:
		h.method, h.hasMethod = "", false
	case elemTable:
		return h.closeTable()
	}
	return nil
}

func (h *handler) openTable(el parser.Element) error {
	if h.table != nil {
		return el.Errorf("table nested inside table %q", h.table.Name)
	}
	name, err := el.Require("name")
	if err != nil {
		return err
	}
	extends, _ := el.Attr("extends")

	g := callgraph.NewGraph(name, extends)
	if err := h.set.Add(g); err != nil {
		return el.Errorf("%v", err)
	}
	h.table, h.tableElem = g, el
	h.stats.Sections++
	return nil
}

func (h *handler) openMethod(el parser.Element) error {
	if h.table == nil {
		return el.Errorf("method outside of a table")
	}
	name, err := el.Require("name")
	if err != nil {
		return err
	}
	h.table.Declare(name)
	h.method, h.hasMethod = name, true
	return nil
}

func (h *handler) called(el parser.Element) error {
	if !h.hasMethod {
		return el.Errorf("called record before any method")
	}
	by, err := el.Require("by")
	if err != nil {
		return err
	}
	if !h.table.SetCaller(h.method, by) {
		h.stats.Skipped++
		return nil
	}
	h.stats.Count(elemCalled, 0)
	return nil
}

func (h *handler) closeTable() error {
	g := h.table
	h.table = nil
	if g == nil || g.Extends == "" {
		return nil
	}

	parent, ok := h.set.Get(g.Extends)
	if !ok || parent == g {
		return h.tableElem.Errorf("table %q extends unknown table %q", g.Name, g.Extends)
	}
	g.Inherit(parent)
	return nil
}
