// Package sizemap ingests the compiler's size-map document: per-fragment
// sections of size records attributed to classes, methods, fields, string
// literals and local variables.
package sizemap

import (
	"context"
	"io"

	"github.com/compile-report/internal/parser"
	"github.com/compile-report/pkg/filter"
	"github.com/compile-report/pkg/model"
	"github.com/compile-report/pkg/utils"
)

const (
	elemSection = "sizemap"
	elemRecord  = "size"
)

// Options configures the size-map parser.
type Options struct {
	// Filter decides the inline categories of each class.
	// Defaults to filter.DefaultFilter.
	Filter *filter.CategoryFilter

	// Logger receives a summary line per document.
	Logger utils.Logger
}

// Parser implements parser.Ingestor for size maps.
type Parser struct {
	filter *filter.CategoryFilter
	logger utils.Logger
}

// NewParser creates a size-map parser.
func NewParser(opts *Options) *Parser {
	p := &Parser{filter: filter.DefaultFilter, logger: &utils.NullLogger{}}
	if opts != nil {
		if opts.Filter != nil {
			p.filter = opts.Filter
		}
		p.logger = utils.OrNull(opts.Logger)
	}
	return p
}

// Kind returns parser.DocumentSizeMap.
func (p *Parser) Kind() parser.DocumentKind {
	return parser.DocumentSizeMap
}

// Ingest is Parse under the parser.Ingestor name.
func (p *Parser) Ingest(ctx context.Context, r io.Reader, report *model.PermutationReport) (*parser.Stats, error) {
	return p.Parse(ctx, r, report)
}

// Parse applies every size record to the breakdowns its fragment maps to.
// Split points must already be ingested so that fragment numbers resolve
// to the right breakdowns. Package sizes are recomputed after a complete
// document; after a failure they are stale until the next recomputation.
func (p *Parser) Parse(ctx context.Context, r io.Reader, report *model.PermutationReport) (*parser.Stats, error) {
	if report == nil {
		return nil, parser.ErrNilReport
	}

	h := &handler{report: report, filter: p.filter, stats: parser.NewStats()}
	if err := parser.Walk(ctx, r, h); err != nil {
		p.logger.Warn("size map of permutation %d aborted after %d records: %v", report.PermutationID, h.stats.Records, err)
		return h.stats, err
	}

	report.RecomputePackageSizes()
	cached, limit := p.filter.CacheStats()
	p.logger.Debug("size map of permutation %d: %d sections, %d records, %d bytes, %d/%d classes cached",
		report.PermutationID, h.stats.Sections, h.stats.Records, h.stats.Bytes, cached, limit)
	return h.stats, nil
}

type handler struct {
	report *model.PermutationReport
	filter *filter.CategoryFilter
	stats  *parser.Stats

	// breakdowns of the open section, nil outside a section
	breakdowns []*model.SizeBreakdown
}

func (h *handler) StartElement(el parser.Element) error {
	h.stats.Elements++
	switch el.Name {
	case elemSection:
		return h.openSection(el)
	case elemRecord:
		return h.record(el)
	}
	return nil
}

func (h *handler) EndElement(name string) error {
	if name == elemSection {
		h.breakdowns = nil
	}
	return nil
}

func (h *handler) openSection(el parser.Element) error {
	fragment, err := el.RequireInt("fragment")
	if err != nil {
		return err
	}
	size, err := el.RequireInt64("size")
	if err != nil {
		return err
	}

	h.report.FragmentSizes[fragment] += size
	h.breakdowns = h.report.BreakdownsForFragment(fragment)
	h.stats.Sections++
	return nil
}

func (h *handler) record(el parser.Element) error {
	if h.breakdowns == nil {
		return el.Errorf("size record outside of a <%s> section", elemSection)
	}

	typ, err := el.Require("type")
	if err != nil {
		return err
	}
	ref, err := el.Require("ref")
	if err != nil {
		return err
	}
	size, err := el.RequireInt64("size")
	if err != nil {
		return err
	}
	kind, ok := model.ParseRefKind(typ)
	if !ok {
		return el.Errorf("unknown reference kind %q", typ)
	}
	if size < 0 {
		return el.Errorf("negative size %d for %q", size, ref)
	}

	h.apply(kind, ref, size)
	h.stats.Count(string(kind), size)
	return nil
}

func (h *handler) apply(kind model.RefKind, ref string, size int64) {
	switch kind {
	case model.RefString:
		for _, b := range h.breakdowns {
			b.Literals.String.Add(ref, size)
			b.AddTotal(size)
		}
	case model.RefVar:
		for _, b := range h.breakdowns {
			b.AddTotal(size)
		}
	case model.RefMethod:
		for _, b := range h.breakdowns {
			b.SetMethodSize(ref, size)
		}
		h.attribute(kind, ref, size)
	case model.RefType, model.RefField:
		h.attribute(kind, ref, size)
	}
}

// attribute charges size to the owning class of ref in every open
// breakdown and classifies the class there.
func (h *handler) attribute(kind model.RefKind, ref string, size int64) {
	class := model.OwningClass(kind, ref)
	pkg, _ := h.report.RegisterClass(class)
	categories := h.filter.Classify(class, pkg)

	for _, b := range h.breakdowns {
		for _, c := range categories {
			b.Categories.Get(c).Add(class)
		}
		b.AddClassSize(class, size)
		b.AddTotal(size)
	}
}
