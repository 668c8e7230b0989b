// Package splitpoint ingests the split-point document: split point
// declarations and the initial load sequence.
package splitpoint

import (
	"context"
	"io"
	"strings"

	"github.com/compile-report/internal/parser"
	"github.com/compile-report/pkg/model"
	"github.com/compile-report/pkg/utils"
)

const (
	elemSplitPoint = "splitpoint"
	elemInitialSeq = "initialseq"
	elemRef        = "splitpointref"
)

// Parser implements parser.Ingestor for split-point documents.
type Parser struct {
	logger utils.Logger
}

// NewParser creates a split-point parser. A nil logger discards output.
func NewParser(logger utils.Logger) *Parser {
	return &Parser{logger: utils.OrNull(logger)}
}

// Kind returns parser.DocumentSplitPoints.
func (p *Parser) Kind() parser.DocumentKind {
	return parser.DocumentSplitPoints
}

// Ingest is Parse under the parser.Ingestor name.
func (p *Parser) Ingest(ctx context.Context, r io.Reader, report *model.PermutationReport) (*parser.Stats, error) {
	return p.Parse(ctx, r, report)
}

// Parse registers every declared split point and appends the initial
// load sequence to report.
func (p *Parser) Parse(ctx context.Context, r io.Reader, report *model.PermutationReport) (*parser.Stats, error) {
	if report == nil {
		return nil, parser.ErrNilReport
	}

	h := &handler{report: report, stats: parser.NewStats()}
	if err := parser.Walk(ctx, r, h); err != nil {
		p.logger.Warn("split points of permutation %d aborted: %v", report.PermutationID, err)
		return h.stats, err
	}

	p.logger.Debug("split points of permutation %d: %d declared, initial sequence %v",
		report.PermutationID, report.NumSplitPoints(), report.InitialLoadSequence)
	return h.stats, nil
}

type handler struct {
	report    *model.PermutationReport
	stats     *parser.Stats
	inInitial bool
}

func (h *handler) StartElement(el parser.Element) error {
	h.stats.Elements++
	switch el.Name {
	case elemSplitPoint:
		return h.declare(el)
	case elemInitialSeq:
		h.inInitial = true
		h.stats.Sections++
	case elemRef:
		if !h.inInitial {
			h.stats.Skipped++
			return nil
		}
		id, err := requireID(el)
		if err != nil {
			return err
		}
		h.report.InitialLoadSequence = append(h.report.InitialLoadSequence, id)
		h.stats.Count(elemRef, 0)
	}
	return nil
}

func (h *handler) EndElement(name string) error {
	if name == elemInitialSeq {
		h.inInitial = false
	}
	return nil
}

func (h *handler) declare(el parser.Element) error {
	id, err := requireID(el)
	if err != nil {
		return err
	}
	location, err := el.Require("location")
	if err != nil {
		return err
	}
	h.report.SetSplitPointLocation(id, StripAnnotation(location))
	h.stats.Count(elemSplitPoint, 0)
	return nil
}

func requireID(el parser.Element) (int, error) {
	id, err := el.RequireInt("id")
	if err != nil {
		return 0, err
	}
	if id < 1 {
		return 0, el.Errorf("split point id must be positive, got %d", id)
	}
	return id, nil
}

// StripAnnotation removes one trailing parenthetical, such as a source
// position, and the spaces before it. The parenthetical must be non-empty
// and separated from the location by a space, so argument lists like
// "open()" stay. Unbalanced parentheses are left alone.
func StripAnnotation(location string) string {
	s := strings.TrimRight(location, " ")
	if !strings.HasSuffix(s, ")") {
		return s
	}

	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth != 0 {
				continue
			}
			if i == 0 || s[i-1] != ' ' || strings.TrimSpace(s[i+1:len(s)-1]) == "" {
				return s
			}
			return strings.TrimRight(s[:i], " ")
		}
	}
	return s
}
