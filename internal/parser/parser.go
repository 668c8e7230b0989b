// Package parser holds what the three report document ingestors share: the
// Ingestor contract, streaming XML walking and attribute decoding.
package parser

import (
	"context"
	"io"
	"sort"

	"github.com/compile-report/pkg/model"
)

// DocumentKind names one of the compiler's report documents.
type DocumentKind string

const (
	// DocumentSplitPoints is the split-point metadata document.
	DocumentSplitPoints DocumentKind = "splitpoints"
	// DocumentSizeMap is the per-fragment size map ("stories") document.
	DocumentSizeMap DocumentKind = "sizemap"
	// DocumentDependencies is the dependency-graph document.
	DocumentDependencies DocumentKind = "dependencies"
)

// Ingestor applies one document to a permutation report.
type Ingestor interface {
	// Ingest streams the document from r into report. The first malformed
	// record aborts ingestion; records applied before it stay applied.
	Ingest(ctx context.Context, r io.Reader, report *model.PermutationReport) (*Stats, error)

	// Kind returns the document kind this ingestor reads.
	Kind() DocumentKind
}

// Stats counts what one ingestion pass saw.
type Stats struct {
	Elements int
	Sections int
	Records  int
	Skipped  int
	Bytes    int64
	ByKind   map[string]int
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{ByKind: make(map[string]int)}
}

// Count records one record of kind.
func (s *Stats) Count(kind string, size int64) {
	s.Records++
	s.Bytes += size
	s.ByKind[kind]++
}

// Kinds returns the record kinds seen, sorted.
func (s *Stats) Kinds() []string {
	kinds := make([]string, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
