// Package testutil builds compiler report documents for tests.
package testutil

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// GetTestDataPath returns the absolute path to a file in the nearest
// testdata directory above the caller.
func GetTestDataPath(t *testing.T, filename string) string {
	t.Helper()

	_, callerFile, _, ok := runtime.Caller(1)
	if !ok {
		t.Fatal("failed to get caller file path")
	}

	dir := filepath.Dir(callerFile)
	for i := 0; i < 5; i++ {
		testdataPath := filepath.Join(dir, "testdata", filename)
		if _, err := os.Stat(testdataPath); err == nil {
			return testdataPath
		}
		dir = filepath.Dir(dir)
	}
	return filepath.Join("testdata", filename)
}

// LoadFixtureReader opens a testdata file for reading.
func LoadFixtureReader(t *testing.T, filename string) io.Reader {
	t.Helper()
	data, err := os.ReadFile(GetTestDataPath(t, filename))
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", filename, err)
	}
	return bytes.NewReader(data)
}

func escape(s string) string {
	var buf strings.Builder
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// SizeMapBuilder writes a size-map document.
type SizeMapBuilder struct {
	buf  strings.Builder
	open bool
}

// NewSizeMap starts a size-map document.
func NewSizeMap() *SizeMapBuilder {
	b := &SizeMapBuilder{}
	b.buf.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<sizemaps>\n")
	return b
}

// Section opens a new fragment section, closing the previous one.
func (b *SizeMapBuilder) Section(fragment int, size int64) *SizeMapBuilder {
	b.closeSection()
	fmt.Fprintf(&b.buf, "  <sizemap fragment=\"%d\" size=\"%d\">\n", fragment, size)
	b.open = true
	return b
}

// Record adds a size record of any kind, including invalid ones.
func (b *SizeMapBuilder) Record(kind, ref string, size int64) *SizeMapBuilder {
	fmt.Fprintf(&b.buf, "    <size type=\"%s\" ref=\"%s\" size=\"%d\"/>\n", escape(kind), escape(ref), size)
	return b
}

// Raw appends literal markup.
func (b *SizeMapBuilder) Raw(markup string) *SizeMapBuilder {
	b.buf.WriteString(markup)
	b.buf.WriteString("\n")
	return b
}

// Type adds a type record.
func (b *SizeMapBuilder) Type(ref string, size int64) *SizeMapBuilder {
	return b.Record("type", ref, size)
}

// Method adds a method record.
func (b *SizeMapBuilder) Method(ref string, size int64) *SizeMapBuilder {
	return b.Record("method", ref, size)
}

// Field adds a field record.
func (b *SizeMapBuilder) Field(ref string, size int64) *SizeMapBuilder {
	return b.Record("field", ref, size)
}

// String adds a string literal record.
func (b *SizeMapBuilder) String(literal string, size int64) *SizeMapBuilder {
	return b.Record("string", literal, size)
}

// Var adds a local variable record.
func (b *SizeMapBuilder) Var(ref string, size int64) *SizeMapBuilder {
	return b.Record("var", ref, size)
}

func (b *SizeMapBuilder) closeSection() {
	if b.open {
		b.buf.WriteString("  </sizemap>\n")
		b.open = false
	}
}

// Build returns the finished document.
func (b *SizeMapBuilder) Build() string {
	b.closeSection()
	b.buf.WriteString("</sizemaps>\n")
	return b.buf.String()
}

// Reader returns the finished document as a reader.
func (b *SizeMapBuilder) Reader() io.Reader {
	return strings.NewReader(b.Build())
}

// SplitPointsBuilder writes a split-point document.
type SplitPointsBuilder struct {
	points  []string
	initial []int
}

// NewSplitPoints starts a split-point document.
func NewSplitPoints() *SplitPointsBuilder {
	return &SplitPointsBuilder{}
}

// Point declares a split point.
func (b *SplitPointsBuilder) Point(id int, location string) *SplitPointsBuilder {
	b.points = append(b.points, fmt.Sprintf("  <splitpoint id=\"%d\" location=\"%s\"/>", id, escape(location)))
	return b
}

// Initial sets the initial load sequence.
func (b *SplitPointsBuilder) Initial(ids ...int) *SplitPointsBuilder {
	b.initial = append(b.initial, ids...)
	return b
}

// Build returns the finished document.
func (b *SplitPointsBuilder) Build() string {
	var buf strings.Builder
	buf.WriteString("<splitpoints>\n")
	for _, p := range b.points {
		buf.WriteString(p)
		buf.WriteString("\n")
	}
	if len(b.initial) > 0 {
		buf.WriteString("  <initialseq>\n")
		for _, id := range b.initial {
			fmt.Fprintf(&buf, "    <splitpointref id=\"%d\"/>\n", id)
		}
		buf.WriteString("  </initialseq>\n")
	}
	buf.WriteString("</splitpoints>\n")
	return buf.String()
}

// Reader returns the finished document as a reader.
func (b *SplitPointsBuilder) Reader() io.Reader {
	return strings.NewReader(b.Build())
}

// DependenciesBuilder writes a dependency-graph document.
type DependenciesBuilder struct {
	buf        strings.Builder
	openTable  bool
	openMethod bool
}

// NewDependencies starts a dependency-graph document.
func NewDependencies() *DependenciesBuilder {
	b := &DependenciesBuilder{}
	b.buf.WriteString("<soyc-dependencies>\n")
	return b
}

// Table opens a graph. extends may be empty.
func (b *DependenciesBuilder) Table(name, extends string) *DependenciesBuilder {
	b.closeTable()
	if extends == "" {
		fmt.Fprintf(&b.buf, "  <table name=\"%s\">\n", escape(name))
	} else {
		fmt.Fprintf(&b.buf, "  <table name=\"%s\" extends=\"%s\">\n", escape(name), escape(extends))
	}
	b.openTable = true
	return b
}

// Method opens a method and records its callers in order.
func (b *DependenciesBuilder) Method(name string, calledBy ...string) *DependenciesBuilder {
	b.closeMethod()
	fmt.Fprintf(&b.buf, "    <method name=\"%s\">\n", escape(name))
	for _, by := range calledBy {
		fmt.Fprintf(&b.buf, "      <called by=\"%s\"/>\n", escape(by))
	}
	b.openMethod = true
	return b
}

// Raw appends literal markup.
func (b *DependenciesBuilder) Raw(markup string) *DependenciesBuilder {
	b.buf.WriteString(markup)
	b.buf.WriteString("\n")
	return b
}

func (b *DependenciesBuilder) closeMethod() {
	if b.openMethod {
		b.buf.WriteString("    </method>\n")
		b.openMethod = false
	}
}

func (b *DependenciesBuilder) closeTable() {
	b.closeMethod()
	if b.openTable {
		b.buf.WriteString("  </table>\n")
		b.openTable = false
	}
}

// Build returns the finished document.
func (b *DependenciesBuilder) Build() string {
	b.closeTable()
	b.buf.WriteString("</soyc-dependencies>\n")
	return b.buf.String()
}

// Reader returns the finished document as a reader.
func (b *DependenciesBuilder) Reader() io.Reader {
	return strings.NewReader(b.Build())
}
