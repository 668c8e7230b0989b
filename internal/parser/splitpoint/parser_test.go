package splitpoint

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compile-report/internal/parser"
	"github.com/compile-report/internal/testutil"
	apperrors "github.com/compile-report/pkg/errors"
	"github.com/compile-report/pkg/model"
)

func TestStripAnnotation(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"onClick handler", "onClick handler"},
		{"onClick handler (Main.java:42)", "onClick handler"},
		{"com.example.Main.onModuleLoad() (Main.java:42)", "com.example.Main.onModuleLoad()"},
		{"load (nested (x) y)", "load"},
		{"trailing spaces   ", "trailing spaces"},
		{"unbalanced)", "unbalanced)"},
		{"(only)", "(only)"},
		{"com.example.Settings.open()", "com.example.Settings.open()"},
		{"com.example.Settings.open(I)", "com.example.Settings.open(I)"},
		{"com.example.Settings.open ()", "com.example.Settings.open ()"},
		{"com.example.Settings.open() (runAsync)", "com.example.Settings.open()"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripAnnotation(tt.in))
		})
	}
}

func TestParser_Declarations(t *testing.T) {
	report := model.NewPermutationReport(3)
	doc := testutil.NewSplitPoints().
		Point(1, "onClick handler (Main.java:17)").
		Point(2, "com.example.Settings.open()").
		Initial(2, 1)

	stats, err := NewParser(nil).Parse(context.Background(), doc.Reader(), report)
	require.NoError(t, err)

	assert.Equal(t, 2, report.NumSplitPoints())
	assert.Equal(t, "onClick handler", report.SplitPointLocations[1])
	assert.Equal(t, "com.example.Settings.open()", report.SplitPointLocations[2])
	assert.Equal(t, []int{2, 1}, report.InitialLoadSequence)
	assert.Equal(t, 4, stats.Records)
	assert.Equal(t, 1, stats.Sections)

	b, err := report.SplitPointBreakdown(1)
	require.NoError(t, err)
	assert.Equal(t, "sp1", b.ID())
	assert.Contains(t, b.Description(), "onClick handler")
}

func TestParser_RefOutsideInitialSequenceIsIgnored(t *testing.T) {
	report := model.NewPermutationReport(0)
	doc := `<splitpoints><splitpoint id="1" location="a"/><splitpointref id="1"/></splitpoints>`

	stats, err := NewParser(nil).Parse(context.Background(), strings.NewReader(doc), report)
	require.NoError(t, err)
	assert.Empty(t, report.InitialLoadSequence)
	assert.Equal(t, 1, stats.Skipped)
}

func TestParser_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"ref without id", `<splitpoints><initialseq><splitpointref/></initialseq></splitpoints>`, `missing required attribute "id"`},
		{"declaration without id", `<splitpoints><splitpoint location="x"/></splitpoints>`, `missing required attribute "id"`},
		{"declaration without location", `<splitpoints><splitpoint id="1"/></splitpoints>`, `missing required attribute "location"`},
		{"non-numeric id", `<splitpoints><splitpoint id="one" location="x"/></splitpoints>`, "not an integer"},
		{"zero id", `<splitpoints><splitpoint id="0" location="x"/></splitpoints>`, "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(nil).Parse(context.Background(), strings.NewReader(tt.doc), model.NewPermutationReport(0))
			require.Error(t, err)
			assert.True(t, apperrors.IsFormatError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParser_NilReport(t *testing.T) {
	_, err := NewParser(nil).Ingest(context.Background(), strings.NewReader("<splitpoints/>"), nil)
	assert.ErrorIs(t, err, parser.ErrNilReport)
}
