package depgraph

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compile-report/internal/callgraph"
	"github.com/compile-report/internal/parser"
	"github.com/compile-report/internal/testutil"
	apperrors "github.com/compile-report/pkg/errors"
	"github.com/compile-report/pkg/model"
)

func TestParser_Kind(t *testing.T) {
	var ing parser.Ingestor = NewParser(nil)
	assert.Equal(t, parser.DocumentDependencies, ing.Kind())
}

func TestParser_Inheritance(t *testing.T) {
	doc := testutil.NewDependencies().
		Table("A", "").Method("m1", "m0").
		Table("B", "A").Method("m2", "m1")

	set, stats, err := NewParser(nil).Parse(context.Background(), doc.Reader())
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, set.Names())
	assert.Equal(t, 2, stats.Sections)
	assert.Equal(t, 2, stats.Records)

	chain, err := callgraph.NewResolver(set, 0).Chain("B", "m2")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m0"}, chain)
}

func TestParser_ChildEntriesAreNotOverwritten(t *testing.T) {
	doc := testutil.NewDependencies().
		Table("A", "").Method("m1", "fromA").Method("m3", "m9").
		Table("B", "A").Method("m1", "fromB")

	set, _, err := NewParser(nil).Parse(context.Background(), doc.Reader())
	require.NoError(t, err)

	b, ok := set.Get("B")
	require.True(t, ok)
	c, _ := b.Caller("m1")
	assert.Equal(t, "fromB", c)
	c, _ = b.Caller("m3")
	assert.Equal(t, "m9", c)
}

func TestParser_FirstWriterWins(t *testing.T) {
	doc := testutil.NewDependencies().
		Table("main", "").Method("m1", "first", "second")

	set, stats, err := NewParser(nil).Parse(context.Background(), doc.Reader())
	require.NoError(t, err)

	g, _ := set.Get("main")
	c, _ := g.Caller("m1")
	assert.Equal(t, "first", c)
	assert.Equal(t, 1, stats.Skipped)
}

func TestParser_MethodWithoutCaller(t *testing.T) {
	doc := testutil.NewDependencies().
		Table("main", "").Method("entry").Method("m1", "entry")

	set, _, err := NewParser(nil).Parse(context.Background(), doc.Reader())
	require.NoError(t, err)

	r := callgraph.NewResolver(set, 0)
	chain, err := r.Chain("main", "entry")
	require.NoError(t, err)
	assert.Empty(t, chain)

	chain, err = r.Chain("main", "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"entry"}, chain)
}

func TestParser_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown extends",
			doc:  `<soyc-dependencies><table name="B" extends="A"></table></soyc-dependencies>`,
			want: `extends unknown table "A"`,
		},
		{
			name: "extends a later table",
			doc:  `<soyc-dependencies><table name="B" extends="A"></table><table name="A"></table></soyc-dependencies>`,
			want: `extends unknown table "A"`,
		},
		{
			name: "extends itself",
			doc:  `<soyc-dependencies><table name="A" extends="A"></table></soyc-dependencies>`,
			want: `extends unknown table "A"`,
		},
		{
			name: "called before method",
			doc:  `<soyc-dependencies><table name="A"><called by="x"/></table></soyc-dependencies>`,
			want: "called record before any method",
		},
		{
			name: "called after method closed",
			doc:  `<soyc-dependencies><table name="A"><method name="m"></method><called by="x"/></table></soyc-dependencies>`,
			want: "called record before any method",
		},
		{
			name: "missing by",
			doc:  `<soyc-dependencies><table name="A"><method name="m"><called/></method></table></soyc-dependencies>`,
			want: `missing required attribute "by"`,
		},
		{
			name: "missing table name",
			doc:  `<soyc-dependencies><table></table></soyc-dependencies>`,
			want: `missing required attribute "name"`,
		},
		{
			name: "duplicate table",
			doc:  `<soyc-dependencies><table name="A"></table><table name="A"></table></soyc-dependencies>`,
			want: `graph "A" already defined`,
		},
		{
			name: "method outside table",
			doc:  `<soyc-dependencies><method name="m"/></soyc-dependencies>`,
			want: "method outside of a table",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewParser(nil).Parse(context.Background(), strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, apperrors.IsFormatError(err), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParser_IngestStoresGraphs(t *testing.T) {
	report := model.NewPermutationReport(0)
	doc := testutil.NewDependencies().Table("A", "").Method("m1", "m0")

	_, err := NewParser(nil).Ingest(context.Background(), doc.Reader(), report)
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]string{"A": {"m1": "m0"}}, report.DependencyGraphs)

	_, err = NewParser(nil).Ingest(context.Background(), strings.NewReader(""), nil)
	assert.ErrorIs(t, err, parser.ErrNilReport)
}
