package classify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compile-report/internal/parser/sizemap"
	"github.com/compile-report/internal/testutil"
	"github.com/compile-report/pkg/model"
)

func ingest(t *testing.T, doc *testutil.SizeMapBuilder) *model.PermutationReport {
	t.Helper()
	report := model.NewPermutationReport(0)
	report.SetSplitPointLocation(1, "onClick handler")
	_, err := sizemap.NewParser(nil).Parse(context.Background(), doc.Reader(), report)
	require.NoError(t, err)
	return report
}

func snapshot(report *model.PermutationReport) map[string]map[string][]string {
	out := make(map[string]map[string][]string)
	for _, b := range report.AllBreakdowns() {
		m := make(map[string][]string)
		for _, kind := range model.AllCategoryKinds() {
			m[kind.String()] = b.Categories.Get(kind).Classes()
		}
		out[b.ID()] = m
	}
	return out
}

func TestApply_PartitionWithoutGeneratedRPC(t *testing.T) {
	report := ingest(t, testutil.NewSizeMap().
		Section(0, 0).
		Type("java.util.ArrayList", 10).
		Type("com.google.gwt.lang.Cast", 2).
		Type("com.google.gwt.user.client.ui.Button", 5).
		Type("com.google.gwt.user.client.rpc.AsyncCallback", 3).
		Type("com.example.client.Account_CustomFieldSerializer", 4).
		Type("com.example.client.App", 8).
		Section(1, 0).
		Type("com.example.client.Settings", 6).
		Section(2, 0).
		Type("com.example.client.Shared", 1))

	Apply(report)

	assert.Empty(t, Verify(report))

	total := report.Total().Categories
	assert.True(t, total.RPCUser.IsEmpty())
	assert.True(t, total.RPCGwt.IsEmpty())
	assert.True(t, total.AllOther.Contains("com.example.client.Account_CustomFieldSerializer"))
	assert.True(t, total.AllOther.Contains("com.google.gwt.user.client.rpc.AsyncCallback"))
	assert.True(t, total.AllOther.Contains("com.example.client.App"))
	assert.True(t, total.Widget.Contains("com.google.gwt.user.client.ui.Button"))
	assert.Equal(t, int64(10), total.JRE.CumulativeSize(report.Total()))
	assert.Equal(t, int64(8+4+3+6+1), total.AllOther.CumulativeSize(report.Total()))

	sp1, err := report.SplitPointBreakdown(1)
	require.NoError(t, err)
	assert.Equal(t, int64(6), sp1.Categories.AllOther.CumulativeSize(sp1))
	// Inline rules only ran where a class had records; the fallback covers
	// every registered class.
	assert.True(t, sp1.Categories.AllOther.Contains("java.util.ArrayList"))
	assert.True(t, sp1.Categories.JRE.IsEmpty())
}

func TestApply_KeepsRPCWhenGeneratedCodeExists(t *testing.T) {
	report := ingest(t, testutil.NewSizeMap().
		Section(0, 0).
		Type("com.example.client.Account_CustomFieldSerializer", 4).
		Type("com.example.client.GreetingService_Proxy", 9).
		Type("com.google.gwt.user.client.rpc.AsyncCallback", 3))

	Apply(report)

	initial := report.Initial().Categories
	assert.True(t, initial.RPCUser.Contains("com.example.client.Account_CustomFieldSerializer"))
	assert.True(t, initial.RPCGen.Contains("com.example.client.GreetingService_Proxy"))
	assert.True(t, initial.RPCGwt.Contains("com.google.gwt.user.client.rpc.AsyncCallback"))
	assert.True(t, initial.AllOther.IsEmpty())

	// The leftovers saw none of these classes, so its rpcGen is empty and
	// the fold sends everything the fallback placed there to allOther.
	assert.Empty(t, Verify(report))
}

func TestApply_Idempotent(t *testing.T) {
	report := ingest(t, testutil.NewSizeMap().
		Section(0, 0).
		Type("com.example.client.Account_CustomFieldSerializer", 4).
		Type("com.google.gwt.user.client.rpc.RpcRequest", 2).
		Type("com.example.client.App", 1))

	Apply(report)
	once := snapshot(report)
	Apply(report)
	assert.Equal(t, once, snapshot(report))
}

func TestApply_FoldKeepsWidgetOwnedClasses(t *testing.T) {
	report := model.NewPermutationReport(0)
	class := "com.example.ui.Fancy_CustomFieldSerializer"
	report.RegisterClass(class)
	cats := report.Total().Categories
	cats.Widget.Add(class)
	cats.RPCUser.Add(class)

	Apply(report)

	assert.True(t, cats.RPCUser.IsEmpty())
	assert.True(t, cats.Widget.Contains(class))
	assert.False(t, cats.AllOther.Contains(class))
}

func TestVerify_ReportsOverlapsAndGaps(t *testing.T) {
	report := model.NewPermutationReport(0)
	report.RegisterClass("java.lang.Foo_Proxy")
	report.RegisterClass("a.Orphan")
	cats := report.Total().Categories
	cats.JRE.Add("java.lang.Foo_Proxy")
	cats.RPCGen.Add("java.lang.Foo_Proxy")

	violations := Verify(report)

	var total []Violation
	for _, v := range violations {
		if v.Breakdown == model.BreakdownTotal {
			total = append(total, v)
		}
	}
	require.Len(t, total, 2)
	assert.Equal(t, "a.Orphan", total[0].Class)
	assert.Empty(t, total[0].Categories)
	assert.Contains(t, total[0].String(), "no category")
	assert.Equal(t, "java.lang.Foo_Proxy", total[1].Class)
	assert.Equal(t, []model.CategoryKind{model.CategoryRPCGen, model.CategoryJRE}, total[1].Categories)
	assert.Contains(t, total[1].String(), "2 categories")
}
