package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryKind_Tokens(t *testing.T) {
	kinds := AllCategoryKinds()
	require.Len(t, kinds, 7)

	tokens := make([]string, len(kinds))
	for i, k := range kinds {
		tokens[i] = k.String()
		assert.NotEmpty(t, k.Description())
	}
	assert.Equal(t, []string{"allOther", "widget", "rpcUser", "rpcGen", "rpcGwt", "gwtLang", "jre"}, tokens)

	kind, ok := ParseCategoryKind("rpcGwt")
	assert.True(t, ok)
	assert.Equal(t, CategoryRPCGwt, kind)

	_, ok = ParseCategoryKind("other")
	assert.False(t, ok)
	assert.Equal(t, "unknown", CategoryKind(12).String())
}

func TestCodeCategory_Membership(t *testing.T) {
	c := NewCodeCategory(CategoryJRE)
	c.Add("java.lang.String")
	c.Add("java.lang.String")
	c.Add("java.util.ArrayList")

	assert.Equal(t, CategoryJRE, c.Kind())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"java.lang.String", "java.util.ArrayList"}, c.Classes())

	c.Remove("java.lang.String")
	c.Remove("absent")
	assert.False(t, c.Contains("java.lang.String"))

	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestCodeCategory_CumulativeSize(t *testing.T) {
	b := NewSizeBreakdown("total", "Total")
	b.AddClassSize("a.A", 10)
	b.AddClassSize("a.B", 20)

	c := NewCodeCategory(CategoryAllOther)
	c.Add("a.A")
	c.Add("a.Missing")
	assert.Equal(t, int64(10), c.CumulativeSize(b), "absent members contribute zero")

	c.Add("a.B")
	assert.Equal(t, int64(30), c.CumulativeSize(b), "membership change invalidates cache")

	b.AddClassSize("a.A", 5)
	assert.Equal(t, int64(35), c.CumulativeSize(b), "size change invalidates cache")

	other := NewSizeBreakdown("initial", "Initial")
	other.AddClassSize("a.B", 1)
	assert.Equal(t, int64(1), c.CumulativeSize(other))
	assert.Equal(t, int64(35), c.CumulativeSize(b))

	assert.Equal(t, int64(0), c.CumulativeSize(nil))
}

func TestCategories_Get(t *testing.T) {
	cats := NewCategories()
	for _, kind := range AllCategoryKinds() {
		c := cats.Get(kind)
		require.NotNil(t, c)
		assert.Equal(t, kind, c.Kind())
	}
	assert.Nil(t, cats.Get(CategoryKind(7)))

	cats.JRE.Add("java.lang.Object")
	cats.RPCGen.Add("java.lang.Object")
	assert.Equal(t, []CategoryKind{CategoryRPCGen, CategoryJRE}, cats.MembershipOf("java.lang.Object"))
	assert.Empty(t, cats.MembershipOf("x.Y"))
}
