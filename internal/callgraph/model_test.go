package callgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_FirstWriterWins(t *testing.T) {
	g := NewGraph("main", "")

	assert.True(t, g.SetCaller("m1", "m0"))
	assert.False(t, g.SetCaller("m1", "other"))

	caller, ok := g.Caller("m1")
	require.True(t, ok)
	assert.Equal(t, "m0", caller)
	assert.Equal(t, 1, g.Len())
}

func TestGraph_DeclareWithoutCaller(t *testing.T) {
	g := NewGraph("main", "")
	g.Declare("entry")

	assert.True(t, g.Has("entry"))
	_, ok := g.Caller("entry")
	assert.False(t, ok)
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, map[string]string{"entry": ""}, g.ToMap())
}

func TestGraph_InheritDoesNotOverwrite(t *testing.T) {
	parent := NewGraph("A", "")
	parent.SetCaller("m1", "m0")
	parent.SetCaller("m2", "fromParent")
	parent.Declare("lonely")

	child := NewGraph("B", "A")
	child.SetCaller("m2", "fromChild")

	copied := child.Inherit(parent)
	assert.Equal(t, 1, copied)

	c, _ := child.Caller("m2")
	assert.Equal(t, "fromChild", c)
	c, _ = child.Caller("m1")
	assert.Equal(t, "m0", c)
	assert.True(t, child.Has("lonely"))
	assert.Equal(t, []string{"lonely", "m1", "m2"}, child.Methods())
}

func TestSet_AddAndOrder(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(NewGraph("zeta", "")))
	require.NoError(t, s.Add(NewGraph("alpha", "")))
	assert.Error(t, s.Add(NewGraph("zeta", "")))

	assert.Equal(t, []string{"zeta", "alpha"}, s.Names())
	assert.Equal(t, 2, s.Len())

	_, ok := s.Get("missing")
	assert.False(t, ok)
}

func TestSetFromMap_RoundTripsResolution(t *testing.T) {
	s := NewSet()
	g := NewGraph("main", "")
	g.SetCaller("m2", "m1")
	g.SetCaller("m1", "m0")
	g.Declare("m0")
	require.NoError(t, s.Add(g))

	rebuilt := SetFromMap(s.ToMap())
	chain, err := NewResolver(rebuilt, 0).Chain("main", "m2")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m0"}, chain)

	chain, err = NewResolver(rebuilt, 0).Chain("main", "m0")
	require.NoError(t, err)
	assert.Empty(t, chain)
}
