// Package callgraph holds the compiler's dependency graphs and answers
// "why is this method live" queries by walking recorded callers.
package callgraph

import (
	"fmt"
	"sort"
)

// Graph maps each method to the single method recorded as calling it.
type Graph struct {
	Name    string
	Extends string

	callers  map[string]string
	declared map[string]struct{}
}

// NewGraph creates an empty graph. extends may be empty.
func NewGraph(name, extends string) *Graph {
	return &Graph{
		Name:     name,
		Extends:  extends,
		callers:  make(map[string]string),
		declared: make(map[string]struct{}),
	}
}

// Declare records method as part of the graph without a caller.
func (g *Graph) Declare(method string) {
	g.declared[method] = struct{}{}
}

// SetCaller records caller for method unless one is already recorded.
// It reports whether the entry was written.
func (g *Graph) SetCaller(method, caller string) bool {
	g.declared[method] = struct{}{}
	if _, ok := g.callers[method]; ok {
		return false
	}
	g.callers[method] = caller
	return true
}

// Caller returns the recorded caller of method.
func (g *Graph) Caller(method string) (string, bool) {
	c, ok := g.callers[method]
	return c, ok
}

// Has reports whether method is known to the graph.
func (g *Graph) Has(method string) bool {
	_, ok := g.declared[method]
	return ok
}

// Len returns the number of methods with a recorded caller.
func (g *Graph) Len() int {
	return len(g.callers)
}

// Inherit copies every entry of parent that g does not already have.
// It returns the number of caller entries copied.
func (g *Graph) Inherit(parent *Graph) int {
	copied := 0
	for m, c := range parent.callers {
		if _, ok := g.callers[m]; !ok {
			g.callers[m] = c
			copied++
		}
	}
	for m := range parent.declared {
		g.declared[m] = struct{}{}
	}
	return copied
}

// Methods returns every known method sorted by name.
func (g *Graph) Methods() []string {
	out := make([]string, 0, len(g.declared))
	for m := range g.declared {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// ToMap returns method to caller. Methods declared without a caller map
// to the empty string, which resolves to an empty chain just like a
// synthetic root.
func (g *Graph) ToMap() map[string]string {
	out := make(map[string]string, len(g.declared))
	for m := range g.declared {
		out[m] = g.callers[m]
	}
	return out
}

// Set is a collection of named graphs in document order.
type Set struct {
	graphs map[string]*Graph
	order  []string
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{graphs: make(map[string]*Graph)}
}

// Add registers g. Graph names are unique.
func (s *Set) Add(g *Graph) error {
	if _, ok := s.graphs[g.Name]; ok {
		return fmt.Errorf("graph %q already defined", g.Name)
	}
	s.graphs[g.Name] = g
	s.order = append(s.order, g.Name)
	return nil
}

// Get returns the graph called name.
func (s *Set) Get(name string) (*Graph, bool) {
	g, ok := s.graphs[name]
	return g, ok
}

// Names returns graph names in the order they were added.
func (s *Set) Names() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of graphs.
func (s *Set) Len() int {
	return len(s.order)
}

// ToMap flattens the set for storage in a permutation report.
func (s *Set) ToMap() map[string]map[string]string {
	out := make(map[string]map[string]string, len(s.graphs))
	for name, g := range s.graphs {
		out[name] = g.ToMap()
	}
	return out
}

// SetFromMap rebuilds a set from the flattened form. Graph order is by
// name since the map does not keep document order.
func SetFromMap(graphs map[string]map[string]string) *Set {
	names := make([]string, 0, len(graphs))
	for name := range graphs {
		names = append(names, name)
	}
	sort.Strings(names)

	s := NewSet()
	for _, name := range names {
		g := NewGraph(name, "")
		for m, c := range graphs[name] {
			if c == "" {
				g.Declare(m)
				continue
			}
			g.SetCaller(m, c)
		}
		_ = s.Add(g)
	}
	return s
}
