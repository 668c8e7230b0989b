package callgraph

import (
	"strings"

	apperrors "github.com/compile-report/pkg/errors"
)

// DefaultMaxChainLength bounds a chain when no limit is configured.
const DefaultMaxChainLength = 10000

// Chain explains why a method is live: the callers from the method up
// to the root of its graph.
type Chain struct {
	Graph   string   `json:"graph"`
	Method  string   `json:"method"`
	Callers []string `json:"callers"`
}

// Root returns the outermost caller, or the method itself when it has
// no recorded callers.
func (c *Chain) Root() string {
	if len(c.Callers) == 0 {
		return c.Method
	}
	return c.Callers[len(c.Callers)-1]
}

// String renders the chain as "method <- caller <- ... <- root".
func (c *Chain) String() string {
	parts := make([]string, 0, len(c.Callers)+1)
	parts = append(parts, c.Method)
	parts = append(parts, c.Callers...)
	return strings.Join(parts, " <- ")
}

// Resolver walks caller links in a Set. It only reads the set and is safe
// for concurrent use once ingestion is complete.
type Resolver struct {
	set            *Set
	maxChainLength int
}

// NewResolver creates a resolver over set. A non-positive maxChainLength
// selects DefaultMaxChainLength.
func NewResolver(set *Set, maxChainLength int) *Resolver {
	if maxChainLength <= 0 {
		maxChainLength = DefaultMaxChainLength
	}
	return &Resolver{set: set, maxChainLength: maxChainLength}
}

// Chain returns the callers of method in graph, nearest first. The walk
// stops at a method without a recorded caller; a caller recorded as the
// empty string is a synthetic root and is not emitted.
//
// An unknown graph or method is a ReferenceError. A caller reached twice,
// or a chain longer than the configured maximum, is a CycleError.
func (r *Resolver) Chain(graphName, method string) ([]string, error) {
	g, ok := r.set.Get(graphName)
	if !ok {
		return nil, apperrors.ReferenceErrorf("unknown dependency graph %q", graphName)
	}
	if !g.Has(method) {
		return nil, apperrors.ReferenceErrorf("method %q not present in graph %q", method, graphName)
	}

	visited := map[string]struct{}{method: {}}
	var chain []string
	current := method
	for {
		caller, ok := g.Caller(current)
		if !ok || caller == "" {
			return chain, nil
		}
		if _, seen := visited[caller]; seen {
			return nil, apperrors.CycleErrorf("graph %q: %q is reached twice from %q", graphName, caller, method)
		}
		if len(chain) >= r.maxChainLength {
			return nil, apperrors.CycleErrorf("graph %q: chain of %q exceeds %d callers", graphName, method, r.maxChainLength)
		}
		visited[caller] = struct{}{}
		chain = append(chain, caller)
		current = caller
	}
}

// Explain is Chain wrapped into a Chain value.
func (r *Resolver) Explain(graphName, method string) (*Chain, error) {
	callers, err := r.Chain(graphName, method)
	if err != nil {
		return nil, err
	}
	return &Chain{Graph: graphName, Method: method, Callers: callers}, nil
}
