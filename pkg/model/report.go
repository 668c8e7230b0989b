package model

import (
	"fmt"
	"sort"

	apperrors "github.com/compile-report/pkg/errors"
)

// Fixed breakdown ids.
const (
	BreakdownTotal     = "total"
	BreakdownInitial   = "initial"
	BreakdownLeftovers = "leftovers"
)

// SplitPointBreakdownID returns the id of the exclusive breakdown of a
// split point.
func SplitPointBreakdownID(id int) string {
	return fmt.Sprintf("sp%d", id)
}

// PermutationReport aggregates everything known about one compiler
// permutation. It is mutated by ingestion and the classification
// heuristics and is read-only afterwards. It is not safe for concurrent
// mutation.
type PermutationReport struct {
	PermutationID int

	// ClassToPackage is written once per class.
	ClassToPackage   map[string]string
	PackageToClasses map[string]map[string]struct{}

	SplitPointLocations map[int]string
	InitialLoadSequence []int

	// DependencyGraphs maps graph name to method to caller. Nil when no
	// dependency document was ingested.
	DependencyGraphs map[string]map[string]string

	// FragmentSizes holds the aggregate size declared by each size-map section.
	FragmentSizes map[int]int64

	total     *SizeBreakdown
	initial   *SizeBreakdown
	leftovers *SizeBreakdown
	exclusive map[int]*SizeBreakdown
}

// NewPermutationReport creates an empty report.
func NewPermutationReport(permutationID int) *PermutationReport {
	return &PermutationReport{
		PermutationID:       permutationID,
		ClassToPackage:      make(map[string]string),
		PackageToClasses:    make(map[string]map[string]struct{}),
		SplitPointLocations: make(map[int]string),
		FragmentSizes:       make(map[int]int64),
		total:               NewSizeBreakdown(BreakdownTotal, "Total program"),
		initial:             NewSizeBreakdown(BreakdownInitial, "Initial download"),
		leftovers:           NewSizeBreakdown(BreakdownLeftovers, "Leftover code, not in any other fragment"),
		exclusive:           make(map[int]*SizeBreakdown),
	}
}

// Total returns the whole-program breakdown.
func (r *PermutationReport) Total() *SizeBreakdown { return r.total }

// Initial returns the initial-download breakdown.
func (r *PermutationReport) Initial() *SizeBreakdown { return r.initial }

// Leftovers returns the leftovers breakdown.
func (r *PermutationReport) Leftovers() *SizeBreakdown { return r.leftovers }

// NumSplitPoints returns the number of declared split points.
func (r *PermutationReport) NumSplitPoints() int {
	return len(r.SplitPointLocations)
}

// SetSplitPointLocation declares a split point.
func (r *PermutationReport) SetSplitPointLocation(id int, location string) {
	r.SplitPointLocations[id] = location
	if b, ok := r.exclusive[id]; ok {
		b.description = splitPointDescription(id, location)
	}
}

// SplitPointBreakdown returns the exclusive breakdown of split point id,
// creating it on first use. Ids outside 1..NumSplitPoints are a
// ReferenceError.
func (r *PermutationReport) SplitPointBreakdown(id int) (*SizeBreakdown, error) {
	if id < 1 || id > r.NumSplitPoints() {
		return nil, apperrors.ReferenceErrorf("split point %d out of range 1..%d", id, r.NumSplitPoints())
	}
	if b, ok := r.exclusive[id]; ok {
		return b, nil
	}
	b := NewSizeBreakdown(SplitPointBreakdownID(id), splitPointDescription(id, r.SplitPointLocations[id]))
	r.exclusive[id] = b
	return b, nil
}

func splitPointDescription(id int, location string) string {
	if location == "" {
		return fmt.Sprintf("Code exclusive to split point %d", id)
	}
	return fmt.Sprintf("Code exclusive to split point %d (%s)", id, location)
}

// BreakdownsForFragment returns every breakdown a record in fragment is
// applied to: 0 maps to total and initial, 1..n to total and that split
// point's exclusive breakdown, n+1 to total and leftovers, and anything
// else to total only.
func (r *PermutationReport) BreakdownsForFragment(fragment int) []*SizeBreakdown {
	n := r.NumSplitPoints()
	switch {
	case fragment == 0:
		return []*SizeBreakdown{r.total, r.initial}
	case fragment >= 1 && fragment <= n:
		b, _ := r.SplitPointBreakdown(fragment)
		return []*SizeBreakdown{r.total, b}
	case fragment == n+1:
		return []*SizeBreakdown{r.total, r.leftovers}
	default:
		return []*SizeBreakdown{r.total}
	}
}

// AllBreakdowns returns total, initial, the materialised split point
// breakdowns in id order, then leftovers.
func (r *PermutationReport) AllBreakdowns() []*SizeBreakdown {
	ids := make([]int, 0, len(r.exclusive))
	for id := range r.exclusive {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]*SizeBreakdown, 0, len(ids)+3)
	out = append(out, r.total, r.initial)
	for _, id := range ids {
		out = append(out, r.exclusive[id])
	}
	return append(out, r.leftovers)
}

// RegisterClass records className and its derived package on first sight.
// The package of an already known class is never changed.
func (r *PermutationReport) RegisterClass(className string) (string, bool) {
	if pkg, ok := r.ClassToPackage[className]; ok {
		return pkg, false
	}
	pkg := DerivePackage(className)
	r.ClassToPackage[className] = pkg
	classes, ok := r.PackageToClasses[pkg]
	if !ok {
		classes = make(map[string]struct{})
		r.PackageToClasses[pkg] = classes
	}
	classes[className] = struct{}{}
	return pkg, true
}

// RecomputePackageSizes rebuilds PackageToSize in every breakdown.
func (r *PermutationReport) RecomputePackageSizes() {
	for _, b := range r.AllBreakdowns() {
		b.RecomputePackageSizes(r.PackageToClasses)
	}
}

// Classes returns every registered class sorted by name.
func (r *PermutationReport) Classes() []string {
	out := make([]string, 0, len(r.ClassToPackage))
	for c := range r.ClassToPackage {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Packages returns every known package sorted by name.
func (r *PermutationReport) Packages() []string {
	out := make([]string, 0, len(r.PackageToClasses))
	for p := range r.PackageToClasses {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
