package model

import (
	"sort"
	"time"
)

// ReportSummary is the serialisable digest of a PermutationReport handed to
// storage, persistence and the CLI.
type ReportSummary struct {
	PermutationID       int                 `json:"permutation_id"`
	ClassCount          int                 `json:"class_count"`
	PackageCount        int                 `json:"package_count"`
	SplitPoints         []SplitPointSummary `json:"split_points"`
	InitialLoadSequence []int               `json:"initial_load_sequence"`
	Breakdowns          []SliceSummary      `json:"breakdowns"`
	DependencyGraphs    []string            `json:"dependency_graphs,omitempty"`
	Suggestions         []Suggestion        `json:"suggestions,omitempty"`
	AnalyzedAt          time.Time           `json:"analyzed_at"`
}

// SplitPointSummary describes one declared split point.
type SplitPointSummary struct {
	ID       int    `json:"id"`
	Location string `json:"location"`
}

// SliceSummary is the digest of one SizeBreakdown.
type SliceSummary struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	TotalSize   int64            `json:"total_size"`
	Categories  map[string]int64 `json:"categories"`
	Literals    map[string]int64 `json:"literals"`
	TopPackages []SizeEntry      `json:"top_packages"`
	TopClasses  []SizeEntry      `json:"top_classes"`
	TopMethods  []SizeEntry      `json:"top_methods,omitempty"`
}

// Breakdown returns the slice with the given id, or nil.
func (s *ReportSummary) Breakdown(id string) *SliceSummary {
	for i := range s.Breakdowns {
		if s.Breakdowns[i].ID == id {
			return &s.Breakdowns[i]
		}
	}
	return nil
}

// Summarize builds a ReportSummary listing topN packages, classes and
// methods per breakdown. Package sizes are taken as last recomputed.
func Summarize(r *PermutationReport, topN int, analyzedAt time.Time) *ReportSummary {
	s := &ReportSummary{
		PermutationID:       r.PermutationID,
		ClassCount:          len(r.ClassToPackage),
		PackageCount:        len(r.PackageToClasses),
		InitialLoadSequence: append([]int(nil), r.InitialLoadSequence...),
		AnalyzedAt:          analyzedAt,
	}

	ids := make([]int, 0, len(r.SplitPointLocations))
	for id := range r.SplitPointLocations {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		s.SplitPoints = append(s.SplitPoints, SplitPointSummary{ID: id, Location: r.SplitPointLocations[id]})
	}

	for _, b := range r.AllBreakdowns() {
		slice := SliceSummary{
			ID:          b.ID(),
			Description: b.Description(),
			TotalSize:   b.TotalSize,
			Categories:  make(map[string]int64),
			Literals:    make(map[string]int64),
			TopPackages: b.TopPackages(topN),
			TopClasses:  b.TopClasses(topN),
			TopMethods:  b.TopMethods(topN),
		}
		for _, kind := range AllCategoryKinds() {
			slice.Categories[kind.String()] = b.CategorySize(kind)
		}
		for _, kind := range AllLiteralKinds() {
			if size := b.Literals.Get(kind).Size; size > 0 {
				slice.Literals[kind.String()] = size
			}
		}
		s.Breakdowns = append(s.Breakdowns, slice)
	}

	for name := range r.DependencyGraphs {
		s.DependencyGraphs = append(s.DependencyGraphs, name)
	}
	sort.Strings(s.DependencyGraphs)
	return s
}
