// Package repository persists analysis summaries of compiler permutations.
package repository

import (
	"context"

	"github.com/compile-report/pkg/model"
)

// SummaryRepository stores one summary per permutation of a build. A
// build is identified by a free-form label such as a CI build number.
type SummaryRepository interface {
	// SaveReport stores s under label, replacing any earlier summary of the
	// same permutation.
	SaveReport(ctx context.Context, label string, s *model.ReportSummary) error

	// GetPermutation loads the summary of one permutation, breakdowns
	// included.
	GetPermutation(ctx context.Context, label string, permutationID int) (*model.ReportSummary, error)

	// ListBreakdowns loads the breakdown digests of one permutation in
	// report order.
	ListBreakdowns(ctx context.Context, label string, permutationID int) ([]model.SliceSummary, error)

	// ListPermutations returns the permutation ids stored under label.
	ListPermutations(ctx context.Context, label string) ([]int, error)
}
