package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/compile-report/pkg/model"
)

// MockSummaryRepository is a mock implementation of the SummaryRepository
// interface.
type MockSummaryRepository struct {
	mock.Mock
}

// SaveReport mocks the SaveReport method.
func (m *MockSummaryRepository) SaveReport(ctx context.Context, label string, s *model.ReportSummary) error {
	args := m.Called(ctx, label, s)
	return args.Error(0)
}

// GetPermutation mocks the GetPermutation method.
func (m *MockSummaryRepository) GetPermutation(ctx context.Context, label string, permutationID int) (*model.ReportSummary, error) {
	args := m.Called(ctx, label, permutationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReportSummary), args.Error(1)
}

// ListBreakdowns mocks the ListBreakdowns method.
func (m *MockSummaryRepository) ListBreakdowns(ctx context.Context, label string, permutationID int) ([]model.SliceSummary, error) {
	args := m.Called(ctx, label, permutationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SliceSummary), args.Error(1)
}

// ListPermutations mocks the ListPermutations method.
func (m *MockSummaryRepository) ListPermutations(ctx context.Context, label string) ([]int, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

// ExpectSaveReport sets up an expectation for SaveReport of one
// permutation.
func (m *MockSummaryRepository) ExpectSaveReport(label string, permutationID int, err error) *mock.Call {
	return m.On("SaveReport", mock.Anything, label, mock.MatchedBy(func(s *model.ReportSummary) bool {
		return s != nil && s.PermutationID == permutationID
	})).Return(err)
}
