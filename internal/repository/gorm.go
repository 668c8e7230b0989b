package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/compile-report/pkg/errors"
	"github.com/compile-report/pkg/model"
)

// GormSummaryRepository implements SummaryRepository using GORM.
type GormSummaryRepository struct {
	db *gorm.DB
}

// NewGormSummaryRepository creates a new GormSummaryRepository.
func NewGormSummaryRepository(db *gorm.DB) *GormSummaryRepository {
	return &GormSummaryRepository{db: db}
}

// SaveReport replaces the stored summary of s.PermutationID under label in
// one transaction.
func (r *GormSummaryRepository) SaveReport(ctx context.Context, label string, s *model.ReportSummary) error {
	if s == nil {
		return apperrors.New(apperrors.CodeInvalidInput, "nil summary")
	}

	row, err := newPermutationSummary(label, s)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "failed to encode summary", err)
	}
	breakdowns := make([]*BreakdownSummary, 0, len(s.Breakdowns))
	for i := range s.Breakdowns {
		b, err := newBreakdownSummary(label, s.PermutationID, i, &s.Breakdowns[i])
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "failed to encode breakdown", err)
		}
		breakdowns = append(breakdowns, b)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner := "build_label = ? AND permutation_id = ?"
		if err := tx.Where(owner, label, s.PermutationID).Delete(&BreakdownSummary{}).Error; err != nil {
			return err
		}
		if err := tx.Where(owner, label, s.PermutationID).Delete(&PermutationSummary{}).Error; err != nil {
			return err
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		if len(breakdowns) == 0 {
			return nil
		}
		return tx.CreateInBatches(breakdowns, 100).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "failed to save summary", err)
	}
	return nil
}

// GetPermutation loads one permutation summary with its breakdowns.
func (r *GormSummaryRepository) GetPermutation(ctx context.Context, label string, permutationID int) (*model.ReportSummary, error) {
	var row PermutationSummary
	err := r.db.WithContext(ctx).
		Where("build_label = ? AND permutation_id = ?", label, permutationID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.CodeNotFound, "summary not found", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to get summary", err)
	}

	s, err := row.ToModel()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to decode summary", err)
	}
	if s.Breakdowns, err = r.ListBreakdowns(ctx, label, permutationID); err != nil {
		return nil, err
	}
	return s, nil
}

// ListBreakdowns loads the breakdowns of one permutation ordered as saved.
func (r *GormSummaryRepository) ListBreakdowns(ctx context.Context, label string, permutationID int) ([]model.SliceSummary, error) {
	var rows []BreakdownSummary
	err := r.db.WithContext(ctx).
		Where("build_label = ? AND permutation_id = ?", label, permutationID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to list breakdowns", err)
	}

	result := make([]model.SliceSummary, 0, len(rows))
	for i := range rows {
		s, err := rows[i].ToModel()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to decode breakdown", err)
		}
		result = append(result, s)
	}
	return result, nil
}

// ListPermutations returns the permutation ids stored under label in
// ascending order.
func (r *GormSummaryRepository) ListPermutations(ctx context.Context, label string) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).
		Model(&PermutationSummary{}).
		Where("build_label = ?", label).
		Order("permutation_id ASC").
		Pluck("permutation_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDatabaseError, "failed to list permutations", err)
	}
	return ids, nil
}
