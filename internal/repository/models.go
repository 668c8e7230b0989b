package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/compile-report/pkg/model"
)

// PermutationSummary represents the permutation_summaries table.
type PermutationSummary struct {
	ID                  int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BuildLabel          string    `gorm:"column:build_label;type:varchar(128);uniqueIndex:idx_build_permutation"`
	PermutationID       int       `gorm:"column:permutation_id;uniqueIndex:idx_build_permutation"`
	SplitPointCount     int       `gorm:"column:split_point_count"`
	ClassCount          int       `gorm:"column:class_count"`
	PackageCount        int       `gorm:"column:package_count"`
	TotalSize           int64     `gorm:"column:total_size"`
	InitialSize         int64     `gorm:"column:initial_size"`
	LeftoversSize       int64     `gorm:"column:leftovers_size"`
	SplitPoints         JSONField `gorm:"column:split_points;type:json"`
	InitialLoadSequence JSONField `gorm:"column:initial_load_sequence;type:json"`
	DependencyGraphs    JSONField `gorm:"column:dependency_graphs;type:json"`
	Suggestions         JSONField `gorm:"column:suggestions;type:json"`
	AnalyzedAt          time.Time `gorm:"column:analyzed_at"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the table name for PermutationSummary.
func (PermutationSummary) TableName() string {
	return "permutation_summaries"
}

// BreakdownSummary represents the breakdown_summaries table.
type BreakdownSummary struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BuildLabel    string    `gorm:"column:build_label;type:varchar(128);index:idx_breakdown_owner"`
	PermutationID int       `gorm:"column:permutation_id;index:idx_breakdown_owner"`
	Position      int       `gorm:"column:position"`
	BreakdownID   string    `gorm:"column:breakdown_id;type:varchar(32)"`
	Description   string    `gorm:"column:description;type:varchar(512)"`
	TotalSize     int64     `gorm:"column:total_size"`
	Categories    JSONField `gorm:"column:categories;type:json"`
	Literals      JSONField `gorm:"column:literals;type:json"`
	TopPackages   JSONField `gorm:"column:top_packages;type:json"`
	TopClasses    JSONField `gorm:"column:top_classes;type:json"`
	TopMethods    JSONField `gorm:"column:top_methods;type:json"`
}

// TableName returns the table name for BreakdownSummary.
func (BreakdownSummary) TableName() string {
	return "breakdown_summaries"
}

// AllModels lists every table for migration.
func AllModels() []interface{} {
	return []interface{}{&PermutationSummary{}, &BreakdownSummary{}}
}

func newPermutationSummary(label string, s *model.ReportSummary) (*PermutationSummary, error) {
	row := &PermutationSummary{
		BuildLabel:      label,
		PermutationID:   s.PermutationID,
		SplitPointCount: len(s.SplitPoints),
		ClassCount:      s.ClassCount,
		PackageCount:    s.PackageCount,
		AnalyzedAt:      s.AnalyzedAt,
	}
	if b := s.Breakdown(model.BreakdownTotal); b != nil {
		row.TotalSize = b.TotalSize
	}
	if b := s.Breakdown(model.BreakdownInitial); b != nil {
		row.InitialSize = b.TotalSize
	}
	if b := s.Breakdown(model.BreakdownLeftovers); b != nil {
		row.LeftoversSize = b.TotalSize
	}

	var err error
	if row.SplitPoints, err = marshalField(s.SplitPoints); err != nil {
		return nil, err
	}
	if row.InitialLoadSequence, err = marshalField(s.InitialLoadSequence); err != nil {
		return nil, err
	}
	if row.DependencyGraphs, err = marshalField(s.DependencyGraphs); err != nil {
		return nil, err
	}
	if row.Suggestions, err = marshalField(s.Suggestions); err != nil {
		return nil, err
	}
	return row, nil
}

// ToModel converts PermutationSummary to model.ReportSummary without
// breakdowns.
func (p *PermutationSummary) ToModel() (*model.ReportSummary, error) {
	s := &model.ReportSummary{
		PermutationID: p.PermutationID,
		ClassCount:    p.ClassCount,
		PackageCount:  p.PackageCount,
		AnalyzedAt:    p.AnalyzedAt,
	}
	if err := unmarshalField(p.SplitPoints, &s.SplitPoints); err != nil {
		return nil, err
	}
	if err := unmarshalField(p.InitialLoadSequence, &s.InitialLoadSequence); err != nil {
		return nil, err
	}
	if err := unmarshalField(p.DependencyGraphs, &s.DependencyGraphs); err != nil {
		return nil, err
	}
	if err := unmarshalField(p.Suggestions, &s.Suggestions); err != nil {
		return nil, err
	}
	return s, nil
}

func newBreakdownSummary(label string, permutationID, position int, b *model.SliceSummary) (*BreakdownSummary, error) {
	row := &BreakdownSummary{
		BuildLabel:    label,
		PermutationID: permutationID,
		Position:      position,
		BreakdownID:   b.ID,
		Description:   b.Description,
		TotalSize:     b.TotalSize,
	}

	var err error
	if row.Categories, err = marshalField(b.Categories); err != nil {
		return nil, err
	}
	if row.Literals, err = marshalField(b.Literals); err != nil {
		return nil, err
	}
	if row.TopPackages, err = marshalField(b.TopPackages); err != nil {
		return nil, err
	}
	if row.TopClasses, err = marshalField(b.TopClasses); err != nil {
		return nil, err
	}
	if row.TopMethods, err = marshalField(b.TopMethods); err != nil {
		return nil, err
	}
	return row, nil
}

// ToModel converts BreakdownSummary to model.SliceSummary.
func (b *BreakdownSummary) ToModel() (model.SliceSummary, error) {
	s := model.SliceSummary{
		ID:          b.BreakdownID,
		Description: b.Description,
		TotalSize:   b.TotalSize,
	}
	for _, f := range []struct {
		raw JSONField
		dst interface{}
	}{
		{b.Categories, &s.Categories},
		{b.Literals, &s.Literals},
		{b.TopPackages, &s.TopPackages},
		{b.TopClasses, &s.TopClasses},
		{b.TopMethods, &s.TopMethods},
	} {
		if err := unmarshalField(f.raw, f.dst); err != nil {
			return s, err
		}
	}
	return s, nil
}

func marshalField(v interface{}) (JSONField, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode column: %w", err)
	}
	return JSONField(data), nil
}

func unmarshalField(raw JSONField, dst interface{}) error {
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode column: %w", err)
	}
	return nil
}

// JSONField is a JSON document stored in a json column.
type JSONField []byte

// Value implements driver.Valuer interface.
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner interface.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONField")
	}
}
