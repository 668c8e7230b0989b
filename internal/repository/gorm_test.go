package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/compile-report/pkg/errors"
	"github.com/compile-report/pkg/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func sampleSummary(permutationID int) *model.ReportSummary {
	return &model.ReportSummary{
		PermutationID:       permutationID,
		ClassCount:          3,
		PackageCount:        2,
		SplitPoints:         []model.SplitPointSummary{{ID: 1, Location: "com.acme.Main.onModuleLoad"}},
		InitialLoadSequence: []int{1},
		DependencyGraphs:    []string{"initial", "leftovers"},
		Suggestions:         []model.Suggestion{{Rule: "large_leftovers", Severity: model.SeverityWarning, Share: 40, Message: "40%"}},
		AnalyzedAt:          time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Breakdowns: []model.SliceSummary{
			{
				ID:          model.BreakdownTotal,
				Description: "Full code breakdown",
				TotalSize:   300,
				Categories:  map[string]int64{"jre": 100, "allOther": 200},
				Literals:    map[string]int64{"string": 12},
				TopPackages: []model.SizeEntry{{Name: "com.acme", Size: 200}},
				TopClasses:  []model.SizeEntry{{Name: "com.acme.Main", Size: 150}},
				TopMethods:  []model.SizeEntry{{Name: "com.acme.Main::onModuleLoad()V", Size: 60}},
			},
			{
				ID:          model.BreakdownInitial,
				Description: "Initial download",
				TotalSize:   120,
				Categories:  map[string]int64{"jre": 20},
				Literals:    map[string]int64{},
			},
		},
	}
}

func TestGormSummaryRepository_RoundTrip(t *testing.T) {
	repo := NewGormSummaryRepository(setupTestDB(t))
	ctx := context.Background()

	want := sampleSummary(0)
	require.NoError(t, repo.SaveReport(ctx, "build-42", want))

	got, err := repo.GetPermutation(ctx, "build-42", 0)
	require.NoError(t, err)

	assert.Equal(t, want.PermutationID, got.PermutationID)
	assert.Equal(t, want.ClassCount, got.ClassCount)
	assert.Equal(t, want.PackageCount, got.PackageCount)
	assert.Equal(t, want.SplitPoints, got.SplitPoints)
	assert.Equal(t, want.InitialLoadSequence, got.InitialLoadSequence)
	assert.Equal(t, want.DependencyGraphs, got.DependencyGraphs)
	assert.Equal(t, want.Suggestions, got.Suggestions)
	assert.WithinDuration(t, want.AnalyzedAt, got.AnalyzedAt, time.Second)

	require.Len(t, got.Breakdowns, 2)
	assert.Equal(t, model.BreakdownTotal, got.Breakdowns[0].ID)
	assert.Equal(t, int64(300), got.Breakdowns[0].TotalSize)
	assert.Equal(t, want.Breakdowns[0].Categories, got.Breakdowns[0].Categories)
	assert.Equal(t, want.Breakdowns[0].TopClasses, got.Breakdowns[0].TopClasses)
	assert.Equal(t, want.Breakdowns[0].TopMethods, got.Breakdowns[0].TopMethods)
	assert.Equal(t, model.BreakdownInitial, got.Breakdowns[1].ID)
}

func TestGormSummaryRepository_SaveReplaces(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSummaryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.SaveReport(ctx, "build-42", sampleSummary(0)))

	updated := sampleSummary(0)
	updated.ClassCount = 9
	updated.Breakdowns = updated.Breakdowns[:1]
	updated.Breakdowns[0].TotalSize = 500
	require.NoError(t, repo.SaveReport(ctx, "build-42", updated))

	got, err := repo.GetPermutation(ctx, "build-42", 0)
	require.NoError(t, err)
	assert.Equal(t, 9, got.ClassCount)
	assert.Len(t, got.Breakdowns, 1)

	var rows int64
	require.NoError(t, db.Model(&PermutationSummary{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	var row PermutationSummary
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, int64(500), row.TotalSize)
	assert.Equal(t, int64(0), row.InitialSize, "initial size of the replaced row must not survive")
	assert.Equal(t, 1, row.SplitPointCount)
}

func TestGormSummaryRepository_ListPermutations(t *testing.T) {
	repo := NewGormSummaryRepository(setupTestDB(t))
	ctx := context.Background()

	for _, id := range []int{2, 0, 1} {
		require.NoError(t, repo.SaveReport(ctx, "build-42", sampleSummary(id)))
	}
	require.NoError(t, repo.SaveReport(ctx, "build-43", sampleSummary(5)))

	ids, err := repo.ListPermutations(ctx, "build-42")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, ids)

	ids, err = repo.ListPermutations(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGormSummaryRepository_NotFound(t *testing.T) {
	repo := NewGormSummaryRepository(setupTestDB(t))

	_, err := repo.GetPermutation(context.Background(), "build-42", 7)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	breakdowns, err := repo.ListBreakdowns(context.Background(), "build-42", 7)
	require.NoError(t, err)
	assert.Empty(t, breakdowns)
}

func TestGormSummaryRepository_NilSummary(t *testing.T) {
	repo := NewGormSummaryRepository(setupTestDB(t))
	err := repo.SaveReport(context.Background(), "build-42", nil)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetErrorCode(err))
}

func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormSummaryRepository_SaveReport_Postgres(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewGormSummaryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "breakdown_summaries" WHERE build_label = $1 AND permutation_id = $2`)).
		WithArgs("build-42", 0).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "permutation_summaries" WHERE build_label = $1 AND permutation_id = $2`)).
		WithArgs("build-42", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "permutation_summaries"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "breakdown_summaries"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveReport(context.Background(), "build-42", sampleSummary(0)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSummaryRepository_SaveReport_RollsBack(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewGormSummaryRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "breakdown_summaries"`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.SaveReport(context.Background(), "build-42", sampleSummary(0))
	require.Error(t, err)
	assert.True(t, apperrors.IsDatabaseError(err))
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSummaryRepository_GetPermutation_QueryError(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewGormSummaryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "permutation_summaries"`)).
		WillReturnError(errors.New("relation does not exist"))

	_, err := repo.GetPermutation(context.Background(), "build-42", 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsDatabaseError(err))
	assert.False(t, apperrors.IsNotFound(err))
}
