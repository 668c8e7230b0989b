package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compile-report/pkg/config"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		dbType string
		name   string
	}{
		{"postgres", "postgres"},
		{"postgresql", "postgres"},
		{"mysql", "mysql"},
		{"sqlite", "sqlite"},
	}
	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			d, err := Dialector(&config.DatabaseConfig{Type: tt.dbType, Host: "localhost", Port: 5432})
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}

	_, err := Dialector(&config.DatabaseConfig{Type: "oracle"})
	assert.EqualError(t, err, "unsupported database type: oracle")
}

func TestNewGormDB_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{Type: "sqlite", Path: filepath.Join(t.TempDir(), "summaries.db")}

	db, err := NewGormDB(cfg, true)
	require.NoError(t, err)

	repos := NewRepositories(db)
	require.NotNil(t, repos.Summary)
	assert.NotNil(t, repos.DB())
	assert.Same(t, db, repos.GormDB())
	assert.True(t, db.Migrator().HasTable(&PermutationSummary{}))
	assert.True(t, db.Migrator().HasTable(&BreakdownSummary{}))

	require.NoError(t, repos.HealthCheck(context.Background()))
	require.NoError(t, repos.Summary.SaveReport(context.Background(), "build-1", sampleSummary(0)))
	assert.NoError(t, repos.Close())
}

func TestRepositories_CloseWithoutDB(t *testing.T) {
	repos := &Repositories{}
	assert.NoError(t, repos.Close())
}
