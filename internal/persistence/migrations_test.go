package persistence

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	var ups, downs int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs, "every up migration needs a down")
}

func TestInitMigration_Constraints(t *testing.T) {
	body, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	require.NoError(t, err)

	sql := string(body)
	assert.Contains(t, sql, "email TEXT NOT NULL UNIQUE")
	assert.Contains(t, sql, "CHECK (amount > 0)")
	assert.Contains(t, sql, "CHECK (status IN ('pending', 'paid'))")
	assert.Contains(t, sql, "REFERENCES customers (id)")
}

func TestRunMigrations_NoDSN(t *testing.T) {
	assert.NoError(t, RunMigrations("", zap.NewNop()))
}
