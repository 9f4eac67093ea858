package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsearch/internal/config"
)

func TestURL(t *testing.T) {
	got, err := URL(config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "docs",
		Password: "p@ss",
		Name:     "docsearch",
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	assert.Equal(t, "pgx5://docs:p%40ss@db:5432/docsearch?sslmode=disable", got)

	got, err = URL(config.DatabaseConfig{Host: "db", Port: "5432", User: "docs", Name: "docsearch"})
	require.NoError(t, err)
	assert.Equal(t, "pgx5://docs@db:5432/docsearch", got)

	_, err = URL(config.DatabaseConfig{Host: "db"})
	assert.Error(t, err)
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	var up, down int
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			up++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			down++
		}
	}
	assert.Positive(t, up)
	assert.Equal(t, up, down, "every up migration has a down migration")

	schema, err := fs.ReadFile(migrationsFS, "migrations/000001_create_documents.up.sql")
	require.NoError(t, err)
	for _, ft := range []string{"'txt'", "'rtf'", "'pdf'", "'docx'", "'epub'", "'html'"} {
		assert.Contains(t, string(schema), ft)
	}
}
