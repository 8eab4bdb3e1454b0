package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations_AreGooseFiles(t *testing.T) {
	files, err := fs.Glob(migrations, MigrationsDir+"/*.sql")
	require.NoError(t, err)
	require.Len(t, files, 3)

	var all strings.Builder
	for _, name := range files {
		data, err := fs.ReadFile(migrations, name)
		require.NoError(t, err)
		text := string(data)
		assert.Contains(t, text, "-- +goose Up", name)
		assert.Contains(t, text, "-- +goose Down", name)
		all.WriteString(text)
	}

	for _, table := range []string{"products", "customers", "cart_items", "favorites", "orders", "order_items"} {
		assert.Contains(t, all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, all.String(), "pg_notify('"+CustomersChannel+"'")
}
