package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1, "migración %s", suffix)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestEmbeddedMigrationsAreValid(t *testing.T) {
	require.NoError(t, migrate.Validate())
}

func TestProductsMigrationGuardsStock(t *testing.T) {
	content := readMigration(t, "create_catalog")

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS products",
		"sku            TEXT          NOT NULL UNIQUE",
		"CHECK (stock_quantity >= 0)",
		"CHECK (price >= 0)",
		"CHECK (role IN ('ADMIN', 'MANAGER'))",
		"DROP TABLE IF EXISTS products",
	} {
		assert.True(t, strings.Contains(content, sub), "falta %q", sub)
	}
}

func TestTransactionsMigrationConstraints(t *testing.T) {
	content := readMigration(t, "create_transactions")

	for _, sub := range []string{
		"CHECK (total_products > 0)",
		"CHECK (transaction_type IN ('PURCHASE', 'SALE', 'RETURN_TO_SUPPLIER'))",
		"CHECK (status IN ('PENDING', 'PROCESSING', 'COMPLETED'))",
		"product_id       BIGINT        NOT NULL REFERENCES products(id)",
		"idx_transactions_created_at",
		"DROP TABLE IF EXISTS transactions",
	} {
		assert.True(t, strings.Contains(content, sub), "falta %q", sub)
	}
}

func TestValidateFS_RejectsBadFiles(t *testing.T) {
	bad := fstest.MapFS{
		"m/001_init.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.Error(t, migrate.ValidateFS(bad, "m"), "nombre sin versión de 14 dígitos")

	noDown := fstest.MapFS{
		"m/20240101000000_init.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
	}
	assert.Error(t, migrate.ValidateFS(noDown, "m"))

	dup := fstest.MapFS{
		"m/20240101000000_a.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"m/20240101000000_b.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.Error(t, migrate.ValidateFS(dup, "m"))
}
