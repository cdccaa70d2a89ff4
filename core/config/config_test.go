package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "reconciler", cfg.Storage.Bucket)
	assert.Empty(t, cfg.Compare.PrimaryKey)
	assert.Equal(t, 0.00001, cfg.Compare.Epsilon)
	assert.Equal(t, 1000, cfg.Compare.RecordLimit)
	assert.Equal(t, "sql", cfg.Compare.Left.Type)
	assert.Equal(t, "mysql", cfg.Compare.Left.Database.Driver)
	assert.Equal(t, ",", cfg.Compare.Right.Delimiter)
	assert.True(t, cfg.Compare.Right.Sorted)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("COMPARE_PRIMARY_KEY", "id,region")
	t.Setenv("COMPARE_ORDER_CHECK", "true")
	t.Setenv("COMPARE_LEFT_TYPE", "csv")
	t.Setenv("COMPARE_LEFT_PATH", "/data/left.csv")
	t.Setenv("COMPARE_LEFT_SORTED", "false")
	t.Setenv("COMPARE_RIGHT_DATABASE_DRIVER", "postgres")
	t.Setenv("COMPARE_RIGHT_DATABASE_NAME", "ledger")
	t.Setenv("COMPARE_RIGHT_TABLE", "entries")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"id", "region"}, cfg.Compare.PrimaryKey)
	assert.True(t, cfg.Compare.OrderCheck)
	assert.Equal(t, "csv", cfg.Compare.Left.Type)
	assert.Equal(t, "/data/left.csv", cfg.Compare.Left.Path)
	assert.False(t, cfg.Compare.Left.Sorted)
	assert.Equal(t, "postgres", cfg.Compare.Right.Database.Driver)
	assert.Equal(t, "ledger", cfg.Compare.Right.Database.Name)
	assert.Equal(t, "entries", cfg.Compare.Right.Table)
	assert.NoError(t, cfg.Compare.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `
compare:
  primary_key: [sku]
  tolerances:
    price: 0.01
  left:
    type: csv
    path: left.csv
    kinds:
      sku: integer
      price: decimal
  right:
    table: products
    database:
      name: shop
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("COMPARE_RIGHT_TABLE", "products_v2")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"sku"}, cfg.Compare.PrimaryKey)
	assert.Equal(t, map[string]float64{"price": 0.01}, cfg.Compare.Tolerances)
	assert.Equal(t, map[string]string{"sku": "integer", "price": "decimal"}, cfg.Compare.Left.Kinds)
	assert.Equal(t, "csv", cfg.Compare.Left.Type)
	assert.Equal(t, "shop", cfg.Compare.Right.Database.Name)
	assert.Equal(t, "products_v2", cfg.Compare.Right.Table)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("LOG_LEVEL") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_BrokenFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("compare: [unclosed"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
