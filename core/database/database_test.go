package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Invalid Connection", func(t *testing.T) {
		cfg := Config{
			Driver:         "mysql",
			Host:           "localhost",
			Port:           9999, // Unused port
			User:           "root",
			Password:       "wrongpassword",
			Name:           "ledger",
			TimeoutSeconds: 2,
		}

		db, err := Connect(cfg)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Unsupported Driver", func(t *testing.T) {
		db, err := Connect(Config{Driver: "oracle", Name: "x"})
		assert.ErrorContains(t, err, "unsupported database driver")
		assert.Nil(t, db)
	})

	t.Run("SQLite Memory", func(t *testing.T) {
		db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
		require.NoError(t, err)
		assert.Equal(t, "sqlite", db.Dialector.Name())
		assert.NoError(t, Close(db))
	})
}

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{driver: "", want: "mysql"},
		{driver: "mysql", want: "mysql"},
		{driver: "postgres", want: "postgres"},
		{driver: "sqlite", want: "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.driver, func(t *testing.T) {
			d, err := Dialector(Config{Driver: tt.driver, Host: "db", User: "u", Password: "p@ss", Name: "ledger"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, Config{Driver: "mysql"}.Enabled())
	assert.True(t, Config{Name: "ledger"}.Enabled())
}
