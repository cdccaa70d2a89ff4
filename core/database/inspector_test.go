package database

import (
	"regexp"
	"testing"

	"reconciler/core/tuple"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGetTableColumns(t *testing.T) {
	// Setup In-Memory DB
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, Name TEXT NOT NULL, price DECIMAL(10,2))").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_items")
	require.NoError(t, err)
	require.Len(t, columns, 3)

	assert.Equal(t, "id", columns[0].Field)
	assert.Equal(t, "integer", columns[0].Type)
	assert.Equal(t, "PRI", columns[0].Key)
	assert.Equal(t, "name", columns[1].Field)
	assert.Equal(t, "NO", columns[1].Null)
	assert.Equal(t, "decimal(10,2)", columns[2].Type)
	assert.Equal(t, tuple.KindDecimal, columns[2].Kind())

	// PRAGMA table_info returns no rows for a missing table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestGetTableColumns_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("ID", "INT(11) UNSIGNED", "NO", "PRI", nil, "auto_increment").
		AddRow("sprite", "varchar(255)", "YES", "", "x", "")
	mock.ExpectQuery(regexp.QuoteMeta("SHOW COLUMNS FROM `items_base`")).WillReturnRows(rows)

	columns, err := GetTableColumns(db, "items_base")
	require.NoError(t, err)
	require.Len(t, columns, 2)

	assert.Equal(t, "id", columns[0].Field)
	assert.Equal(t, "int(11) unsigned", columns[0].Type)
	assert.Equal(t, tuple.KindInteger, columns[0].Kind())
	assert.True(t, columns[0].Column().Strong)
	require.NotNil(t, columns[1].Default)
	assert.Equal(t, "x", *columns[1].Default)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableSchema(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE ledger (id INTEGER, amount REAL, booked_at DATETIME)").Error)

	schema, err := TableSchema(db, "ledger")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "amount", "booked_at"}, schema.Names())

	col, ok := schema.Lookup("booked_at")
	require.True(t, ok)
	assert.Equal(t, tuple.KindTime, col.Kind)

	_, err = TableSchema(db, "missing")
	assert.Error(t, err)
}
