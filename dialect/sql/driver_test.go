package sql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/strata/dialect"
)

func TestOpen(t *testing.T) {
	drv, err := Open(dialect.SQLite, ":memory:")
	require.NoError(t, err)
	defer drv.Close()
	assert.Equal(t, dialect.SQLite, drv.Dialect())
	require.NoError(t, drv.Ping(context.Background()))

	drv, err = Open(dialect.MySQL, "user:pass@tcp(localhost:3306)/scratch")
	require.NoError(t, err)
	assert.Equal(t, dialect.MySQL, drv.Dialect())
	require.NoError(t, drv.Close())

	_, err = Open(dialect.MySQL, "not a dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse mysql dsn")

	_, err = Open("oracle", "")
	require.Error(t, err)
}

func TestDriver_Dialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, dialect.Postgres, OpenDB("postgres-otel", db).Dialect())
	assert.Equal(t, "custom", OpenDB("custom", db).Dialect())
	assert.Same(t, db, OpenDB(dialect.Postgres, db).DB())
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&pq.Error{Code: "42P07"}, "42P07"},
		{fmt.Errorf("wrapped: %w", &mysql.MySQLError{Number: 1050}), "1050"},
		{errors.New("plain"), ""},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorCode(tt.err))
	}
}
