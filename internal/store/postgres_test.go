package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/amirhzq/unit-media-api/pkg/errors"
)

func newPostgresStoreMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
	}
	return NewPostgresStore(sqlxDB), mock, cleanup
}

func TestPostgresStoreGet(t *testing.T) {
	st, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	raw, _ := json.Marshal("true")
	mock.ExpectQuery(`SELECT value FROM kv_entries WHERE key = \$1`).
		WithArgs(KeyIsLoggedIn).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(raw))

	var got string
	require.NoError(t, st.Get(context.Background(), KeyIsLoggedIn, &got))
	assert.Equal(t, "true", got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetMissingKey(t *testing.T) {
	st, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT value FROM kv_entries WHERE key = \$1`).
		WithArgs("absent").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	var got string
	err := st.Get(context.Background(), "absent", &got)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrKeyNotFound.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSetUpserts(t *testing.T) {
	st, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO kv_entries`).
		WithArgs(KeySubmissions, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, st.Set(context.Background(), KeySubmissions, []string{"sub_1"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDelete(t *testing.T) {
	st, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM kv_entries WHERE key = \$1`).
		WithArgs(KeyCurrentUser).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, st.Delete(context.Background(), KeyCurrentUser))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreEnsureSchema(t *testing.T) {
	st, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS kv_entries`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, st.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
