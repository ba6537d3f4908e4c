package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/filevault/internal/user/domain"
)

func TestMySQLUserRepository_Create(t *testing.T) {
	q := `^INSERT\s+INTO\s+users\s*\(id,\s*username,\s*password_hash,\s*created_at\)\s*VALUES\s*\(\?,\s*\?,\s*\?,\s*\?\)$`

	t.Run("stores binary uuid", func(t *testing.T) {
		db, mock := newMock(t)
		user := testUser()
		idBytes, err := user.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectExec(q).
			WithArgs(idBytes, "alice", user.PasswordHash, user.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = NewMySQLUserRepository(db).Create(context.Background(), user)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(q).WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

		err := NewMySQLUserRepository(db).Create(context.Background(), testUser())
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})
}

func TestMySQLUserRepository_GetByUsername(t *testing.T) {
	q := `^SELECT\s+id,\s*username,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\?$`
	user := testUser()
	idBytes, err := user.ID.MarshalBinary()
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(q).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
				AddRow(idBytes, user.Username, user.PasswordHash, user.CreatedAt))

		got, err := NewMySQLUserRepository(db).GetByUsername(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

		_, err := NewMySQLUserRepository(db).GetByUsername(context.Background(), "ghost")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
