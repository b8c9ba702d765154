package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/feedback-board/internal/models"
	"github.com/magabrotheeeer/feedback-board/internal/storage"
)

func setupMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func TestStorage_CreateUser(t *testing.T) {
	user := models.User{
		Username:     "first",
		PasswordHash: "$2a$10$hash",
		Email:        "first@gmail.com",
		FirstName:    "first",
		LastName:     "name",
	}

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{
			name: "successful create",
		},
		{
			name:    "duplicate username",
			dbErr:   &pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"},
			wantErr: storage.ErrUsernameTaken,
		},
		{
			name:    "duplicate email",
			dbErr:   &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			wantErr: storage.ErrEmailTaken,
		},
		{
			name:    "unknown unique constraint",
			dbErr:   &pgconn.PgError{Code: "23505", ConstraintName: "something_else"},
			wantErr: storage.ErrDuplicateKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := setupMock(t)

			exp := mock.ExpectExec(`INSERT INTO users`).
				WithArgs(user.Username, user.PasswordHash, user.Email, user.FirstName, user.LastName)
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err := s.CreateUser(context.Background(), user)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, storage.ErrDuplicateKey)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_GetUser(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		s, mock := setupMock(t)
		mock.ExpectQuery(`SELECT username, password, email, first_name, last_name`).
			WithArgs("first").
			WillReturnRows(sqlmock.NewRows([]string{"username", "password", "email", "first_name", "last_name"}).
				AddRow("first", "hash", "first@gmail.com", "first", "name"))

		u, err := s.GetUser(context.Background(), "first")
		require.NoError(t, err)
		assert.Equal(t, &models.User{
			Username: "first", PasswordHash: "hash", Email: "first@gmail.com", FirstName: "first", LastName: "name",
		}, u)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := setupMock(t)
		mock.ExpectQuery(`SELECT username, password`).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"username", "password", "email", "first_name", "last_name"}))

		u, err := s.GetUser(context.Background(), "ghost")
		assert.Nil(t, u)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_DeleteUser(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		dbErr    error
		wantErr  error
	}{
		{name: "deleted", affected: 1},
		{name: "missing user", affected: 0, wantErr: storage.ErrNotFound},
		{name: "db error", dbErr: errors.New("connection reset"), wantErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := setupMock(t)
			exp := mock.ExpectExec(`DELETE FROM users WHERE username = \$1`).WithArgs("first")
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			err := s.DeleteUser(context.Background(), "first")
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
			case errors.Is(tt.wantErr, storage.ErrNotFound):
				assert.ErrorIs(t, err, storage.ErrNotFound)
			default:
				assert.ErrorContains(t, err, tt.wantErr.Error())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorage_CreateFeedback(t *testing.T) {
	s, mock := setupMock(t)
	mock.ExpectQuery(`INSERT INTO feedback`).
		WithArgs("T", "C", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := s.CreateFeedback(context.Background(), models.Feedback{Title: "T", Content: "C", Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_GetFeedback_NotFound(t *testing.T) {
	s, mock := setupMock(t)
	mock.ExpectQuery(`FROM feedback`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "username"}))

	fb, err := s.GetFeedback(context.Background(), 42)
	assert.Nil(t, fb)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListFeedbackByUser(t *testing.T) {
	s, mock := setupMock(t)
	mock.ExpectQuery(`WHERE username = \$1`).
		WithArgs("first").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "username"}).
			AddRow(1, "First Post", "I am the first post", "first").
			AddRow(4, "Again", "More", "first"))

	got, err := s.ListFeedbackByUser(context.Background(), "first")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "First Post", got[0].Title)
	assert.Equal(t, 4, got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_ListFeedback_Empty(t *testing.T) {
	s, mock := setupMock(t)
	mock.ExpectQuery(`FROM feedback`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "username"}))

	got, err := s.ListFeedback(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_UpdateFeedback(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		s, mock := setupMock(t)
		mock.ExpectExec(`UPDATE feedback`).
			WithArgs("New", "Body", 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.UpdateFeedback(context.Background(), 3, "New", "Body"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		s, mock := setupMock(t)
		mock.ExpectExec(`UPDATE feedback`).
			WithArgs("New", "Body", 3).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.UpdateFeedback(context.Background(), 3, "New", "Body"), storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorage_DeleteFeedback(t *testing.T) {
	s, mock := setupMock(t)
	mock.ExpectExec(`DELETE FROM feedback WHERE id = \$1`).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.DeleteFeedback(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_CanceledContext(t *testing.T) {
	s, mock := setupMock(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetUser(ctx, "first")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Reset(t *testing.T) {
	s, mock := setupMock(t)
	mock.ExpectExec(`TRUNCATE TABLE feedback, users RESTART IDENTITY CASCADE`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Reset(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckDatabaseReady(t *testing.T) {
	s, mock := setupMock(t)
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := CheckDatabaseReady(context.Background(), s)
	assert.ErrorContains(t, err, "required table feedback missing")
	require.NoError(t, mock.ExpectationsWereMet())
}
