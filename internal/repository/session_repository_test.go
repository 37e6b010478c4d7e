package repository_test

import (
	"context"
	"testing"
	"time"

	"kanba/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestSessionRepository_Create_Upserts(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	sessionRepo := repository.NewSessionRepository(gormDB)

	sessionID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "sessions" .* ON CONFLICT .* DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// Act
	err := sessionRepo.Create(context.Background(), sessionID, userID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Resolve_Alive(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	sessionRepo := repository.NewSessionRepository(gormDB)

	sessionID := uuid.New()
	userID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "sessions" WHERE id = .* AND expires_at > .* LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "expires_at", "created_at"}).
			AddRow(sessionID.String(), userID.String(), time.Now().Add(time.Hour), time.Now()))

	// Act
	session, err := sessionRepo.Resolve(context.Background(), sessionID)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, session)
	assert.Equal(t, userID, session.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Resolve_ExpiredOrMissing(t *testing.T) {
	// The expiry predicate is part of the query, so an expired session
	// and a missing one are indistinguishable here: both resolve to nil.
	gormDB, mock := setupMockDB(t)
	sessionRepo := repository.NewSessionRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "sessions" WHERE id = .* AND expires_at > .* LIMIT 1`).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	session, err := sessionRepo.Resolve(context.Background(), uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Resolve_StorageError(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	sessionRepo := repository.NewSessionRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "sessions"`).
		WillReturnError(assert.AnError)

	// Act
	session, err := sessionRepo.Resolve(context.Background(), uuid.New())

	// Assert
	assert.Error(t, err) // propagated unchanged for the auth gate to map
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Exists(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	sessionRepo := repository.NewSessionRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "sessions" WHERE id = .* AND expires_at > .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	// Act
	ok, err := sessionRepo.Exists(context.Background(), uuid.New())

	// Assert
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Invalidate_Idempotent(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	sessionRepo := repository.NewSessionRepository(gormDB)

	sessionID := uuid.New()

	// Deleting a session that is already gone affects zero rows and
	// still succeeds.
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "sessions" WHERE id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := sessionRepo.Invalidate(context.Background(), sessionID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_PurgeExpired(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	sessionRepo := repository.NewSessionRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "sessions" WHERE expires_at < .*`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	// Act
	deleted, err := sessionRepo.PurgeExpired(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
