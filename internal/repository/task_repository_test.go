package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock
}

// The newest-first ordering and the owner filter are part of the API
// contract, so the generated SQL is asserted directly.
func TestGormTaskRepository_ListByUser_SQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	userID := uuid.New()
	taskID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "tasks" WHERE user_id = $1 ORDER BY created_at DESC`,
	)).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "title", "description", "completed", "created_at", "updated_at",
		}).AddRow(taskID.String(), userID.String(), "Buy milk", "", false, now, now))

	tasks, err := repo.ListByUser(userID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, taskID, tasks[0].ID)
	assert.Equal(t, "Buy milk", tasks[0].Title)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_FindByIDForUser_SQL(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	userID := uuid.New()
	taskID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "tasks" WHERE id = $1 AND user_id = $2 ORDER BY "tasks"."id" LIMIT $3`,
	)).
		WithArgs(taskID, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "title", "description", "completed",
		}))

	_, err := repo.FindByIDForUser(taskID, userID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_DeleteForUser_NoMatch(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	userID := uuid.New()
	taskID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM "tasks" WHERE id = $1 AND user_id = $2`,
	)).
		WithArgs(taskID, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteForUser(taskID, userID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_DeleteForUser_Deletes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	userID := uuid.New()
	taskID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(
		`DELETE FROM "tasks" WHERE id = $1 AND user_id = $2`,
	)).
		WithArgs(taskID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteForUser(taskID, userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
