package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*RecordRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRecordRepository(db), mock
}

func TestCreateTask(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	desc := "2 litres"

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks (id, owner_id, title, description, completed, created_at)")).
		WithArgs(sqlmock.AnyArg(), "U1", "Buy milk", "2 litres", false, created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	task, err := repo.CreateTask(context.Background(), "U1", "Buy milk", &desc, created)
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "U1", task.OwnerID)
	assert.False(t, task.Completed)
	require.NotNil(t, task.CreatedAt)
	assert.True(t, created.Equal(*task.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTaskWithoutDescriptionStoresNull(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WithArgs(sqlmock.AnyArg(), "U1", "New Task", nil, false, created).
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, err := repo.CreateTask(context.Background(), "U1", "New Task", nil, created)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNoteError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notes")).WillReturnError(errors.New("insert failed"))

	_, err := repo.CreateNote(context.Background(), "U1", "Trip", "Paris plan", time.Now())
	assert.EqualError(t, err, "insert failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTasksOrderedQuery(t *testing.T) {
	repo, mock := newMockRepo(t)
	newer := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "description", "completed", "created_at"}).
		AddRow("t2", "U1", "Newer", nil, true, newer).
		AddRow("t1", "U1", "Older", "details", false, older).
		AddRow("t0", "U1", "Undated", nil, false, nil)
	mock.ExpectQuery(regexp.QuoteMeta(selectTasks + newestFirst)).WithArgs("U1").WillReturnRows(rows)

	tasks, err := repo.ListTasks(context.Background(), "U1", true)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "t2", tasks[0].ID)
	assert.True(t, tasks[0].Completed)
	assert.Nil(t, tasks[0].Description)
	require.NotNil(t, tasks[1].Description)
	assert.Equal(t, "details", *tasks[1].Description)
	assert.Nil(t, tasks[2].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTasksUnorderedQueryHasNoOrderBy(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("^" + regexp.QuoteMeta(selectTasks) + "$").WithArgs("U1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "description", "completed", "created_at"}))

	tasks, err := repo.ListTasks(context.Background(), "U1", false)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNotesSkipsUnreadableRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "content", "created_at"}).
		AddRow("n1", "U1", "Trip", "Paris plan", created).
		AddRow("n2", "U1", "Broken", "x", "not-a-time")
	mock.ExpectQuery(regexp.QuoteMeta(selectNotes)).WithArgs("U1").WillReturnRows(rows)

	notes, err := repo.ListNotes(context.Background(), "U1", false)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n1", notes[0].ID)
	assert.Equal(t, "Paris plan", notes[0].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListNotesQueryError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectNotes + newestFirst)).WithArgs("U1").WillReturnError(errors.New("index missing"))

	_, err := repo.ListNotes(context.Background(), "U1", true)
	assert.EqualError(t, err, "index missing")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleTask(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET completed = NOT completed WHERE id = $1 AND owner_id = $2")).
		WithArgs("t1", "U1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks SET completed = NOT completed")).
		WithArgs("missing", "U1").WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.ToggleTask(context.Background(), "t1", "U1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.ToggleTask(context.Background(), "missing", "U1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTaskAndNote(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1 AND owner_id = $2")).
		WithArgs("t1", "U1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notes WHERE id = $1 AND owner_id = $2")).
		WithArgs("n1", "U1").WillReturnError(errors.New("connection reset"))

	assert.NoError(t, repo.DeleteTask(context.Background(), "t1", "U1"))
	assert.Error(t, repo.DeleteNote(context.Background(), "n1", "U1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectPing()

	assert.NoError(t, repo.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
