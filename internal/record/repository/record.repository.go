package repository

import (
	"context"
	"database/sql"
	"time"

	"taskbook/internal/record/model"
	"taskbook/pkg/logger"

	"github.com/google/uuid"
)

const (
	selectTasks = `SELECT id, owner_id, title, description, completed, created_at FROM tasks WHERE owner_id = $1`
	selectNotes = `SELECT id, owner_id, title, content, created_at FROM notes WHERE owner_id = $1`
	newestFirst = ` ORDER BY created_at DESC NULLS LAST, id ASC`
)

type RecordRepository struct {
	DB *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{DB: db}
}

func (r *RecordRepository) CreateTask(ctx context.Context, ownerID, title string, description *string, createdAt time.Time) (model.Task, error) {
	task := model.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   &createdAt,
		OwnerID:     ownerID,
	}
	_, err := r.DB.ExecContext(ctx, `INSERT INTO tasks (id, owner_id, title, description, completed, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		task.ID, task.OwnerID, task.Title, nullString(description), task.Completed, createdAt)
	if err != nil {
		logger.Sugar.Errorf("Failed to create task for %s: %v", ownerID, err)
		return model.Task{}, err
	}
	return task, nil
}

func (r *RecordRepository) CreateNote(ctx context.Context, ownerID, title, content string, createdAt time.Time) (model.Note, error) {
	note := model.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: &createdAt,
		OwnerID:   ownerID,
	}
	_, err := r.DB.ExecContext(ctx, `INSERT INTO notes (id, owner_id, title, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		note.ID, note.OwnerID, note.Title, note.Content, createdAt)
	if err != nil {
		logger.Sugar.Errorf("Failed to create note for %s: %v", ownerID, err)
		return model.Note{}, err
	}
	return note, nil
}

// ListTasks returns the owner's tasks, newest first when ordered is true and
// in storage order otherwise.
func (r *RecordRepository) ListTasks(ctx context.Context, ownerID string, ordered bool) ([]model.Task, error) {
	query := selectTasks
	if ordered {
		query += newestFirst
	}
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to list tasks for %s (ordered=%t): %v", ownerID, ordered, err)
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var (
			t           model.Task
			description sql.NullString
			createdAt   sql.NullTime
		)
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &description, &t.Completed, &createdAt); err != nil {
			logger.Sugar.Warnf("Skipping unreadable task row for %s: %v", ownerID, err)
			continue
		}
		if description.Valid {
			t.Description = &description.String
		}
		if createdAt.Valid {
			t.CreatedAt = &createdAt.Time
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Sugar.Errorf("Failed to read tasks for %s: %v", ownerID, err)
		return nil, err
	}
	return tasks, nil
}

func (r *RecordRepository) ListNotes(ctx context.Context, ownerID string, ordered bool) ([]model.Note, error) {
	query := selectNotes
	if ordered {
		query += newestFirst
	}
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to list notes for %s (ordered=%t): %v", ownerID, ordered, err)
		return nil, err
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		var (
			n         model.Note
			createdAt sql.NullTime
		)
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &createdAt); err != nil {
			logger.Sugar.Warnf("Skipping unreadable note row for %s: %v", ownerID, err)
			continue
		}
		if createdAt.Valid {
			n.CreatedAt = &createdAt.Time
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		logger.Sugar.Errorf("Failed to read notes for %s: %v", ownerID, err)
		return nil, err
	}
	return notes, nil
}

// ToggleTask flips completed on the owner's task and reports how many rows
// changed; zero means the task does not exist for this owner.
func (r *RecordRepository) ToggleTask(ctx context.Context, taskID, ownerID string) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `UPDATE tasks SET completed = NOT completed WHERE id = $1 AND owner_id = $2`, taskID, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to toggle task %s: %v", taskID, err)
		return 0, err
	}
	return result.RowsAffected()
}

func (r *RecordRepository) DeleteTask(ctx context.Context, taskID, ownerID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1 AND owner_id = $2", taskID, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete task %s: %v", taskID, err)
	}
	return err
}

func (r *RecordRepository) DeleteNote(ctx context.Context, noteID, ownerID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM notes WHERE id = $1 AND owner_id = $2", noteID, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete note %s: %v", noteID, err)
	}
	return err
}

func (r *RecordRepository) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
