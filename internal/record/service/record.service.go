package service

import (
	"context"
	"strings"
	"time"

	"taskbook/internal/record/model"
	"taskbook/pkg/apperror"
	"taskbook/pkg/logger"
)

const (
	msgFetchFailed  = "Unable to fetch data. Please try again later."
	msgSaveFailed   = "Unable to save changes. Please try again later."
	msgSearchFailed = "Search failed"
)

// Store is the persistence the service needs. Every call is scoped to an owner.
type Store interface {
	CreateTask(ctx context.Context, ownerID, title string, description *string, createdAt time.Time) (model.Task, error)
	CreateNote(ctx context.Context, ownerID, title, content string, createdAt time.Time) (model.Note, error)
	ListTasks(ctx context.Context, ownerID string, ordered bool) ([]model.Task, error)
	ListNotes(ctx context.Context, ownerID string, ordered bool) ([]model.Note, error)
	ToggleTask(ctx context.Context, taskID, ownerID string) (int64, error)
	DeleteTask(ctx context.Context, taskID, ownerID string) error
	DeleteNote(ctx context.Context, noteID, ownerID string) error
	Ping(ctx context.Context) error
}

type RecordService struct {
	Repo Store
	Now  func() time.Time
}

func NewRecordService(repo Store) *RecordService {
	return &RecordService{
		Repo: repo,
		Now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *RecordService) AddTask(ctx context.Context, ownerID, title, description string) (model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = model.DefaultTaskTitle
	}
	var desc *string
	if d := strings.TrimSpace(description); d != "" {
		desc = &d
	}

	task, err := s.Repo.CreateTask(ctx, ownerID, title, desc, s.Now())
	if err != nil {
		return model.Task{}, apperror.Unavailable(msgSaveFailed, err)
	}
	return task, nil
}

func (s *RecordService) AddNote(ctx context.Context, ownerID, title, content string) (model.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = model.DefaultNoteTitle
	}

	note, err := s.Repo.CreateNote(ctx, ownerID, title, content, s.Now())
	if err != nil {
		return model.Note{}, apperror.Unavailable(msgSaveFailed, err)
	}
	return note, nil
}

// ListTasks returns the owner's tasks newest first. When the store cannot
// serve the ordered query it falls back to an unordered scan sorted here.
func (s *RecordService) ListTasks(ctx context.Context, ownerID string) ([]model.Task, error) {
	tasks, err := s.Repo.ListTasks(ctx, ownerID, true)
	if err != nil {
		logger.Sugar.Warnf("Ordered task query failed for %s, falling back to unordered query: %v", ownerID, err)
		tasks, err = s.Repo.ListTasks(ctx, ownerID, false)
		if err != nil {
			return nil, apperror.Unavailable(msgFetchFailed, err)
		}
		tasks = validTasks(tasks, ownerID)
		sortTasks(tasks)
		logger.Sugar.Infof("Fetched %d tasks for %s (unordered)", len(tasks), ownerID)
		return tasks, nil
	}
	return validTasks(tasks, ownerID), nil
}

func (s *RecordService) ListNotes(ctx context.Context, ownerID string) ([]model.Note, error) {
	notes, err := s.Repo.ListNotes(ctx, ownerID, true)
	if err != nil {
		logger.Sugar.Warnf("Ordered note query failed for %s, falling back to unordered query: %v", ownerID, err)
		notes, err = s.Repo.ListNotes(ctx, ownerID, false)
		if err != nil {
			return nil, apperror.Unavailable(msgFetchFailed, err)
		}
		notes = validNotes(notes, ownerID)
		sortNotes(notes)
		logger.Sugar.Infof("Fetched %d notes for %s (unordered)", len(notes), ownerID)
		return notes, nil
	}
	return validNotes(notes, ownerID), nil
}

// Board loads both lists for the home page. On failure the returned board is
// still usable: empty lists and an error message.
func (s *RecordService) Board(ctx context.Context, ownerID string) (model.Board, error) {
	tasks, err := s.ListTasks(ctx, ownerID)
	if err != nil {
		return emptyBoard(msgFetchFailed), err
	}
	notes, err := s.ListNotes(ctx, ownerID)
	if err != nil {
		return emptyBoard(msgFetchFailed), err
	}
	return model.Board{Tasks: tasks, Notes: notes}, nil
}

// ToggleTask flips a task between open and completed. A task that does not
// exist for this owner is left alone and no error is reported.
func (s *RecordService) ToggleTask(ctx context.Context, ownerID, taskID string) error {
	if strings.TrimSpace(taskID) == "" {
		return nil
	}
	n, err := s.Repo.ToggleTask(ctx, taskID, ownerID)
	if err != nil {
		return apperror.Unavailable(msgSaveFailed, err)
	}
	if n == 0 {
		logger.Sugar.Debugf("Toggle ignored: task %s not found for %s", taskID, ownerID)
	}
	return nil
}

// DeleteTask removes a task. Deleting a task that is already gone is not an error.
func (s *RecordService) DeleteTask(ctx context.Context, ownerID, taskID string) error {
	if strings.TrimSpace(taskID) == "" {
		return nil
	}
	if err := s.Repo.DeleteTask(ctx, taskID, ownerID); err != nil {
		return apperror.Unavailable(msgSaveFailed, err)
	}
	return nil
}

func (s *RecordService) DeleteNote(ctx context.Context, ownerID, noteID string) error {
	if strings.TrimSpace(noteID) == "" {
		return nil
	}
	if err := s.Repo.DeleteNote(ctx, noteID, ownerID); err != nil {
		return apperror.Unavailable(msgSaveFailed, err)
	}
	return nil
}

func (s *RecordService) Ping(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}

// validTasks drops rows that cannot be trusted (no id, or another owner) and
// fills in display fields.
func validTasks(tasks []model.Task, ownerID string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" || t.OwnerID != ownerID {
			logger.Sugar.Warnf("Dropping invalid task row %q (owner %q) for %s", t.ID, t.OwnerID, ownerID)
			continue
		}
		if t.Title == "" {
			t.Title = model.DefaultTaskTitle
		}
		t.FormattedDate = model.FormatDate(t.CreatedAt)
		out = append(out, t)
	}
	return out
}

func validNotes(notes []model.Note, ownerID string) []model.Note {
	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if n.ID == "" || n.OwnerID != ownerID {
			logger.Sugar.Warnf("Dropping invalid note row %q (owner %q) for %s", n.ID, n.OwnerID, ownerID)
			continue
		}
		if n.Title == "" {
			n.Title = model.DefaultNoteTitle
		}
		n.FormattedDate = model.FormatDate(n.CreatedAt)
		out = append(out, n)
	}
	return out
}

func emptyBoard(message string) model.Board {
	return model.Board{Tasks: []model.Task{}, Notes: []model.Note{}, Error: message}
}
