// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskbook/internal/record/model"

	"github.com/google/uuid"
)

// FakeStore is an in-memory record store for tests. Unordered listings come
// back in insertion order; ordered listings follow
// "created_at DESC NULLS LAST, id ASC".
type FakeStore struct {
	mu    sync.RWMutex
	tasks []model.Task
	notes []model.Note

	// Error injection for testing
	OrderedErr   error // ordered listings only
	UnorderedErr error // unordered listings only
	CreateErr    error
	ToggleErr    error
	DeleteErr    error
	PingErr      error

	OrderedCalls   int
	UnorderedCalls int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// SeedTask inserts a task verbatim, bypassing id generation and validation.
func (f *FakeStore) SeedTask(t model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, t)
}

// SeedNote inserts a note verbatim.
func (f *FakeStore) SeedNote(n model.Note) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, n)
}

// Task returns a stored task by id regardless of owner.
func (f *FakeStore) Task(id string) (model.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (f *FakeStore) CreateTask(_ context.Context, ownerID, title string, description *string, createdAt time.Time) (model.Task, error) {
	if f.CreateErr != nil {
		return model.Task{}, f.CreateErr
	}
	t := model.Task{ID: uuid.NewString(), OwnerID: ownerID, Title: title, Description: description, CreatedAt: &createdAt}
	f.SeedTask(t)
	return t, nil
}

func (f *FakeStore) CreateNote(_ context.Context, ownerID, title, content string, createdAt time.Time) (model.Note, error) {
	if f.CreateErr != nil {
		return model.Note{}, f.CreateErr
	}
	n := model.Note{ID: uuid.NewString(), OwnerID: ownerID, Title: title, Content: content, CreatedAt: &createdAt}
	f.SeedNote(n)
	return n, nil
}

func (f *FakeStore) ListTasks(_ context.Context, ownerID string, ordered bool) ([]model.Task, error) {
	if err := f.listErr(ordered); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := []model.Task{}
	for _, t := range f.tasks {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	if ordered {
		sort.SliceStable(out, func(i, j int) bool {
			return sqlNewestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
		})
	}
	return out, nil
}

func (f *FakeStore) ListNotes(_ context.Context, ownerID string, ordered bool) ([]model.Note, error) {
	if err := f.listErr(ordered); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := []model.Note{}
	for _, n := range f.notes {
		if n.OwnerID == ownerID {
			out = append(out, n)
		}
	}
	if ordered {
		sort.SliceStable(out, func(i, j int) bool {
			return sqlNewestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
		})
	}
	return out, nil
}

func (f *FakeStore) ToggleTask(_ context.Context, taskID, ownerID string) (int64, error) {
	if f.ToggleErr != nil {
		return 0, f.ToggleErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == taskID && f.tasks[i].OwnerID == ownerID {
			f.tasks[i].Completed = !f.tasks[i].Completed
			return 1, nil
		}
	}
	return 0, nil
}

func (f *FakeStore) DeleteTask(_ context.Context, taskID, ownerID string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tasks[:0]
	for _, t := range f.tasks {
		if !(t.ID == taskID && t.OwnerID == ownerID) {
			kept = append(kept, t)
		}
	}
	f.tasks = kept
	return nil
}

func (f *FakeStore) DeleteNote(_ context.Context, noteID, ownerID string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.notes[:0]
	for _, n := range f.notes {
		if !(n.ID == noteID && n.OwnerID == ownerID) {
			kept = append(kept, n)
		}
	}
	f.notes = kept
	return nil
}

func (f *FakeStore) Ping(context.Context) error { return f.PingErr }

func (f *FakeStore) listErr(ordered bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ordered {
		f.OrderedCalls++
		return f.OrderedErr
	}
	f.UnorderedCalls++
	return f.UnorderedErr
}

func sqlNewestFirst(a, b *time.Time, idA, idB string) bool {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return idA < idB
		}
		return b == nil
	}
	if !a.Equal(*b) {
		return a.After(*b)
	}
	return idA < idB
}
