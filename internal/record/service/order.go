package service

import (
	"slices"
	"strings"
	"time"

	"taskbook/internal/record/model"
)

// newestFirst orders records by created_at descending. Records without a
// created_at sort last; ties are broken by id ascending. It must agree with
// the ORDER BY used by the store so both list paths return the same sequence.
func newestFirst[T any](items []T, createdAt func(T) *time.Time, id func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		ta, tb := createdAt(a), createdAt(b)
		switch {
		case ta == nil && tb == nil:
		case ta == nil:
			return 1
		case tb == nil:
			return -1
		case ta.After(*tb):
			return -1
		case ta.Before(*tb):
			return 1
		}
		return strings.Compare(id(a), id(b))
	})
}

func sortTasks(tasks []model.Task) {
	newestFirst(tasks,
		func(t model.Task) *time.Time { return t.CreatedAt },
		func(t model.Task) string { return t.ID })
}

func sortNotes(notes []model.Note) {
	newestFirst(notes,
		func(n model.Note) *time.Time { return n.CreatedAt },
		func(n model.Note) string { return n.ID })
}
