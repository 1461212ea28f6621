package service

import (
	"context"
	"strings"

	"taskbook/internal/record/model"
	"taskbook/pkg/apperror"
)

// Search does a case-insensitive substring match over the owner's records:
// task titles, and note titles or contents. An empty query matches everything.
func (s *RecordService) Search(ctx context.Context, ownerID, query string) (model.SearchResult, error) {
	needle := strings.ToLower(query)

	tasks, err := s.Repo.ListTasks(ctx, ownerID, false)
	if err != nil {
		return model.SearchResult{}, apperror.Unavailable(msgSearchFailed, err)
	}
	notes, err := s.Repo.ListNotes(ctx, ownerID, false)
	if err != nil {
		return model.SearchResult{}, apperror.Unavailable(msgSearchFailed, err)
	}

	result := model.SearchResult{Tasks: []model.Task{}, Notes: []model.Note{}}
	for _, t := range validTasks(tasks, ownerID) {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			result.Tasks = append(result.Tasks, t)
		}
	}
	for _, n := range validNotes(notes, ownerID) {
		if strings.Contains(strings.ToLower(n.Title), needle) || strings.Contains(strings.ToLower(n.Content), needle) {
			result.Notes = append(result.Notes, n)
		}
	}
	sortTasks(result.Tasks)
	sortNotes(result.Notes)
	return result, nil
}
