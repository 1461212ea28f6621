package model

import "time"

const (
	DefaultTaskTitle = "New Task"
	DefaultNoteTitle = "New Note"
)

type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	Completed     bool       `json:"completed"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	OwnerID       string     `json:"owner_id"`
	FormattedDate string     `json:"formatted_date,omitempty"`
}

type Note struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	OwnerID       string     `json:"owner_id"`
	FormattedDate string     `json:"formatted_date,omitempty"`
}

// Board is everything shown on a user's home page.
type Board struct {
	Tasks []Task `json:"tasks"`
	Notes []Note `json:"notes"`
	Error string `json:"error,omitempty"`
}

type SearchResult struct {
	Tasks []Task `json:"tasks"`
	Notes []Note `json:"notes"`
}

// FormatDate renders created_at the way the home page shows it, e.g. "Mar. 7".
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("Jan. 2")
}
