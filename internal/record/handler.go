package handler

import (
	"net/http"

	"taskbook/internal/record/service"
	"taskbook/middleware"
	"taskbook/pkg/apperror"
	"taskbook/pkg/logger"
)

type RecordHandler struct {
	Service *service.RecordService
}

func NewRecordHandler(service *service.RecordService) *RecordHandler {
	return &RecordHandler{Service: service}
}

func (h *RecordHandler) Index(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subject(w, r)
	if !ok {
		return
	}

	board, err := h.Service.Board(r.Context(), subjectID)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to load board for %s: %v", subjectID, err)
		apperror.WriteJSON(w, apperror.StatusOf(err), board)
		return
	}
	apperror.WriteJSON(w, http.StatusOK, board)
}

func (h *RecordHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subject(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		apperror.Write(w, apperror.BadRequest("Invalid form data"))
		return
	}

	if _, err := h.Service.AddTask(r.Context(), subjectID, r.PostForm.Get("title"), r.PostForm.Get("description")); err != nil {
		logger.Sugar.Errorf("Handler: Failed to add task: %v", err)
		apperror.Write(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *RecordHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subject(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		apperror.Write(w, apperror.BadRequest("Invalid form data"))
		return
	}

	if _, err := h.Service.AddNote(r.Context(), subjectID, r.PostForm.Get("title"), r.PostForm.Get("content")); err != nil {
		logger.Sugar.Errorf("Handler: Failed to add note: %v", err)
		apperror.Write(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *RecordHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subject(w, r)
	if !ok {
		return
	}

	taskID := r.PathValue("id")
	if err := h.Service.ToggleTask(r.Context(), subjectID, taskID); err != nil {
		logger.Sugar.Errorf("Handler: Failed to toggle task %s: %v", taskID, err)
		apperror.Write(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *RecordHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subject(w, r)
	if !ok {
		return
	}

	taskID := r.PathValue("id")
	if err := h.Service.DeleteTask(r.Context(), subjectID, taskID); err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete task %s: %v", taskID, err)
		apperror.Write(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *RecordHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subject(w, r)
	if !ok {
		return
	}

	noteID := r.PathValue("id")
	if err := h.Service.DeleteNote(r.Context(), subjectID, noteID); err != nil {
		logger.Sugar.Errorf("Handler: Failed to delete note %s: %v", noteID, err)
		apperror.Write(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *RecordHandler) Search(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := subject(w, r)
	if !ok {
		return
	}

	res, err := h.Service.Search(r.Context(), subjectID, r.URL.Query().Get("q"))
	if err != nil {
		logger.Sugar.Errorf("Search error: %v", err)
		apperror.WriteJSON(w, apperror.StatusOf(err), map[string]string{"error": apperror.MessageOf(err)})
		return
	}
	apperror.WriteJSON(w, http.StatusOK, res)
}

// subject reads the caller from the request context. Without one the caller
// is sent to log in and ok is false.
func subject(w http.ResponseWriter, r *http.Request) (string, bool) {
	subjectID, ok := middleware.SubjectID(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
	return subjectID, ok
}
