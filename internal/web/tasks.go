package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/Joseda-hg/devtasks/internal/db"
	"github.com/Joseda-hg/devtasks/internal/model"
)

const (
	msgTaskNotFound = "Task not found"
	msgTitleMissing = "Title is required"
)

type createTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	writeJSON(w, http.StatusOK, struct {
		Tasks []model.Task `json:"tasks"`
	}{Tasks: tasks})
}

func (s *Server) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgTaskNotFound)
		return
	}

	task, err := s.store.GetTask(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgTaskNotFound)
		return
	}
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Task model.Task `json:"task"`
	}{Task: task})
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		writeError(w, http.StatusBadRequest, msgTitleMissing)
		return
	}

	id, err := s.store.CreateTask(r.Context(), db.CreateInput{Title: *req.Title, Description: req.Description})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	s.metrics.TaskCreated()
	s.logger.Info("task created", "task_id", id)

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Task created successfully", ID: id})
}

func (s *Server) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgTaskNotFound)
		return
	}

	var req updateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := s.store.UpdateTask(r.Context(), id, db.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	s.writeOutcome(w, r, outcome, err, "Task updated successfully")
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgTaskNotFound)
		return
	}

	outcome, err := s.store.DeleteTask(r.Context(), id)
	s.writeOutcome(w, r, outcome, err, "Task deleted successfully")
}

func (s *Server) writeOutcome(w http.ResponseWriter, r *http.Request, outcome db.Outcome, err error, message string) {
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	switch outcome {
	case db.OutcomeApplied:
		writeJSON(w, http.StatusOK, messageResponse{Message: message})
	case db.OutcomeNotFound:
		writeError(w, http.StatusNotFound, msgTaskNotFound)
	default:
		s.writeStoreError(w, r, fmt.Errorf("unexpected outcome %s", outcome))
	}
}

// writeStoreError maps store failures to 400 or 500. The message is passed
// through unchanged.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *db.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Error())
		return
	}
	s.logger.Error("store operation failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func taskID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodeBody reads a JSON body, or a urlencoded form when the client sends
// one. Form fields that are absent stay nil.
func decodeBody(r *http.Request, dst any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("invalid form body: %w", err)
		}
		return decodeForm(r, dst)
	}

	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func decodeForm(r *http.Request, dst any) error {
	field := func(name string) *string {
		if _, ok := r.PostForm[name]; !ok {
			return nil
		}
		value := r.PostForm.Get(name)
		return &value
	}

	switch req := dst.(type) {
	case *createTaskRequest:
		req.Title = field("title")
		req.Description = field("description")
	case *updateTaskRequest:
		req.Title = field("title")
		req.Description = field("description")
		req.Status = field("status")
	default:
		return fmt.Errorf("unsupported form target %T", dst)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
