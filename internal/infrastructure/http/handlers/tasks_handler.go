package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	taskapp "github.com/kaveeshanethruwan/taskhive/internal/application/task"
	"github.com/kaveeshanethruwan/taskhive/internal/domain"
	domerrors "github.com/kaveeshanethruwan/taskhive/internal/domain/errors"
	"github.com/kaveeshanethruwan/taskhive/internal/infrastructure/http/middleware"
)

type TasksHandler struct {
	tasks    *taskapp.Service
	importer *taskapp.CSVImporter
	validate *validator.Validate
	log      zerolog.Logger
}

func NewTasksHandler(tasks *taskapp.Service, importer *taskapp.CSVImporter, log zerolog.Logger) *TasksHandler {
	return &TasksHandler{tasks: tasks, importer: importer, validate: validator.New(), log: log}
}

type taskResponse struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "missing or invalid authorization")
		return
	}
	var body struct {
		Title       string     `json:"title" validate:"required,max=255"`
		Description string     `json:"description" validate:"max=4096"`
		Status      string     `json:"status" validate:"omitempty,oneof=pending in_progress done"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	t, err := h.tasks.Create(r.Context(), &domain.Task{
		UserID:      identity.ID,
		Title:       body.Title,
		Description: body.Description,
		Status:      domain.TaskStatus(body.Status),
		DueDate:     body.DueDate,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("create task failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(t))
}

func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "missing or invalid authorization")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	result, err := h.tasks.List(r.Context(), identity.ID, page, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("list tasks failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	items := make([]taskResponse, 0, len(result.Items))
	for _, t := range result.Items {
		items = append(items, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": items,
		"pagination": map[string]int{
			"total": result.Total,
			"page":  result.Page,
			"limit": result.Limit,
			"pages": result.Pages,
		},
	})
}

func (h *TasksHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "missing or invalid authorization")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid task id")
		return
	}
	t, err := h.tasks.Get(r.Context(), id, identity.ID)
	if err != nil {
		if errors.Is(err, domerrors.ErrTaskNotFound) {
			writeErr(w, http.StatusNotFound, "", err.Error())
			return
		}
		h.log.Error().Err(err).Msg("get task failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *TasksHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "missing or invalid authorization")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid task id")
		return
	}
	var body struct {
		Title       *string    `json:"title" validate:"omitempty,max=255"`
		Description *string    `json:"description" validate:"omitempty,max=4096"`
		Status      *string    `json:"status" validate:"omitempty,oneof=pending in_progress done"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	t, err := h.tasks.Update(r.Context(), id, identity.ID, func(t *domain.Task) {
		if body.Title != nil {
			t.Title = *body.Title
		}
		if body.Description != nil {
			t.Description = *body.Description
		}
		if body.Status != nil {
			t.Status = domain.TaskStatus(*body.Status)
		}
		if body.DueDate != nil {
			t.DueDate = body.DueDate
		}
	})
	if err != nil {
		if errors.Is(err, domerrors.ErrTaskNotFound) {
			writeErr(w, http.StatusNotFound, "", err.Error())
			return
		}
		h.log.Error().Err(err).Msg("update task failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "missing or invalid authorization")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid task id")
		return
	}
	if err := h.tasks.Delete(r.Context(), id, identity); err != nil {
		if errors.Is(err, domerrors.ErrTaskNotFound) {
			writeErr(w, http.StatusNotFound, "", err.Error())
			return
		}
		h.log.Error().Err(err).Msg("delete task failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "task " + strconv.FormatInt(id, 10) + " deleted",
	})
}

func (h *TasksHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, "", "missing or invalid authorization")
		return
	}
	if err := r.ParseMultipartForm(MaxCSVUploadBytes); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "no file uploaded")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "text/csv" && !strings.HasSuffix(header.Filename, ".csv") {
		writeErr(w, http.StatusBadRequest, "", "file must be a CSV")
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, MaxCSVUploadBytes+1))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "read upload failed")
		return
	}
	if len(data) > MaxCSVUploadBytes {
		writeErr(w, http.StatusBadRequest, "", "file too large")
		return
	}

	result, err := h.importer.Execute(r.Context(), identity.ID, header.Filename, data)
	if err != nil {
		h.log.Error().Err(err).Msg("csv import failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
