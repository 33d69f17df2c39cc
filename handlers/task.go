package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"podcastgen/dto"
	"podcastgen/middleware"
	"podcastgen/models"
	"podcastgen/repository"
	"podcastgen/validation"
)

type TaskService interface {
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	SubmitTask(ctx context.Context, url string) (*dto.TaskResponse, error)
	EnqueueRaw(ctx context.Context, payload json.RawMessage, queueName string, sleepSeconds int) (string, error)
}

type QueryService interface {
	GetTask(ctx context.Context, id string) (*dto.TaskResponse, error)
	QueryTasks(ctx context.Context, filter repository.TaskFilter) ([]*dto.TaskResponse, int, error)
	EstimateWait(ctx context.Context) (*dto.WaitEstimateResponse, error)
}

type TaskHandler struct {
	tasks   TaskService
	queries QueryService
	logger  *zap.Logger
}

func NewTaskHandler(tasks TaskService, queries QueryService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:   tasks,
		queries: queries,
		logger:  logger,
	}
}

// Create handles POST /task: a bare insert with caller-supplied fields.
// Nothing is enqueued here; the original clients drive the queue step
// separately via /queue, and /submit does both server-side.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, "invalid JSON body", err, traceID, http.StatusBadRequest)
		return
	}

	resp, err := h.tasks.CreateTask(r.Context(), &req)
	if err != nil {
		if errors.Is(err, validation.ErrURLRequired) {
			h.handleError(w, validation.ErrURLRequired.Error(), err, traceID, http.StatusBadRequest)
			return
		}
		// Store failures surface verbatim, same shape as the success body.
		h.handleError(w, err.Error(), err, traceID, http.StatusBadRequest)
		return
	}

	h.logger.Info("Task created",
		zap.String("trace_id", traceID),
		zap.String("task_id", resp.ID),
		zap.String("url", req.URL),
	)

	h.respondJSON(w, http.StatusOK, dto.TaskEnvelope{Data: resp})
}

// List handles GET /task: optional id/status filters, inclusive from/to row
// range, optional field projection, newest first.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())
	params := r.URL.Query()

	filter := repository.TaskFilter{
		ID:     params.Get("id"),
		Status: models.TaskStatus(params.Get("status")),
	}
	if from, to, ok := parseRange(params.Get("from"), params.Get("to")); ok {
		filter.From = &from
		filter.To = &to
	}

	tasks, total, err := h.queries.QueryTasks(r.Context(), filter)
	if err != nil {
		h.handleError(w, err.Error(), err, traceID, http.StatusBadRequest)
		return
	}

	fields := parseSelect(params.Get("select"))
	data := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		data = append(data, projectTask(task, fields))
	}

	h.respondJSON(w, http.StatusOK, dto.TaskListResponse{Data: data, Total: total})
}

// GetByID handles GET /task/{id}. Unlike the list endpoint, an unknown id is
// a 404 here, not an empty result.
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	taskID := chi.URLParam(r, "id")
	if taskID == "" {
		h.handleError(w, "Task ID is required", nil, traceID, http.StatusBadRequest)
		return
	}

	resp, err := h.queries.GetTask(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, dto.ErrTaskNotFound) {
			h.handleError(w, "Task not found", err, traceID, http.StatusNotFound)
			return
		}
		h.handleError(w, "Failed to get task", err, traceID, http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.TaskEnvelope{Data: resp})
}

// Enqueue handles POST /queue: pass an arbitrary JSON object to the queue.
func (h *TaskHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	var req dto.EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, validation.ErrInvalidTaskData.Error(), err, traceID, http.StatusBadRequest)
		return
	}

	payload := req.TaskData
	if len(payload) == 0 {
		// Legacy clients send the payload under "message". An explicit
		// task_data null does not fall back; it decodes as the literal
		// "null" and fails validation below.
		payload = req.Message
	}
	if err := validation.ValidateTaskData(payload); err != nil {
		h.handleError(w, err.Error(), err, traceID, http.StatusBadRequest)
		return
	}

	messageID, err := h.tasks.EnqueueRaw(r.Context(), payload, req.QueueName, req.SleepSeconds)
	if err != nil {
		h.handleError(w, err.Error(), err, traceID, http.StatusBadRequest)
		return
	}

	var resp dto.EnqueueResponse
	resp.Data.MessageID = messageID
	h.respondJSON(w, http.StatusOK, resp)
}

// Submit handles POST /submit: the full two-phase submission with the default
// prompt bundle.
func (h *TaskHandler) Submit(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	var req dto.SubmitTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleError(w, "invalid JSON body", err, traceID, http.StatusBadRequest)
		return
	}

	resp, err := h.tasks.SubmitTask(r.Context(), req.URL)
	if err != nil {
		h.handleError(w, err.Error(), err, traceID, http.StatusBadRequest)
		return
	}

	h.logger.Info("Task submitted",
		zap.String("trace_id", traceID),
		zap.String("task_id", resp.ID),
		zap.String("url", req.URL),
	)

	h.respondJSON(w, http.StatusOK, dto.SubmitTaskResponse{
		Data: resp,
		Message: fmt.Sprintf(
			"Task submitted. ID: %s. Generation usually takes 3-5 minutes; check the task list for progress.",
			resp.ID,
		),
	})
}

// Estimate handles GET /queue/estimate.
func (h *TaskHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	est, err := h.queries.EstimateWait(r.Context())
	if err != nil {
		h.handleError(w, "Failed to estimate wait", err, traceID, http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, http.StatusOK, est)
}

// parseRange parses the inclusive from/to query parameters. Both must be
// present and numeric, otherwise the range is ignored.
func parseRange(fromStr, toStr string) (from, to int, ok bool) {
	if fromStr == "" || toStr == "" {
		return 0, 0, false
	}
	from, err := strconv.Atoi(fromStr)
	if err != nil {
		return 0, 0, false
	}
	to, err = strconv.Atoi(toStr)
	if err != nil {
		return 0, 0, false
	}
	return from, to, true
}

// parseSelect parses the comma-separated field list; nil means all fields.
func parseSelect(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return nil
	}
	parts := strings.Split(s, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

// projectTask renders a task as a field map, restricted to the requested
// fields when a projection was given. Unknown field names are ignored.
func projectTask(task *dto.TaskResponse, fields []string) map[string]any {
	full := map[string]any{
		"id":                    task.ID,
		"url":                   task.URL,
		"script_prompt":         task.ScriptPrompt,
		"prompt_text_speaker1":  task.PromptTextSpeaker1,
		"prompt_text_speaker2":  task.PromptTextSpeaker2,
		"prompt_audio_speaker1": task.PromptAudioSpeaker1,
		"prompt_audio_speaker2": task.PromptAudioSpeaker2,
		"status":                task.Status,
		"error_message":         task.ErrorMessage,
		"result_url":            task.ResultURL,
		"script":                task.Script,
		"created_at":            task.CreatedAt,
		"completed_at":          task.CompletedAt,
	}

	if fields == nil {
		return full
	}

	projected := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, known := full[f]; known {
			projected[f] = v
		}
	}
	return projected
}

func (h *TaskHandler) handleError(w http.ResponseWriter, message string, err error, traceID string, status int) {
	h.logger.Error(message,
		zap.String("trace_id", traceID),
		zap.Error(err),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		TraceID: traceID,
	})
}

func (h *TaskHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
