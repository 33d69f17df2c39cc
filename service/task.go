package service

import (
	"context"
	"encoding/json"
	"fmt"

	"podcastgen/cache"
	"podcastgen/config"
	"podcastgen/dto"
	"podcastgen/kafka"
	"podcastgen/metrics"
	"podcastgen/models"
	"podcastgen/repository"
	"podcastgen/validation"
)

// TaskService drives the two-phase submission: create the task row, then
// enqueue the work. The two writes are deliberately not coupled; an enqueue
// failure leaves the pending row in place for compatibility with existing
// tooling that inspects orphaned submissions.
type TaskService struct {
	repo     repository.Repository
	cache    *cache.StatusCache
	producer kafka.Producer
	topic    string
	prompts  config.PromptBundle
}

func NewTaskService(repo repository.Repository, cache *cache.StatusCache, producer kafka.Producer, topic string, prompts config.PromptBundle) *TaskService {
	if topic == "" {
		topic = config.DefaultQueueTopic
	}
	return &TaskService{
		repo:     repo,
		cache:    cache,
		producer: producer,
		topic:    topic,
		prompts:  prompts,
	}
}

// CreateTask inserts a task row with the caller-supplied fields and no
// enqueue. Status is always forced to pending regardless of the request.
func (s *TaskService) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if req.URL == "" {
		return nil, validation.ErrURLRequired
	}

	task := &models.Task{
		URL:                 req.URL,
		ScriptPrompt:        req.ScriptPrompt,
		PromptTextSpeaker1:  req.PromptTextSpeaker1,
		PromptTextSpeaker2:  req.PromptTextSpeaker2,
		PromptAudioSpeaker1: req.PromptAudioSpeaker1,
		PromptAudioSpeaker2: req.PromptAudioSpeaker2,
		Status:              models.StatusPending,
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, err
	}
	metrics.TaskCreated()

	s.cache.Set(ctx, task.ID, models.StatusPending)

	return ToResponse(task), nil
}

// SubmitTask runs the full submission protocol for a user-provided URL: the
// default prompt bundle is attached, the row is created pending, and a queue
// message is published to the worker channel with zero delay.
func (s *TaskService) SubmitTask(ctx context.Context, url string) (*dto.TaskResponse, error) {
	if err := validation.ValidateURL(url); err != nil {
		return nil, err
	}

	task := &models.Task{
		URL:                 url,
		ScriptPrompt:        s.prompts.ScriptPrompt,
		PromptTextSpeaker1:  s.prompts.PromptTextSpeaker1,
		PromptTextSpeaker2:  s.prompts.PromptTextSpeaker2,
		PromptAudioSpeaker1: s.prompts.PromptAudioSpeaker1,
		PromptAudioSpeaker2: s.prompts.PromptAudioSpeaker2,
		Status:              models.StatusPending,
	}

	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	metrics.TaskCreated()
	if task.ID == "" {
		// The store answered without an id; do not enqueue work nobody can
		// correlate back to a row.
		return nil, validation.ErrTaskIDMissing
	}

	s.cache.Set(ctx, task.ID, models.StatusPending)

	msg := &kafka.TaskMessage{
		Type:                config.TaskTypeTTSD,
		URL:                 url,
		ScriptPrompt:        task.ScriptPrompt,
		PromptAudioSpeaker1: task.PromptAudioSpeaker1,
		PromptTextSpeaker1:  task.PromptTextSpeaker1,
		PromptAudioSpeaker2: task.PromptAudioSpeaker2,
		PromptTextSpeaker2:  task.PromptTextSpeaker2,
		ID:                  task.ID,
	}
	_, err := s.producer.Enqueue(ctx, s.topic, msg, 0)
	metrics.EnqueueResult(err == nil)
	if err != nil {
		// The pending row stays; there is no compensating delete.
		return nil, fmt.Errorf("queue submission failed: %w", err)
	}

	return ToResponse(task), nil
}

// EnqueueRaw hands an arbitrary JSON object to the named queue. Used by the
// raw queue endpoint; the submission path goes through SubmitTask.
func (s *TaskService) EnqueueRaw(ctx context.Context, payload json.RawMessage, queueName string, sleepSeconds int) (string, error) {
	if queueName == "" {
		queueName = s.topic
	}
	if sleepSeconds < 0 {
		sleepSeconds = 0
	}
	id, err := s.producer.Enqueue(ctx, queueName, payload, sleepSeconds)
	metrics.EnqueueResult(err == nil)
	return id, err
}

// ToResponse converts a task row into its wire shape.
func ToResponse(task *models.Task) *dto.TaskResponse {
	var completedAt *string
	if task.CompletedAt != nil {
		formatted := task.CompletedAt.Format("2006-01-02T15:04:05Z")
		completedAt = &formatted
	}

	return &dto.TaskResponse{
		ID:                  task.ID,
		URL:                 task.URL,
		ScriptPrompt:        task.ScriptPrompt,
		PromptTextSpeaker1:  task.PromptTextSpeaker1,
		PromptTextSpeaker2:  task.PromptTextSpeaker2,
		PromptAudioSpeaker1: task.PromptAudioSpeaker1,
		PromptAudioSpeaker2: task.PromptAudioSpeaker2,
		Status:              string(models.NormalizeStatus(task.Status)),
		ErrorMessage:        task.ErrorMessage,
		ResultURL:           task.ResultURL,
		Script:              task.Script,
		CreatedAt:           task.CreatedAt.Format("2006-01-02T15:04:05Z"),
		CompletedAt:         completedAt,
	}
}
