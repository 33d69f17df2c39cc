package dto

import (
	"encoding/json"
	"errors"
)

var ErrTaskNotFound = errors.New("task not found")

type CreateTaskRequest struct {
	URL                 string `json:"url"`
	ScriptPrompt        string `json:"script_prompt,omitempty"`
	PromptTextSpeaker1  string `json:"prompt_text_speaker1,omitempty"`
	PromptTextSpeaker2  string `json:"prompt_text_speaker2,omitempty"`
	PromptAudioSpeaker1 string `json:"prompt_audio_speaker1,omitempty"`
	PromptAudioSpeaker2 string `json:"prompt_audio_speaker2,omitempty"`
	// Status is accepted for wire compatibility but ignored: new tasks are
	// always created pending.
	Status string `json:"status,omitempty"`
}

type SubmitTaskRequest struct {
	URL string `json:"url"`
}

// EnqueueRequest carries a raw payload for the queue endpoint. TaskData is the
// preferred field; Message is a legacy alias. Both are kept as raw JSON so an
// explicit null (decoded as the literal bytes "null") can be told apart from
// an absent field (zero-length raw message).
type EnqueueRequest struct {
	TaskData     json.RawMessage `json:"task_data,omitempty"`
	Message      json.RawMessage `json:"message,omitempty"`
	QueueName    string          `json:"queue_name,omitempty"`
	SleepSeconds int             `json:"sleep_seconds,omitempty"`
}

type TaskResponse struct {
	ID                  string  `json:"id"`
	URL                 string  `json:"url"`
	ScriptPrompt        string  `json:"script_prompt,omitempty"`
	PromptTextSpeaker1  string  `json:"prompt_text_speaker1,omitempty"`
	PromptTextSpeaker2  string  `json:"prompt_text_speaker2,omitempty"`
	PromptAudioSpeaker1 string  `json:"prompt_audio_speaker1,omitempty"`
	PromptAudioSpeaker2 string  `json:"prompt_audio_speaker2,omitempty"`
	Status              string  `json:"status"`
	ErrorMessage        string  `json:"error_message,omitempty"`
	ResultURL           string  `json:"result_url,omitempty"`
	Script              string  `json:"script,omitempty"`
	CreatedAt           string  `json:"created_at"`
	CompletedAt         *string `json:"completed_at,omitempty"`
}

type TaskEnvelope struct {
	Data *TaskResponse `json:"data"`
}

type TaskListResponse struct {
	Data  []map[string]any `json:"data"`
	Total int              `json:"total"`
}

type EnqueueResponse struct {
	Data struct {
		MessageID string `json:"messageId"`
	} `json:"data"`
}

type SubmitTaskResponse struct {
	Data    *TaskResponse `json:"data"`
	Message string        `json:"message"`
}

type WaitEstimateResponse struct {
	Pending    int `json:"pending"`
	MinMinutes int `json:"min_minutes"`
	MaxMinutes int `json:"max_minutes"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}
