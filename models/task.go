package models

import (
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusProcessing TaskStatus = "processing"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"

	// StatusDone is a deprecated alias for StatusCompleted. Older rows and
	// older callers still use it; it is accepted on read and never written.
	StatusDone TaskStatus = "done"

	// StatusAll is a filter value, not a persisted status.
	StatusAll TaskStatus = "all"
)

// NormalizeStatus maps deprecated status aliases onto their canonical values.
// Unknown values pass through unchanged so the store can reject them.
func NormalizeStatus(s TaskStatus) TaskStatus {
	if s == StatusDone {
		return StatusCompleted
	}
	return s
}

// IsTerminal reports whether the worker makes no further updates after s.
func IsTerminal(s TaskStatus) bool {
	switch NormalizeStatus(s) {
	case StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

type Task struct {
	ID                  string
	URL                 string
	ScriptPrompt        string
	PromptTextSpeaker1  string
	PromptTextSpeaker2  string
	PromptAudioSpeaker1 string
	PromptAudioSpeaker2 string
	Status              TaskStatus
	ErrorMessage        string
	ResultURL           string
	Script              string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	CompletedAt         *time.Time
}
