package repository

import (
	"context"
	"errors"

	"podcastgen/models"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskFilter narrows a ListTasks query. Zero values mean "no constraint".
// From/To are a zero-indexed inclusive row range applied after ordering;
// both must be set for the range to take effect.
type TaskFilter struct {
	ID     string
	Status models.TaskStatus
	From   *int
	To     *int
}

type Repository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	// ListTasks returns the matching rows ordered by created_at descending,
	// plus the exact count of rows matching the filter before range slicing.
	ListTasks(ctx context.Context, filter TaskFilter) ([]*models.Task, int, error)
	CountByStatus(ctx context.Context, status models.TaskStatus) (int, error)
	// UpdateTaskStatus is the external worker's write path. The submission
	// side never calls it.
	UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus, resultURL, script, errorMessage string) error
}
