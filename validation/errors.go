package validation

import "errors"

var (
	ErrURLRequired     = errors.New("URL is required")
	ErrInvalidURL      = errors.New("url must be an absolute http or https URL")
	ErrInvalidTaskData = errors.New("task_data must be an object")
	ErrTaskIDMissing   = errors.New("task created without an id")
)
