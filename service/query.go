package service

import (
	"context"
	"errors"

	"podcastgen/cache"
	"podcastgen/dto"
	"podcastgen/models"
	"podcastgen/repository"
)

// QueryService serves the read side: single-task lookup, filtered pagination,
// and the pending-count wait heuristic.
type QueryService struct {
	repo           repository.Repository
	cache          *cache.StatusCache
	waitMinutesMin int
	waitMinutesMax int
}

func NewQueryService(repo repository.Repository, cache *cache.StatusCache, waitMin, waitMax int) *QueryService {
	return &QueryService{
		repo:           repo,
		cache:          cache,
		waitMinutesMin: waitMin,
		waitMinutesMax: waitMax,
	}
}

// GetTask fetches one task. While a task is still in flight only its cached
// status matters to pollers, so a cache hit answers without touching the
// store; terminal statuses fall through so the response carries result_url
// and script.
func (s *QueryService) GetTask(ctx context.Context, id string) (*dto.TaskResponse, error) {
	status, err := s.cache.Get(ctx, id)
	if err == nil && !models.IsTerminal(status) {
		return &dto.TaskResponse{
			ID:     id,
			Status: string(status),
		}, nil
	}

	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, dto.ErrTaskNotFound
		}
		return nil, err
	}

	s.cache.Set(ctx, task.ID, task.Status)

	return ToResponse(task), nil
}

// QueryTasks is the raw list endpoint's backend: the filter is applied as
// given, ordering is always created_at descending, and total counts all
// matching rows before range slicing.
func (s *QueryService) QueryTasks(ctx context.Context, filter repository.TaskFilter) ([]*dto.TaskResponse, int, error) {
	tasks, total, err := s.repo.ListTasks(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, ToResponse(task))
	}
	return responses, total, nil
}

// ListTasks is page-oriented sugar over QueryTasks. The status filter rides
// in the same store query as the range, so a page is only ever short when the
// matching rows genuinely run out.
func (s *QueryService) ListTasks(ctx context.Context, page, pageSize int, status models.TaskStatus) ([]*dto.TaskResponse, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	from := (page - 1) * pageSize
	to := from + pageSize - 1

	return s.QueryTasks(ctx, repository.TaskFilter{
		Status: status,
		From:   &from,
		To:     &to,
	})
}

// CountPending returns the number of tasks waiting for the worker, served
// from the short-TTL cache when possible.
func (s *QueryService) CountPending(ctx context.Context) (int, error) {
	if count, err := s.cache.GetPendingCount(ctx); err == nil {
		return count, nil
	}

	count, err := s.repo.CountByStatus(ctx, models.StatusPending)
	if err != nil {
		return 0, err
	}

	s.cache.SetPendingCount(ctx, count)

	return count, nil
}

// EstimateWait derives the display-only queue wait estimate from the pending
// count. There is no feedback loop to the actual worker.
func (s *QueryService) EstimateWait(ctx context.Context) (*dto.WaitEstimateResponse, error) {
	pending, err := s.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.WaitEstimateResponse{
		Pending:    pending,
		MinMinutes: pending * s.waitMinutesMin,
		MaxMinutes: pending * s.waitMinutesMax,
	}, nil
}
