package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"podcastgen/database"
	"podcastgen/models"
)

const taskColumns = `id, url, script_prompt, prompt_text_speaker1, prompt_text_speaker2,
	prompt_audio_speaker1, prompt_audio_speaker2, status, error_message,
	result_url, script, created_at, updated_at, completed_at`

type PostgresRepo struct {
	db *database.DB
}

func NewPostgresRepo(db *database.DB) Repository {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateTask(ctx context.Context, task *models.Task) error {
	// Status is always forced to pending on insert; only the worker moves it.
	task.Status = models.StatusPending

	query := `
		INSERT INTO tasks (url, script_prompt, prompt_text_speaker1, prompt_text_speaker2,
			prompt_audio_speaker1, prompt_audio_speaker2, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		task.URL,
		task.ScriptPrompt,
		task.PromptTextSpeaker1,
		task.PromptTextSpeaker2,
		task.PromptAudioSpeaker1,
		task.PromptAudioSpeaker2,
		task.Status,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	return nil
}

func (r *PostgresRepo) GetTask(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return task, nil
}

func (r *PostgresRepo) ListTasks(ctx context.Context, filter TaskFilter) ([]*models.Task, int, error) {
	where, args := buildTaskWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks` + where
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks` + where + ` ORDER BY created_at DESC`
	if limit, offset, ok := rangeToLimitOffset(filter.From, filter.To); ok {
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, limit, offset)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

func (r *PostgresRepo) CountByStatus(ctx context.Context, status models.TaskStatus) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status = $1`,
		models.NormalizeStatus(status),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tasks by status: %w", err)
	}
	return count, nil
}

func (r *PostgresRepo) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus, resultURL, script, errorMessage string) error {
	status = models.NormalizeStatus(status)

	query := `
		UPDATE tasks
		SET status = $1, result_url = $2, script = $3, error_message = $4, updated_at = NOW()
	`
	if models.IsTerminal(status) {
		query += `, completed_at = NOW()`
	}
	query += ` WHERE id = $5`

	result, err := r.db.Pool.Exec(ctx, query, status, resultURL, script, errorMessage, id)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// buildTaskWhere turns a filter into a WHERE clause and its arguments.
// Status aliases are normalized so "done" matches rows stored as "completed";
// "all" and empty mean no status constraint.
func buildTaskWhere(filter TaskFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.ID != "" {
		args = append(args, filter.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if filter.Status != "" && filter.Status != models.StatusAll {
		args = append(args, models.NormalizeStatus(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// rangeToLimitOffset converts the inclusive [from, to] row range into
// LIMIT/OFFSET. Both bounds must be present and sane.
func rangeToLimitOffset(from, to *int) (limit, offset int, ok bool) {
	if from == nil || to == nil {
		return 0, 0, false
	}
	if *from < 0 || *to < *from {
		return 0, 0, false
	}
	return *to - *from + 1, *from, true
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.URL,
		&task.ScriptPrompt,
		&task.PromptTextSpeaker1,
		&task.PromptTextSpeaker2,
		&task.PromptAudioSpeaker1,
		&task.PromptAudioSpeaker2,
		&task.Status,
		&task.ErrorMessage,
		&task.ResultURL,
		&task.Script,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
