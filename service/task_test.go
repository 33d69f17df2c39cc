package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcastgen/cache"
	"podcastgen/config"
	"podcastgen/database"
	"podcastgen/dto"
	"podcastgen/kafka"
	"podcastgen/models"
	"podcastgen/repository"
	"podcastgen/validation"
)

type mockRepo struct {
	createTaskFunc func(ctx context.Context, task *models.Task) error
	getTaskFunc    func(ctx context.Context, id string) (*models.Task, error)
	listTasksFunc  func(ctx context.Context, filter repository.TaskFilter) ([]*models.Task, int, error)
	countFunc      func(ctx context.Context, status models.TaskStatus) (int, error)

	created []*models.Task
	updates int
}

func (m *mockRepo) CreateTask(ctx context.Context, task *models.Task) error {
	if m.createTaskFunc != nil {
		if err := m.createTaskFunc(ctx, task); err != nil {
			return err
		}
	} else {
		task.ID = uuid.New().String()
		task.CreatedAt = time.Now()
		task.UpdatedAt = task.CreatedAt
	}
	m.created = append(m.created, task)
	return nil
}

func (m *mockRepo) GetTask(ctx context.Context, id string) (*models.Task, error) {
	if m.getTaskFunc != nil {
		return m.getTaskFunc(ctx, id)
	}
	for _, task := range m.created {
		if task.ID == id {
			return task, nil
		}
	}
	return nil, repository.ErrTaskNotFound
}

func (m *mockRepo) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]*models.Task, int, error) {
	if m.listTasksFunc != nil {
		return m.listTasksFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockRepo) CountByStatus(ctx context.Context, status models.TaskStatus) (int, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, status)
	}
	return 0, nil
}

func (m *mockRepo) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus, resultURL, script, errorMessage string) error {
	m.updates++
	for _, task := range m.created {
		if task.ID == id {
			task.Status = status
			task.ResultURL = resultURL
			task.Script = script
			task.ErrorMessage = errorMessage
			return nil
		}
	}
	return repository.ErrTaskNotFound
}

type enqueueCall struct {
	queue   string
	payload any
	delay   int
}

type mockProducer struct {
	enqueueFunc func(ctx context.Context, queueName string, payload any, delaySeconds int) (string, error)
	calls       []enqueueCall
}

func (m *mockProducer) Enqueue(ctx context.Context, queueName string, payload any, delaySeconds int) (string, error) {
	m.calls = append(m.calls, enqueueCall{queue: queueName, payload: payload, delay: delaySeconds})
	if m.enqueueFunc != nil {
		return m.enqueueFunc(ctx, queueName, payload, delaySeconds)
	}
	return "0-1", nil
}

func (m *mockProducer) Close() error { return nil }

func newTestStatusCache(t *testing.T) *cache.StatusCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewStatusCache(database.NewCacheWithClient(client))
}

func testBundle() config.PromptBundle {
	return config.PromptBundle{
		ScriptPrompt:        "script prompt",
		PromptAudioSpeaker1: "https://cdn.example.com/spk1.wav",
		PromptTextSpeaker1:  "speaker one sample",
		PromptAudioSpeaker2: "https://cdn.example.com/spk2.wav",
		PromptTextSpeaker2:  "speaker two sample",
	}
}

func TestSubmitTask_CreatesPendingThenEnqueues(t *testing.T) {
	repo := &mockRepo{}
	producer := &mockProducer{}
	svc := NewTaskService(repo, newTestStatusCache(t), producer, "moss_ttsd", testBundle())

	producer.enqueueFunc = func(ctx context.Context, queueName string, payload any, delay int) (string, error) {
		// The row must exist, in pending, before the send happens.
		require.Len(t, repo.created, 1)
		require.Equal(t, models.StatusPending, repo.created[0].Status)
		return "0-7", nil
	}

	resp, err := svc.SubmitTask(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Len(t, repo.created, 1)
	require.Len(t, producer.calls, 1)

	call := producer.calls[0]
	assert.Equal(t, "moss_ttsd", call.queue)
	assert.Equal(t, 0, call.delay)

	msg, ok := call.payload.(*kafka.TaskMessage)
	require.True(t, ok)
	assert.Equal(t, "ttsd", msg.Type)
	assert.Equal(t, "https://example.com/a", msg.URL)
	assert.Equal(t, resp.ID, msg.ID)
	assert.Equal(t, "script prompt", msg.ScriptPrompt)
	assert.Equal(t, "speaker one sample", msg.PromptTextSpeaker1)
	assert.Equal(t, "https://cdn.example.com/spk2.wav", msg.PromptAudioSpeaker2)
}

func TestSubmitTask_InvalidURLHasNoSideEffects(t *testing.T) {
	repo := &mockRepo{}
	producer := &mockProducer{}
	svc := NewTaskService(repo, newTestStatusCache(t), producer, "moss_ttsd", testBundle())

	for _, url := range []string{"", "ftp://example.com", "not a url"} {
		_, err := svc.SubmitTask(context.Background(), url)
		require.Error(t, err, "url %q", url)
	}

	assert.Empty(t, repo.created)
	assert.Empty(t, producer.calls)
}

func TestSubmitTask_StoreFailureSkipsEnqueue(t *testing.T) {
	repo := &mockRepo{
		createTaskFunc: func(ctx context.Context, task *models.Task) error {
			return errors.New("constraint violation")
		},
	}
	producer := &mockProducer{}
	svc := NewTaskService(repo, newTestStatusCache(t), producer, "moss_ttsd", testBundle())

	_, err := svc.SubmitTask(context.Background(), "https://example.com/a")
	require.Error(t, err)
	assert.Empty(t, producer.calls, "no enqueue after a failed create")
}

func TestSubmitTask_EnqueueFailureLeavesPendingRow(t *testing.T) {
	repo := &mockRepo{}
	producer := &mockProducer{
		enqueueFunc: func(ctx context.Context, queueName string, payload any, delay int) (string, error) {
			return "", errors.New("broker unavailable")
		},
	}
	svc := NewTaskService(repo, newTestStatusCache(t), producer, "moss_ttsd", testBundle())

	_, err := svc.SubmitTask(context.Background(), "https://example.com/a")
	require.Error(t, err)

	// The orphan row is the documented behavior: still there, still pending,
	// no compensating update.
	require.Len(t, repo.created, 1)
	assert.Equal(t, models.StatusPending, repo.created[0].Status)
	assert.Zero(t, repo.updates)
}

func TestSubmitTask_MissingIDSkipsEnqueue(t *testing.T) {
	repo := &mockRepo{
		createTaskFunc: func(ctx context.Context, task *models.Task) error {
			// Malformed store response: insert "succeeds" but no id comes back.
			task.CreatedAt = time.Now()
			return nil
		},
	}
	producer := &mockProducer{}
	svc := NewTaskService(repo, newTestStatusCache(t), producer, "moss_ttsd", testBundle())

	_, err := svc.SubmitTask(context.Background(), "https://example.com/a")
	require.ErrorIs(t, err, validation.ErrTaskIDMissing)
	assert.Empty(t, producer.calls)
}

func TestCreateTask_ForcesPendingAndRoundTripsFields(t *testing.T) {
	repo := &mockRepo{}
	svc := NewTaskService(repo, newTestStatusCache(t), &mockProducer{}, "moss_ttsd", testBundle())
	qsvc := NewQueryService(repo, newTestStatusCache(t), 3, 5)

	req := &dto.CreateTaskRequest{
		URL:                 "https://example.com/article",
		ScriptPrompt:        "custom prompt",
		PromptTextSpeaker1:  "t1",
		PromptTextSpeaker2:  "t2",
		PromptAudioSpeaker1: "a1",
		PromptAudioSpeaker2: "a2",
		Status:              "completed", // must be ignored
	}

	created, err := svc.CreateTask(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "pending", created.Status)

	fetched, err := qsvc.GetTask(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, req.URL, fetched.URL)
	assert.Equal(t, "custom prompt", fetched.ScriptPrompt)
	assert.Equal(t, "t1", fetched.PromptTextSpeaker1)
	assert.Equal(t, "t2", fetched.PromptTextSpeaker2)
	assert.Equal(t, "a1", fetched.PromptAudioSpeaker1)
	assert.Equal(t, "a2", fetched.PromptAudioSpeaker2)
}

func TestCreateTask_RequiresURL(t *testing.T) {
	repo := &mockRepo{}
	svc := NewTaskService(repo, newTestStatusCache(t), &mockProducer{}, "moss_ttsd", testBundle())

	_, err := svc.CreateTask(context.Background(), &dto.CreateTaskRequest{})
	require.ErrorIs(t, err, validation.ErrURLRequired)
	assert.Empty(t, repo.created)
}

func TestEnqueueRaw_Defaults(t *testing.T) {
	producer := &mockProducer{}
	svc := NewTaskService(&mockRepo{}, newTestStatusCache(t), producer, "moss_ttsd", testBundle())

	id, err := svc.EnqueueRaw(context.Background(), json.RawMessage(`{"a":1}`), "", -5)
	require.NoError(t, err)
	assert.Equal(t, "0-1", id)

	require.Len(t, producer.calls, 1)
	assert.Equal(t, "moss_ttsd", producer.calls[0].queue)
	assert.Equal(t, 0, producer.calls[0].delay)
}

func TestEnqueueRaw_ExplicitQueueAndDelay(t *testing.T) {
	producer := &mockProducer{}
	svc := NewTaskService(&mockRepo{}, newTestStatusCache(t), producer, "moss_ttsd", testBundle())

	_, err := svc.EnqueueRaw(context.Background(), json.RawMessage(`{"a":1}`), "other_channel", 30)
	require.NoError(t, err)

	require.Len(t, producer.calls, 1)
	assert.Equal(t, "other_channel", producer.calls[0].queue)
	assert.Equal(t, 30, producer.calls[0].delay)
}
