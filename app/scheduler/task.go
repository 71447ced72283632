package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeRefresh TaskType = "refresh"
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID        string
	Type      TaskType
	StartedAt *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType) Task {
	return Task{
		ID:   uuid.NewString(),
		Type: taskType,
	}
}

// Refresher is the part of the session the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type RefreshTask struct {
	Task
	refresher Refresher
}

func NewRefreshTask(refresher Refresher) *RefreshTask {
	return &RefreshTask{
		Task:      NewTask(TaskTypeRefresh),
		refresher: refresher,
	}
}

func (t *RefreshTask) Execute(ctx context.Context) error {
	if err := t.refresher.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh articles: %w", err)
	}
	return nil
}
