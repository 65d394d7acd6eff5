package driven

import (
	"context"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// SchedulerStore keeps background task state and run history so schedules
// survive restarts of serve.
type SchedulerStore interface {
	// GetTask returns nil and no error for an unknown task.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// ListTasks returns every task ordered by ID.
	ListTasks(ctx context.Context) ([]domain.ScheduledTask, error)

	// SaveTask creates or replaces a task.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	RecordResult(ctx context.Context, result *domain.TaskResult) error

	// History returns up to limit results of a task, most recent first.
	History(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)

	// PruneHistory keeps the most recent keep results of every task.
	PruneHistory(ctx context.Context, keep int) error
}
