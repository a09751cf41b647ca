package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
)

// TaskStore defines the interface for versioned task persistence.
//
// Every list method excludes rows with a delete marker and returns tasks
// ordered by creation time, oldest first.
type TaskStore interface {
	// Create saves a new task as given, including its initial version.
	// Returns ErrInvalidEntity if the team, worker or parent does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by id. Unless includeDeleted is set, a task
	// with a delete marker is reported as ErrTaskNotFound.
	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Task, error)

	// Update writes the mutable fields of task if the stored row is not
	// deleted and still has expectedVersion. On success the stored version
	// becomes expectedVersion+1 and task.Version and task.UpdatedAt are set
	// to the stored values.
	// Returns ErrVersionConflict if the version moved on and ErrTaskNotFound
	// if the row is gone or deleted.
	Update(ctx context.Context, task *domain.Task, expectedVersion int64) error

	// SoftDelete sets the delete marker of a live task and increments its
	// version. When expectedVersion is non-nil the write also requires that
	// version. Returns ErrTaskNotFound or ErrVersionConflict like Update.
	SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time, expectedVersion *int64) (*domain.Task, error)

	// ListByTeam returns the live tasks of teamID.
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*domain.Task, error)

	// ListByWorker returns the live tasks assigned to userID.
	ListByWorker(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListByParent returns the live direct children of parentID.
	ListByParent(ctx context.Context, parentID uuid.UUID) ([]*domain.Task, error)
}
