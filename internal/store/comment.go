package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
)

// CommentStore persists append-only task comments.
type CommentStore interface {
	// Create saves a new comment.
	// Returns ErrInvalidEntity if the task or writer does not exist.
	Create(ctx context.Context, comment *domain.Comment) error

	// ListByTask returns the comments of taskID ordered by creation time
	// ascending, ties broken by insertion order.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error)
}
