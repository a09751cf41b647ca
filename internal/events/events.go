package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names a kind of task change.
type Type string

// Task change types.
const (
	TaskCreated  Type = "task.created"
	TaskUpdated  Type = "task.updated"
	TaskDeleted  Type = "task.deleted"
	CommentAdded Type = "task.comment_added"
)

// TaskEvent records one committed change to a task.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type    Type      `json:"type"`
	TaskID  uuid.UUID `json:"task_id"`
	TeamID  uuid.UUID `json:"team_id"`
	ActorID uuid.UUID `json:"actor_id"`

	// Version is the task version after the change.
	Version int64 `json:"version"`

	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskEvent creates an event of type t stamped with the current time.
func NewTaskEvent(t Type, taskID, teamID, actorID uuid.UUID, version int64) *TaskEvent {
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       t,
		TaskID:     taskID,
		TeamID:     teamID,
		ActorID:    actorID,
		Version:    version,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

// NopEmitter discards every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *TaskEvent) error { return nil }
