package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskStatus represents the progress state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// IsValid reports whether s is a known status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// TaskPriority is an ordinal priority.
type TaskPriority string

// Possible task priorities, lowest first.
const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// IsValid reports whether p is a known priority.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities: LOW < MEDIUM < HIGH. Unknown values rank 0.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityLow:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityHigh:
		return 3
	}
	return 0
}

// TaskTitleMaxLength is the maximum title length in characters.
const TaskTitleMaxLength = 200

// InitialTaskVersion is the version of a freshly created task.
const InitialTaskVersion int64 = 0

// Task is a unit of work owned by a team. WorkerID and ParentID are id
// references resolved through the stores; the parent is expected, but not
// required, to belong to the same team.
type Task struct {
	ID        uuid.UUID    `json:"id"`
	TeamID    uuid.UUID    `json:"team_id"`
	WorkerID  *uuid.UUID   `json:"worker_id,omitempty"`
	ParentID  *uuid.UUID   `json:"parent_id,omitempty"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Status    TaskStatus   `json:"status"`
	Priority  TaskPriority `json:"priority"`
	Deadline  *time.Time   `json:"deadline,omitempty"`
	Version   int64        `json:"version"`
	DeletedAt *time.Time   `json:"-"`
	Timestamps
}

// NewTaskParams holds the caller-supplied fields of a new task. Zero values
// of Status and Priority select the defaults.
type NewTaskParams struct {
	TeamID   uuid.UUID
	WorkerID *uuid.UUID
	ParentID *uuid.UUID
	Title    string
	Content  string
	Status   TaskStatus
	Priority TaskPriority
	Deadline *time.Time
}

// NewTask creates a task at InitialTaskVersion with status TODO and priority
// MEDIUM unless given. The deadline is normalized with EndOfDay.
func NewTask(p NewTaskParams) (*Task, error) {
	task := &Task{
		ID:         uuid.New(),
		TeamID:     p.TeamID,
		WorkerID:   p.WorkerID,
		ParentID:   p.ParentID,
		Title:      p.Title,
		Content:    p.Content,
		Status:     p.Status,
		Priority:   p.Priority,
		Version:    InitialTaskVersion,
		Timestamps: NewTimestamps(time.Now()),
	}
	if task.Status == "" {
		task.Status = TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = TaskPriorityMedium
	}
	if p.Deadline != nil {
		d := EndOfDay(*p.Deadline)
		task.Deadline = &d
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", nil)
	}
	if t.TeamID == uuid.Nil {
		return NewValidationError("team_id", "cannot be empty", nil)
	}
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "cannot be blank", nil)
	}
	if utf8.RuneCountInString(t.Title) > TaskTitleMaxLength {
		return NewValidationError("title", "must be at most 200 characters", nil)
	}
	if !t.Status.IsValid() {
		return NewValidationError("status", "is not a valid task status", nil)
	}
	if !t.Priority.IsValid() {
		return NewValidationError("priority", "is not a valid task priority", nil)
	}
	if t.Version < InitialTaskVersion {
		return NewValidationError("version", "cannot be negative", nil)
	}
	return nil
}

// IsDeleted reports whether the task carries a delete marker.
func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// TaskPatch is a partial update. A nil field is absent and leaves the stored
// value untouched, so a field cannot be cleared back to null through a patch.
type TaskPatch struct {
	Title         *string
	Content       *string
	Status        *TaskStatus
	Priority      *TaskPriority
	Deadline      *time.Time
	WorkerLoginID *string

	// Version is the version the caller last read. When set it must match
	// the stored version.
	Version *int64
}

// Apply copies the present content fields of p onto t. Worker reassignment
// and the version check are resolved by the caller because they need the
// stores. The result is validated.
func (t *Task) Apply(p TaskPatch) error {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Deadline != nil {
		d := EndOfDay(*p.Deadline)
		t.Deadline = &d
	}
	return t.Validate()
}

// EndOfDay returns the last instant of d's calendar day in UTC, truncated to
// microseconds so the value survives a PostgreSQL round trip unchanged.
func EndOfDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 23, 59, 59, int(time.Second-time.Microsecond), time.UTC)
}
