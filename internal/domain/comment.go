package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Comment is an append-only note attached to a task.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	WriterID  uuid.UUID `json:"writer_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment creates a comment written by writerID on taskID.
// Blank content is rejected.
func NewComment(taskID, writerID uuid.UUID, content string) (*Comment, error) {
	c := &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		WriterID:  writerID,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", nil)
	}
	if c.TaskID == uuid.Nil {
		return NewValidationError("task_id", "cannot be empty", nil)
	}
	if c.WriterID == uuid.Nil {
		return NewValidationError("writer_id", "cannot be empty", nil)
	}
	if strings.TrimSpace(c.Content) == "" {
		return NewValidationError("content", "cannot be blank", nil)
	}
	return nil
}
