package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/events"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/store"
)

// CommentDetails is a comment joined with its writer's names.
type CommentDetails struct {
	*domain.Comment
	WriterLoginID  string
	WriterNickname string
}

// CommentService appends comments to tasks and lists them
type CommentService interface {
	// Create adds a comment written by caller to a live task.
	Create(ctx context.Context, caller, taskID uuid.UUID, content string) (*CommentDetails, error)

	// List returns the comments of a live task, oldest first. Comments
	// created at the same instant keep their insertion order.
	List(ctx context.Context, caller, taskID uuid.UUID) ([]*CommentDetails, error)
}

// CommentServiceImpl implements the CommentService interface
type CommentServiceImpl struct {
	taskAccess
	comments store.CommentStore
	logger   *slog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	comments store.CommentStore,
	tasks store.TaskStore,
	users store.UserStore,
	membership MembershipService,
	logger *slog.Logger,
	opts ...Option,
) CommentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentServiceImpl{
		taskAccess: newTaskAccess(users, tasks, membership, opts),
		comments:   comments,
		logger:     logger.With("component", "comment_service"),
	}
}

// Create implements CommentService.
func (s *CommentServiceImpl) Create(
	ctx context.Context,
	caller, taskID uuid.UUID,
	content string,
) (*CommentDetails, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	writer, task, err := s.liveTask(ctx, "create_comment", caller, taskID)
	if err != nil {
		return nil, err
	}

	comment, err := domain.NewComment(task.ID, writer.ID, content)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		if isInternal(err) {
			log.Error("failed to save comment", "error", err, "task_id", taskID)
		}
		return nil, NewServiceError("create_comment", "failed to save comment", err)
	}

	log.Info("comment created", "comment_id", comment.ID, "task_id", taskID, "user_id", caller)
	s.publish(ctx, events.CommentAdded, task, caller)
	return &CommentDetails{
		Comment:        comment,
		WriterLoginID:  writer.LoginID,
		WriterNickname: writer.Nickname,
	}, nil
}

// List implements CommentService.
func (s *CommentServiceImpl) List(ctx context.Context, caller, taskID uuid.UUID) ([]*CommentDetails, error) {
	_, task, err := s.liveTask(ctx, "list_comments", caller, taskID)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTask(ctx, task.ID)
	if err != nil {
		return nil, NewServiceError("list_comments", "failed to list comments", err)
	}

	writers := make(map[uuid.UUID]*domain.User)
	out := make([]*CommentDetails, 0, len(comments))
	for _, c := range comments {
		w, ok := writers[c.WriterID]
		if !ok {
			if w, err = s.users.GetByID(ctx, c.WriterID); err != nil {
				return nil, NewServiceError("list_comments", "failed to load writer", err)
			}
			writers[c.WriterID] = w
		}
		out = append(out, &CommentDetails{
			Comment:        c,
			WriterLoginID:  w.LoginID,
			WriterNickname: w.Nickname,
		})
	}
	return out, nil
}
