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

// Option configures the task and comment services.
type Option func(*taskAccess)

// WithEventEmitter makes the service publish an event after every task
// change it commits.
func WithEventEmitter(emitter events.EventEmitter) Option {
	return func(a *taskAccess) {
		if emitter != nil {
			a.events = emitter
		}
	}
}

// taskAccess performs the resolve and authorize sequence shared by task
// and comment operations. Existence is checked before membership, so a
// missing task reports TaskNotFound even to outsiders.
type taskAccess struct {
	users      store.UserStore
	tasks      store.TaskStore
	membership MembershipService
	events     events.EventEmitter
}

func newTaskAccess(
	users store.UserStore,
	tasks store.TaskStore,
	membership MembershipService,
	opts []Option,
) taskAccess {
	a := taskAccess{users: users, tasks: tasks, membership: membership, events: events.NopEmitter{}}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// publish emits an event for a committed change. Handler failures are
// logged; the change stands.
func (a taskAccess) publish(ctx context.Context, t events.Type, task *domain.Task, actor uuid.UUID) {
	event := events.NewTaskEvent(t, task.ID, task.TeamID, actor, task.Version)
	if err := a.events.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, slog.Default()).Warn("failed to publish task event",
			"error", err,
			"event_type", t,
			"task_id", task.ID)
	}
}

// caller resolves the calling user.
func (a taskAccess) caller(ctx context.Context, op string, id uuid.UUID) (*domain.User, error) {
	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError(op, "failed to resolve caller", err)
	}
	return user, nil
}

// liveTask resolves caller, loads the task unless it is deleted and
// requires caller's membership in the task's team.
func (a taskAccess) liveTask(
	ctx context.Context,
	op string,
	caller, taskID uuid.UUID,
) (*domain.User, *domain.Task, error) {
	user, err := a.caller(ctx, op, caller)
	if err != nil {
		return nil, nil, err
	}
	task, err := a.tasks.GetByID(ctx, taskID, false)
	if err != nil {
		return nil, nil, NewServiceError(op, "failed to load task", err)
	}
	if err := a.membership.RequireMember(ctx, caller, task.TeamID); err != nil {
		return nil, nil, err
	}
	return user, task, nil
}

// memberOf resolves loginID and requires that user's membership in teamID.
// A non-member is rejected exactly like a non-member caller.
func (a taskAccess) memberOf(ctx context.Context, op, loginID string, teamID uuid.UUID) (*domain.User, error) {
	user, err := a.users.GetByLoginID(ctx, loginID)
	if err != nil {
		return nil, NewServiceError(op, "failed to resolve worker", err)
	}
	if err := a.membership.RequireMember(ctx, user.ID, teamID); err != nil {
		return nil, err
	}
	return user, nil
}
