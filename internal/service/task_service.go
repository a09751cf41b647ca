package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/events"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/store"
)

// TaskDetails is a task joined with the names of its team and worker.
type TaskDetails struct {
	*domain.Task
	TeamName       string
	WorkerLoginID  string
	WorkerNickname string
}

// CreateTaskInput holds the caller-supplied fields of a new task. Zero
// Status and Priority select the defaults.
type CreateTaskInput struct {
	Title         string
	Content       string
	Status        domain.TaskStatus
	Priority      domain.TaskPriority
	Deadline      *time.Time
	WorkerLoginID *string
	ParentID      *uuid.UUID
}

// TaskService creates, reads, updates and deletes tasks on behalf of team
// members. Every operation takes the caller's user id explicitly.
type TaskService interface {
	// Create adds a task to teamID.
	Create(ctx context.Context, caller, teamID uuid.UUID, in CreateTaskInput) (*TaskDetails, error)

	// Get returns a live task.
	Get(ctx context.Context, caller, taskID uuid.UUID) (*TaskDetails, error)

	// ListByTeam returns the live tasks of teamID, oldest first.
	ListByTeam(ctx context.Context, caller, teamID uuid.UUID) ([]*TaskDetails, error)

	// ListMine returns the live tasks assigned to caller, oldest first.
	ListMine(ctx context.Context, caller uuid.UUID) ([]*TaskDetails, error)

	// ListSubtasks returns the live direct children of taskID.
	ListSubtasks(ctx context.Context, caller, taskID uuid.UUID) ([]*TaskDetails, error)

	// Update applies patch to a live task. A version in the patch must
	// equal the stored version; a concurrent write between load and save
	// is rejected even without one.
	Update(ctx context.Context, caller, taskID uuid.UUID, patch domain.TaskPatch) (*TaskDetails, error)

	// Delete marks a live task deleted. When expectedVersion is non-nil it
	// must equal the stored version.
	Delete(ctx context.Context, caller, taskID uuid.UUID, expectedVersion *int64) error
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskAccess
	teams  store.TeamStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(
	tasks store.TaskStore,
	teams store.TeamStore,
	users store.UserStore,
	membership MembershipService,
	logger *slog.Logger,
	opts ...Option,
) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskServiceImpl{
		taskAccess: newTaskAccess(users, tasks, membership, opts),
		teams:      teams,
		logger:     logger.With("component", "task_service"),
		now:        time.Now,
	}
}

// Create implements TaskService.
func (s *TaskServiceImpl) Create(
	ctx context.Context,
	caller, teamID uuid.UUID,
	in CreateTaskInput,
) (*TaskDetails, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.caller(ctx, "create_task", caller); err != nil {
		return nil, err
	}
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, NewServiceError("create_task", "failed to load team", err)
	}
	if err := s.membership.RequireMember(ctx, caller, teamID); err != nil {
		return nil, err
	}

	var worker *domain.User
	if in.WorkerLoginID != nil {
		if worker, err = s.memberOf(ctx, "create_task", *in.WorkerLoginID, teamID); err != nil {
			return nil, err
		}
	}

	if in.ParentID != nil {
		if _, err := s.tasks.GetByID(ctx, *in.ParentID, false); err != nil {
			return nil, NewServiceError("create_task", "failed to load parent task", err)
		}
	}

	params := domain.NewTaskParams{
		TeamID:   teamID,
		ParentID: in.ParentID,
		Title:    in.Title,
		Content:  in.Content,
		Status:   in.Status,
		Priority: in.Priority,
		Deadline: in.Deadline,
	}
	if worker != nil {
		params.WorkerID = &worker.ID
	}
	task, err := domain.NewTask(params)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		if isInternal(err) {
			log.Error("failed to save task", "error", err, "team_id", teamID)
		}
		return nil, NewServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		"task_id", task.ID,
		"team_id", teamID,
		"user_id", caller)

	s.publish(ctx, events.TaskCreated, task, caller)
	return newTaskDetails(task, team, worker), nil
}

// Get implements TaskService.
func (s *TaskServiceImpl) Get(ctx context.Context, caller, taskID uuid.UUID) (*TaskDetails, error) {
	_, task, err := s.liveTask(ctx, "get_task", caller, taskID)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, "get_task", task)
}

// ListByTeam implements TaskService.
func (s *TaskServiceImpl) ListByTeam(ctx context.Context, caller, teamID uuid.UUID) ([]*TaskDetails, error) {
	if _, err := s.caller(ctx, "list_tasks", caller); err != nil {
		return nil, err
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, NewServiceError("list_tasks", "failed to load team", err)
	}
	if err := s.membership.RequireMember(ctx, caller, teamID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, NewServiceError("list_tasks", "failed to list tasks", err)
	}
	return s.projectAll(ctx, "list_tasks", tasks)
}

// ListMine implements TaskService.
func (s *TaskServiceImpl) ListMine(ctx context.Context, caller uuid.UUID) ([]*TaskDetails, error) {
	if _, err := s.caller(ctx, "list_my_tasks", caller); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByWorker(ctx, caller)
	if err != nil {
		return nil, NewServiceError("list_my_tasks", "failed to list tasks", err)
	}
	return s.projectAll(ctx, "list_my_tasks", tasks)
}

// ListSubtasks implements TaskService.
func (s *TaskServiceImpl) ListSubtasks(ctx context.Context, caller, taskID uuid.UUID) ([]*TaskDetails, error) {
	_, parent, err := s.liveTask(ctx, "list_subtasks", caller, taskID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByParent(ctx, parent.ID)
	if err != nil {
		return nil, NewServiceError("list_subtasks", "failed to list subtasks", err)
	}
	return s.projectAll(ctx, "list_subtasks", tasks)
}

// Update implements TaskService.
func (s *TaskServiceImpl) Update(
	ctx context.Context,
	caller, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*TaskDetails, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, task, err := s.liveTask(ctx, "update_task", caller, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Version != nil && *patch.Version != task.Version {
		log.Debug("rejected stale update",
			"task_id", taskID,
			"expected_version", *patch.Version,
			"stored_version", task.Version)
		return nil, domain.ErrVersionConflict
	}

	if patch.WorkerLoginID != nil {
		worker, err := s.memberOf(ctx, "update_task", *patch.WorkerLoginID, task.TeamID)
		if err != nil {
			return nil, err
		}
		task.WorkerID = &worker.ID
	}

	loaded := task.Version
	if err := task.Apply(patch); err != nil {
		return nil, err
	}

	// The store re-checks the loaded version, so a writer that saved after
	// our load makes this update fail instead of being overwritten.
	if err := s.tasks.Update(ctx, task, loaded); err != nil {
		if isInternal(err) {
			log.Error("failed to save task", "error", err, "task_id", taskID)
		} else {
			log.Debug("task update rejected by store", "error", err, "task_id", taskID)
		}
		return nil, NewServiceError("update_task", "failed to save task", err)
	}

	log.Info("task updated",
		"task_id", taskID,
		"version", task.Version,
		"user_id", caller)

	s.publish(ctx, events.TaskUpdated, task, caller)
	return s.project(ctx, "update_task", task)
}

// Delete implements TaskService.
func (s *TaskServiceImpl) Delete(ctx context.Context, caller, taskID uuid.UUID, expectedVersion *int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, task, err := s.liveTask(ctx, "delete_task", caller, taskID)
	if err != nil {
		return err
	}
	if expectedVersion != nil && *expectedVersion != task.Version {
		return domain.ErrVersionConflict
	}

	deleted, err := s.tasks.SoftDelete(ctx, taskID, s.now(), expectedVersion)
	if err != nil {
		if isInternal(err) {
			log.Error("failed to delete task", "error", err, "task_id", taskID)
		}
		return NewServiceError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted", "task_id", taskID, "user_id", caller)
	s.publish(ctx, events.TaskDeleted, deleted, caller)
	return nil
}

func newTaskDetails(task *domain.Task, team *domain.Team, worker *domain.User) *TaskDetails {
	d := &TaskDetails{Task: task, TeamName: team.Name}
	if worker != nil {
		d.WorkerLoginID = worker.LoginID
		d.WorkerNickname = worker.Nickname
	}
	return d
}

func (s *TaskServiceImpl) project(ctx context.Context, op string, task *domain.Task) (*TaskDetails, error) {
	out, err := s.projectAll(ctx, op, []*domain.Task{task})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// projectAll joins tasks with team and worker names, loading each team and
// worker once.
func (s *TaskServiceImpl) projectAll(ctx context.Context, op string, tasks []*domain.Task) ([]*TaskDetails, error) {
	teams := make(map[uuid.UUID]*domain.Team)
	workers := make(map[uuid.UUID]*domain.User)

	out := make([]*TaskDetails, 0, len(tasks))
	for _, task := range tasks {
		team, ok := teams[task.TeamID]
		if !ok {
			var err error
			if team, err = s.teams.GetByID(ctx, task.TeamID); err != nil {
				return nil, NewServiceError(op, "failed to load team", err)
			}
			teams[task.TeamID] = team
		}

		var worker *domain.User
		if task.WorkerID != nil {
			if worker, ok = workers[*task.WorkerID]; !ok {
				var err error
				if worker, err = s.users.GetByID(ctx, *task.WorkerID); err != nil {
					return nil, NewServiceError(op, "failed to load worker", err)
				}
				workers[*task.WorkerID] = worker
			}
		}

		out = append(out, newTaskDetails(task, team, worker))
	}
	return out, nil
}
