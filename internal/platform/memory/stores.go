package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/store"
)

// Compile-time interface checks.
var (
	_ store.UserStore       = (*UserStore)(nil)
	_ store.TeamStore       = (*TeamStore)(nil)
	_ store.MembershipStore = (*MembershipStore)(nil)
	_ store.TaskStore       = (*TaskStore)(nil)
	_ store.CommentStore    = (*CommentStore)(nil)
)

// UserStore implements store.UserStore.
type UserStore struct{ db *DB }

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	if user.PasswordHash == "" {
		return fmt.Errorf("%w: user password is not hashed", store.ErrInvalidEntity)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.loginIDs[user.LoginID]; ok {
		return store.ErrLoginIDExists
	}
	if _, ok := s.db.nicks[user.Nickname]; ok {
		return store.ErrNicknameExists
	}

	row := *user
	row.Password = ""
	s.db.users[user.ID] = row
	s.db.loginIDs[user.LoginID] = user.ID
	s.db.nicks[user.Nickname] = user.ID

	logger.FromContextOrDefault(ctx, s.db.logger).Debug("user created",
		slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetByLoginID implements store.UserStore.GetByLoginID.
func (s *UserStore) GetByLoginID(_ context.Context, loginID string) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	id, ok := s.db.loginIDs[loginID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	u := s.db.users[id]
	return &u, nil
}

// ExistsByLoginID implements store.UserStore.ExistsByLoginID.
func (s *UserStore) ExistsByLoginID(_ context.Context, loginID string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	_, ok := s.db.loginIDs[loginID]
	return ok, nil
}

// ExistsByNickname implements store.UserStore.ExistsByNickname.
func (s *UserStore) ExistsByNickname(_ context.Context, nickname string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	_, ok := s.db.nicks[nickname]
	return ok, nil
}

// TeamStore implements store.TeamStore.
type TeamStore struct{ db *DB }

// CreateWithLeader implements store.TeamStore.CreateWithLeader.
func (s *TeamStore) CreateWithLeader(ctx context.Context, team *domain.Team, leader *domain.TeamMember) error {
	if err := team.Validate(); err != nil {
		return err
	}
	if err := leader.Validate(); err != nil {
		return err
	}
	if leader.TeamID != team.ID || leader.Role != domain.TeamRoleLeader {
		return fmt.Errorf("%w: founding membership must be the team's LEADER", store.ErrInvalidEntity)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[leader.UserID]; !ok {
		return fmt.Errorf("%w: user %s does not exist", store.ErrInvalidEntity, leader.UserID)
	}
	if _, ok := s.db.teams[team.ID]; ok {
		return fmt.Errorf("%w: team %s", store.ErrDuplicate, team.ID)
	}

	s.db.teams[team.ID] = *team
	s.db.members = append(s.db.members, *leader)

	logger.FromContextOrDefault(ctx, s.db.logger).Debug("team created",
		slog.String("team_id", team.ID.String()),
		slog.String("leader_id", leader.UserID.String()))
	return nil
}

// GetByID implements store.TeamStore.GetByID.
func (s *TeamStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Team, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	t, ok := s.db.teams[id]
	if !ok {
		return nil, store.ErrTeamNotFound
	}
	return &t, nil
}

// MembershipStore implements store.MembershipStore.
type MembershipStore struct{ db *DB }

// Exists implements store.MembershipStore.Exists.
func (s *MembershipStore) Exists(_ context.Context, userID, teamID uuid.UUID) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.db.findMember(userID, teamID) >= 0, nil
}

// Get implements store.MembershipStore.Get.
func (s *MembershipStore) Get(_ context.Context, userID, teamID uuid.UUID) (*domain.TeamMember, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	i := s.db.findMember(userID, teamID)
	if i < 0 {
		return nil, store.ErrMembershipNotFound
	}
	m := s.db.members[i]
	return &m, nil
}

// Insert implements store.MembershipStore.Insert.
func (s *MembershipStore) Insert(ctx context.Context, member *domain.TeamMember) error {
	if err := member.Validate(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.teams[member.TeamID]; !ok {
		return fmt.Errorf("%w: team %s does not exist", store.ErrInvalidEntity, member.TeamID)
	}
	if _, ok := s.db.users[member.UserID]; !ok {
		return fmt.Errorf("%w: user %s does not exist", store.ErrInvalidEntity, member.UserID)
	}
	if s.db.findMember(member.UserID, member.TeamID) >= 0 {
		return store.ErrMembershipExists
	}
	s.db.members = append(s.db.members, *member)

	logger.FromContextOrDefault(ctx, s.db.logger).Debug("membership created",
		slog.String("user_id", member.UserID.String()),
		slog.String("team_id", member.TeamID.String()))
	return nil
}

// ListByTeam implements store.MembershipStore.ListByTeam.
func (s *MembershipStore) ListByTeam(_ context.Context, teamID uuid.UUID) ([]domain.MemberInfo, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []domain.MemberInfo{}
	for _, m := range s.db.members {
		if m.TeamID != teamID {
			continue
		}
		u := s.db.users[m.UserID]
		out = append(out, domain.MemberInfo{
			MembershipID: m.ID,
			UserID:       m.UserID,
			LoginID:      u.LoginID,
			Nickname:     u.Nickname,
			Role:         m.Role,
			JoinedAt:     m.JoinedAt,
		})
	}
	return out, nil
}

// ListByUser implements store.MembershipStore.ListByUser.
func (s *MembershipStore) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.TeamWithRole, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []domain.TeamWithRole{}
	for _, m := range s.db.members {
		if m.UserID != userID {
			continue
		}
		t := s.db.teams[m.TeamID]
		out = append(out, domain.TeamWithRole{Team: &t, MyRole: m.Role})
	}
	return out, nil
}

// TaskStore implements store.TaskStore.
type TaskStore struct{ db *DB }

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.teams[task.TeamID]; !ok {
		return fmt.Errorf("%w: team %s does not exist", store.ErrInvalidEntity, task.TeamID)
	}
	if task.WorkerID != nil {
		if _, ok := s.db.users[*task.WorkerID]; !ok {
			return fmt.Errorf("%w: worker %s does not exist", store.ErrInvalidEntity, *task.WorkerID)
		}
	}
	if task.ParentID != nil {
		if _, ok := s.db.tasks[*task.ParentID]; !ok {
			return fmt.Errorf("%w: parent task %s does not exist", store.ErrInvalidEntity, *task.ParentID)
		}
	}
	if _, ok := s.db.tasks[task.ID]; ok {
		return fmt.Errorf("%w: task %s", store.ErrDuplicate, task.ID)
	}

	s.db.tasks[task.ID] = *cloneTask(*task)

	logger.FromContextOrDefault(ctx, s.db.logger).Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("team_id", task.TeamID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(_ context.Context, id uuid.UUID, includeDeleted bool) (*domain.Task, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	t, ok := s.db.tasks[id]
	if !ok || (t.IsDeleted() && !includeDeleted) {
		return nil, store.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task, expectedVersion int64) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	cur, err := s.liveAt(task.ID, &expectedVersion)
	if err != nil {
		return err
	}
	if task.WorkerID != nil {
		if _, ok := s.db.users[*task.WorkerID]; !ok {
			return fmt.Errorf("%w: worker %s does not exist", store.ErrInvalidEntity, *task.WorkerID)
		}
	}

	next := cloneTask(*task)
	// Identity, ownership and creation time are immutable.
	next.TeamID = cur.TeamID
	next.ParentID = cur.ParentID
	next.CreatedAt = cur.CreatedAt
	next.DeletedAt = nil
	next.Version = cur.Version + 1
	next.Touch(time.Now())
	s.db.tasks[task.ID] = *next

	task.Version = next.Version
	task.UpdatedAt = next.UpdatedAt

	logger.FromContextOrDefault(ctx, s.db.logger).Debug("task updated",
		slog.String("task_id", task.ID.String()),
		slog.Int64("version", next.Version))
	return nil
}

// SoftDelete implements store.TaskStore.SoftDelete.
func (s *TaskStore) SoftDelete(
	ctx context.Context,
	id uuid.UUID,
	deletedAt time.Time,
	expectedVersion *int64,
) (*domain.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	cur, err := s.liveAt(id, expectedVersion)
	if err != nil {
		return nil, err
	}

	at := deletedAt.UTC().Truncate(time.Microsecond)
	cur.DeletedAt = &at
	cur.UpdatedAt = at
	cur.Version++
	s.db.tasks[id] = *cur

	logger.FromContextOrDefault(ctx, s.db.logger).Debug("task soft deleted",
		slog.String("task_id", id.String()),
		slog.Int64("version", cur.Version))
	return cloneTask(*cur), nil
}

// liveAt returns a copy of the live task id, checking its version when
// expected is non-nil. Callers hold s.db.mu.
func (s *TaskStore) liveAt(id uuid.UUID, expected *int64) (*domain.Task, error) {
	t, ok := s.db.tasks[id]
	if !ok || t.IsDeleted() {
		return nil, store.ErrTaskNotFound
	}
	if expected != nil && t.Version != *expected {
		return nil, store.ErrVersionConflict
	}
	return cloneTask(t), nil
}

// ListByTeam implements store.TaskStore.ListByTeam.
func (s *TaskStore) ListByTeam(_ context.Context, teamID uuid.UUID) ([]*domain.Task, error) {
	return s.filter(func(t *domain.Task) bool { return t.TeamID == teamID }), nil
}

// ListByWorker implements store.TaskStore.ListByWorker.
func (s *TaskStore) ListByWorker(_ context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return s.filter(func(t *domain.Task) bool { return t.WorkerID != nil && *t.WorkerID == userID }), nil
}

// ListByParent implements store.TaskStore.ListByParent.
func (s *TaskStore) ListByParent(_ context.Context, parentID uuid.UUID) ([]*domain.Task, error) {
	return s.filter(func(t *domain.Task) bool { return t.ParentID != nil && *t.ParentID == parentID }), nil
}

func (s *TaskStore) filter(keep func(*domain.Task) bool) []*domain.Task {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []*domain.Task{}
	for _, t := range s.db.tasks {
		if t.IsDeleted() || !keep(&t) {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sortTasks(out)
	return out
}

// CommentStore implements store.CommentStore.
type CommentStore struct{ db *DB }

// Create implements store.CommentStore.Create.
func (s *CommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.tasks[comment.TaskID]; !ok {
		return fmt.Errorf("%w: task %s does not exist", store.ErrInvalidEntity, comment.TaskID)
	}
	if _, ok := s.db.users[comment.WriterID]; !ok {
		return fmt.Errorf("%w: writer %s does not exist", store.ErrInvalidEntity, comment.WriterID)
	}
	s.db.comments = append(s.db.comments, *comment)

	logger.FromContextOrDefault(ctx, s.db.logger).Debug("comment created",
		slog.String("comment_id", comment.ID.String()),
		slog.String("task_id", comment.TaskID.String()))
	return nil
}

// ListByTask implements store.CommentStore.ListByTask.
func (s *CommentStore) ListByTask(_ context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := []*domain.Comment{}
	for i := range s.db.comments {
		if s.db.comments[i].TaskID == taskID {
			c := s.db.comments[i]
			out = append(out, &c)
		}
	}
	// Stable keeps insertion order among equal timestamps.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
