package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/store"
	"github.com/stretchr/testify/mock"
)

var (
	_ store.UserStore       = (*UserStore)(nil)
	_ store.TeamStore       = (*TeamStore)(nil)
	_ store.MembershipStore = (*MembershipStore)(nil)
	_ store.TaskStore       = (*TaskStore)(nil)
	_ store.CommentStore    = (*CommentStore)(nil)
)

// UserStore is a mock of store.UserStore for use with testify/mock
type UserStore struct {
	mock.Mock
}

// Create is a mock implementation of store.UserStore.Create
func (m *UserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// GetByID is a mock implementation of store.UserStore.GetByID
func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByLoginID is a mock implementation of store.UserStore.GetByLoginID
func (m *UserStore) GetByLoginID(ctx context.Context, loginID string) (*domain.User, error) {
	args := m.Called(ctx, loginID)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// ExistsByLoginID is a mock implementation of store.UserStore.ExistsByLoginID
func (m *UserStore) ExistsByLoginID(ctx context.Context, loginID string) (bool, error) {
	args := m.Called(ctx, loginID)
	return args.Bool(0), args.Error(1)
}

// ExistsByNickname is a mock implementation of store.UserStore.ExistsByNickname
func (m *UserStore) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	args := m.Called(ctx, nickname)
	return args.Bool(0), args.Error(1)
}

// TeamStore is a mock of store.TeamStore for use with testify/mock
type TeamStore struct {
	mock.Mock
}

// CreateWithLeader is a mock implementation of store.TeamStore.CreateWithLeader
func (m *TeamStore) CreateWithLeader(ctx context.Context, team *domain.Team, leader *domain.TeamMember) error {
	args := m.Called(ctx, team, leader)
	return args.Error(0)
}

// GetByID is a mock implementation of store.TeamStore.GetByID
func (m *TeamStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	args := m.Called(ctx, id)
	if team, ok := args.Get(0).(*domain.Team); ok {
		return team, args.Error(1)
	}
	return nil, args.Error(1)
}

// MembershipStore is a mock of store.MembershipStore for use with testify/mock
type MembershipStore struct {
	mock.Mock
}

// Exists is a mock implementation of store.MembershipStore.Exists
func (m *MembershipStore) Exists(ctx context.Context, userID, teamID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, teamID)
	return args.Bool(0), args.Error(1)
}

// Get is a mock implementation of store.MembershipStore.Get
func (m *MembershipStore) Get(ctx context.Context, userID, teamID uuid.UUID) (*domain.TeamMember, error) {
	args := m.Called(ctx, userID, teamID)
	if member, ok := args.Get(0).(*domain.TeamMember); ok {
		return member, args.Error(1)
	}
	return nil, args.Error(1)
}

// Insert is a mock implementation of store.MembershipStore.Insert
func (m *MembershipStore) Insert(ctx context.Context, member *domain.TeamMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// ListByTeam is a mock implementation of store.MembershipStore.ListByTeam
func (m *MembershipStore) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]domain.MemberInfo, error) {
	args := m.Called(ctx, teamID)
	members, _ := args.Get(0).([]domain.MemberInfo)
	return members, args.Error(1)
}

// ListByUser is a mock implementation of store.MembershipStore.ListByUser
func (m *MembershipStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TeamWithRole, error) {
	args := m.Called(ctx, userID)
	teams, _ := args.Get(0).([]domain.TeamWithRole)
	return teams, args.Error(1)
}

// TaskStore is a mock of store.TaskStore for use with testify/mock
type TaskStore struct {
	mock.Mock
}

// Create is a mock implementation of store.TaskStore.Create
func (m *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// GetByID is a mock implementation of store.TaskStore.GetByID
func (m *TaskStore) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Task, error) {
	args := m.Called(ctx, id, includeDeleted)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.TaskStore.Update
func (m *TaskStore) Update(ctx context.Context, task *domain.Task, expectedVersion int64) error {
	args := m.Called(ctx, task, expectedVersion)
	return args.Error(0)
}

// SoftDelete is a mock implementation of store.TaskStore.SoftDelete
func (m *TaskStore) SoftDelete(
	ctx context.Context,
	id uuid.UUID,
	deletedAt time.Time,
	expectedVersion *int64,
) (*domain.Task, error) {
	args := m.Called(ctx, id, deletedAt, expectedVersion)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByTeam is a mock implementation of store.TaskStore.ListByTeam
func (m *TaskStore) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, teamID)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

// ListByWorker is a mock implementation of store.TaskStore.ListByWorker
func (m *TaskStore) ListByWorker(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, userID)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

// ListByParent is a mock implementation of store.TaskStore.ListByParent
func (m *TaskStore) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*domain.Task, error) {
	args := m.Called(ctx, parentID)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Error(1)
}

// CommentStore is a mock of store.CommentStore for use with testify/mock
type CommentStore struct {
	mock.Mock
}

// Create is a mock implementation of store.CommentStore.Create
func (m *CommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

// ListByTask is a mock implementation of store.CommentStore.ListByTask
func (m *CommentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	args := m.Called(ctx, taskID)
	comments, _ := args.Get(0).([]*domain.Comment)
	return comments, args.Error(1)
}
