package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/mocks"
	"github.com/phrazzld/cowork-api/internal/platform/memory"
	"github.com/phrazzld/cowork-api/internal/service"
	"github.com/phrazzld/cowork-api/internal/store"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires every service over one in-memory arena.
type fixture struct {
	db         *memory.DB
	membership service.MembershipService
	users      service.UserService
	teams      service.TeamService
	tasks      service.TaskService
	comments   service.CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithTasks(t, nil)
}

// newFixtureWithTasks lets a test wrap the task store, for example to
// interleave a competing write.
func newFixtureWithTasks(t *testing.T, wrap func(store.TaskStore) store.TaskStore) *fixture {
	t.Helper()
	log := quietLogger()
	db := memory.New(log)

	var tasks store.TaskStore = db.Tasks()
	if wrap != nil {
		tasks = wrap(tasks)
	}

	membership := service.NewMembershipService(db.Memberships(), log)
	return &fixture{
		db:         db,
		membership: membership,
		users:      service.NewUserService(db.Users(), &mocks.MockPasswordHasher{}, log),
		teams:      service.NewTeamService(db.Teams(), db.Users(), db.Memberships(), membership, log),
		tasks:      service.NewTaskService(tasks, db.Teams(), db.Users(), membership, log),
		comments:   service.NewCommentService(db.Comments(), tasks, db.Users(), membership, log),
	}
}

func (f *fixture) register(t *testing.T, loginID, nickname string) *domain.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), loginID, "secret-pass", nickname)
	require.NoError(t, err)
	return u
}

func (f *fixture) newTeam(t *testing.T, leader *domain.User, name string) uuid.UUID {
	t.Helper()
	team, err := f.teams.CreateTeam(context.Background(), leader.ID, name, "")
	require.NoError(t, err)
	return team.Team.ID
}

func (f *fixture) invite(t *testing.T, inviter *domain.User, teamID uuid.UUID, invitee *domain.User) {
	t.Helper()
	_, err := f.teams.Invite(context.Background(), inviter.ID, teamID, invitee.LoginID)
	require.NoError(t, err)
}

func (f *fixture) newTask(t *testing.T, caller *domain.User, teamID uuid.UUID, title string) *service.TaskDetails {
	t.Helper()
	task, err := f.tasks.Create(context.Background(), caller.ID, teamID, service.CreateTaskInput{Title: title})
	require.NoError(t, err)
	return task
}

func ptr[T any](v T) *T {
	return &v
}
