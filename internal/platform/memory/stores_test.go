package memory_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/platform/memory"
	"github.com/phrazzld/cowork-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addUser(t *testing.T, db *memory.DB, loginID, nickname string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(loginID, "secret-pass", nickname)
	require.NoError(t, err)
	u.PasswordHash = "hash"
	require.NoError(t, db.Users().Create(context.Background(), u))
	return u
}

func addTeam(t *testing.T, db *memory.DB, leader *domain.User) *domain.Team {
	t.Helper()
	team, err := domain.NewTeam("alpha", "")
	require.NoError(t, err)
	m, err := domain.NewTeamMember(team.ID, leader.ID, domain.TeamRoleLeader)
	require.NoError(t, err)
	require.NoError(t, db.Teams().CreateWithLeader(context.Background(), team, m))
	return team
}

func addTask(t *testing.T, db *memory.DB, teamID uuid.UUID, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(domain.NewTaskParams{TeamID: teamID, Title: title})
	require.NoError(t, err)
	require.NoError(t, db.Tasks().Create(context.Background(), task))
	return task
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	db := memory.New(nil)
	alice := addUser(t, db, "alice01", "Alice")

	got, err := db.Users().GetByLoginID(ctx, "alice01")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Empty(t, got.Password, "plaintext is never stored")

	dupLogin, err := domain.NewUser("alice01", "secret-pass", "Other")
	require.NoError(t, err)
	dupLogin.PasswordHash = "hash"
	assert.ErrorIs(t, db.Users().Create(ctx, dupLogin), store.ErrLoginIDExists)

	dupNick, err := domain.NewUser("alice02", "secret-pass", "Alice")
	require.NoError(t, err)
	dupNick.PasswordHash = "hash"
	assert.ErrorIs(t, db.Users().Create(ctx, dupNick), store.ErrNicknameExists)

	_, err = db.Users().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestMembershipStore(t *testing.T) {
	ctx := context.Background()
	db := memory.New(nil)
	leader := addUser(t, db, "leader1", "Leader")
	member := addUser(t, db, "member1", "Member")
	team := addTeam(t, db, leader)

	m, err := domain.NewTeamMember(team.ID, member.ID, domain.TeamRoleMember)
	require.NoError(t, err)
	require.NoError(t, db.Memberships().Insert(ctx, m))

	again, err := domain.NewTeamMember(team.ID, member.ID, domain.TeamRoleMember)
	require.NoError(t, err)
	assert.ErrorIs(t, db.Memberships().Insert(ctx, again), store.ErrMembershipExists)

	members, err := db.Memberships().ListByTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, domain.TeamRoleLeader, members[0].Role)
	assert.Equal(t, "member1", members[1].LoginID)

	teams, err := db.Memberships().ListByUser(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, team.Name, teams[0].Team.Name)

	ok, err := db.Memberships().Exists(ctx, uuid.New(), team.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMembershipStore_ConcurrentInsertKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	db := memory.New(nil)
	leader := addUser(t, db, "leader1", "Leader")
	member := addUser(t, db, "member1", "Member")
	team := addTeam(t, db, leader)

	var wg sync.WaitGroup
	var inserted atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := domain.NewTeamMember(team.ID, member.ID, domain.TeamRoleMember)
			if err != nil {
				return
			}
			if db.Memberships().Insert(ctx, m) == nil {
				inserted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), inserted.Load())
	members, err := db.Memberships().ListByTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestTaskStore_VersionedWrites(t *testing.T) {
	ctx := context.Background()
	db := memory.New(nil)
	leader := addUser(t, db, "leader1", "Leader")
	team := addTeam(t, db, leader)
	task := addTask(t, db, team.ID, "draft")

	got, err := db.Tasks().GetByID(ctx, task.ID, false)
	require.NoError(t, err)
	got.Title = "final"
	require.NoError(t, db.Tasks().Update(ctx, got, 0))
	assert.Equal(t, int64(1), got.Version)

	stale, err := db.Tasks().GetByID(ctx, task.ID, false)
	require.NoError(t, err)
	stale.Title = "lost"
	assert.ErrorIs(t, db.Tasks().Update(ctx, stale, 0), store.ErrVersionConflict)

	stored, err := db.Tasks().GetByID(ctx, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "final", stored.Title)
	assert.Equal(t, int64(1), stored.Version)

	wrong := int64(7)
	_, err = db.Tasks().SoftDelete(ctx, task.ID, time.Now(), &wrong)
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	deleted, err := db.Tasks().SoftDelete(ctx, task.ID, time.Now(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted.Version)
	assert.True(t, deleted.IsDeleted())

	_, err = db.Tasks().GetByID(ctx, task.ID, false)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.ErrorIs(t, db.Tasks().Update(ctx, stored, 1), store.ErrTaskNotFound)

	marked, err := db.Tasks().GetByID(ctx, task.ID, true)
	require.NoError(t, err)
	assert.True(t, marked.IsDeleted())
}

func TestTaskStore_ConcurrentUpdatesSerialize(t *testing.T) {
	ctx := context.Background()
	db := memory.New(nil)
	leader := addUser(t, db, "leader1", "Leader")
	team := addTeam(t, db, leader)
	task := addTask(t, db, team.ID, "contended")

	var wg sync.WaitGroup
	var wins atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mine, err := db.Tasks().GetByID(ctx, task.ID, false)
			if err != nil {
				return
			}
			mine.Title = "winner"
			if db.Tasks().Update(ctx, mine, 0) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	got, err := db.Tasks().GetByID(ctx, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
}

func TestTaskStore_ListsExcludeDeletedAndOrderByCreation(t *testing.T) {
	ctx := context.Background()
	db := memory.New(nil)
	leader := addUser(t, db, "leader1", "Leader")
	team := addTeam(t, db, leader)

	first := addTask(t, db, team.ID, "first")
	second, err := domain.NewTask(domain.NewTaskParams{
		TeamID:   team.ID,
		WorkerID: &leader.ID,
		ParentID: &first.ID,
		Title:    "second",
	})
	require.NoError(t, err)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, db.Tasks().Create(ctx, second))
	gone := addTask(t, db, team.ID, "gone")
	_, err = db.Tasks().SoftDelete(ctx, gone.ID, time.Now(), nil)
	require.NoError(t, err)

	byTeam, err := db.Tasks().ListByTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, byTeam, 2)
	assert.Equal(t, first.ID, byTeam[0].ID)
	assert.Equal(t, second.ID, byTeam[1].ID)

	mine, err := db.Tasks().ListByWorker(ctx, leader.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, second.ID, mine[0].ID)

	children, err := db.Tasks().ListByParent(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)

	_, err = db.Tasks().SoftDelete(ctx, second.ID, time.Now(), nil)
	require.NoError(t, err)
	children, err = db.Tasks().ListByParent(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestTaskStore_ReturnedTasksAreCopies(t *testing.T) {
	ctx := context.Background()
	db := memory.New(nil)
	leader := addUser(t, db, "leader1", "Leader")
	team := addTeam(t, db, leader)
	task := addTask(t, db, team.ID, "original")

	got, err := db.Tasks().GetByID(ctx, task.ID, false)
	require.NoError(t, err)
	got.Title = "mutated"
	task.Title = "mutated too"

	again, err := db.Tasks().GetByID(ctx, task.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Title)
}

func TestTaskStore_CreateChecksReferences(t *testing.T) {
	ctx := context.Background()
	db := memory.New(nil)

	task, err := domain.NewTask(domain.NewTaskParams{TeamID: uuid.New(), Title: "orphan"})
	require.NoError(t, err)
	assert.ErrorIs(t, db.Tasks().Create(ctx, task), store.ErrInvalidEntity)
}

func TestCommentStore_OrderIsStableForEqualTimestamps(t *testing.T) {
	ctx := context.Background()
	db := memory.New(nil)
	writer := addUser(t, db, "writer1", "Writer")
	team := addTeam(t, db, writer)
	task := addTask(t, db, team.ID, "talk")

	at := time.Now().UTC()
	later, err := domain.NewComment(task.ID, writer.ID, "later")
	require.NoError(t, err)
	later.CreatedAt = at.Add(time.Minute)
	require.NoError(t, db.Comments().Create(ctx, later))

	for _, text := range []string{"a", "b", "c"} {
		c, err := domain.NewComment(task.ID, writer.ID, text)
		require.NoError(t, err)
		c.CreatedAt = at
		require.NoError(t, db.Comments().Create(ctx, c))
	}

	list, err := db.Comments().ListByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "a", list[0].Content)
	assert.Equal(t, "b", list[1].Content)
	assert.Equal(t, "c", list[2].Content)
	assert.Equal(t, "later", list[3].Content)
}
