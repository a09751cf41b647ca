//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/platform/postgres"
	"github.com/phrazzld/cowork-api/internal/store"
	"github.com/phrazzld/cowork-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, tx *sql.Tx, loginID, nickname string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(loginID, "secret-pass", nickname)
	require.NoError(t, err)
	user.Password = ""
	user.PasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
	require.NoError(t, postgres.NewPostgresUserStore(tx, nil).Create(context.Background(), user))
	return user
}

func createTestTeam(t *testing.T, tx *sql.Tx, leader *domain.User) *domain.Team {
	t.Helper()
	team, err := domain.NewTeam("platform", "")
	require.NoError(t, err)
	member, err := domain.NewTeamMember(team.ID, leader.ID, domain.TeamRoleLeader)
	require.NoError(t, err)
	require.NoError(t, postgres.NewPostgresTeamStore(tx, nil).CreateWithLeader(context.Background(), team, member))
	return team
}

func TestPostgresUserStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		users := postgres.NewPostgresUserStore(tx, nil)
		alice := createTestUser(t, tx, "alice01", "Alice")

		got, err := users.GetByLoginID(ctx, "alice01")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
		assert.Equal(t, alice.PasswordHash, got.PasswordHash)
		assert.Equal(t, domain.UserRoleUser, got.Role)

		exists, err := users.ExistsByNickname(ctx, "Alice")
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		users := postgres.NewPostgresUserStore(tx, nil)
		createTestUser(t, tx, "bob0001", "Bob")

		dup, err := domain.NewUser("bob0001", "secret-pass", "Robert")
		require.NoError(t, err)
		dup.PasswordHash = "hash"
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrLoginIDExists)
	})

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		users := postgres.NewPostgresUserStore(tx, nil)
		createTestUser(t, tx, "carol01", "Carol")

		dup, err := domain.NewUser("carol02", "secret-pass", "Carol")
		require.NoError(t, err)
		dup.PasswordHash = "hash"
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrNicknameExists)
	})
}

func TestPostgresTeamAndMembership_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		leader := createTestUser(t, tx, "leader1", "Leader")
		other := createTestUser(t, tx, "member1", "Member")
		team := createTestTeam(t, tx, leader)
		memberships := postgres.NewPostgresMembershipStore(tx, nil)

		m, err := memberships.Get(ctx, leader.ID, team.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TeamRoleLeader, m.Role)

		invite, err := domain.NewTeamMember(team.ID, other.ID, domain.TeamRoleMember)
		require.NoError(t, err)
		require.NoError(t, memberships.Insert(ctx, invite))

		members, err := memberships.ListByTeam(ctx, team.ID)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, "leader1", members[0].LoginID)
		assert.Equal(t, "member1", members[1].LoginID)

		teams, err := memberships.ListByUser(ctx, other.ID)
		require.NoError(t, err)
		require.Len(t, teams, 1)
		assert.Equal(t, team.ID, teams[0].Team.ID)
		assert.Equal(t, domain.TeamRoleMember, teams[0].MyRole)

		_, err = memberships.Get(ctx, uuid.New(), team.ID)
		assert.ErrorIs(t, err, store.ErrMembershipNotFound)

		// A failed statement aborts the transaction, so this comes last.
		again, err := domain.NewTeamMember(team.ID, other.ID, domain.TeamRoleMember)
		require.NoError(t, err)
		assert.ErrorIs(t, memberships.Insert(ctx, again), store.ErrMembershipExists)
	})
}

func TestPostgresTeamStore_CreateWithLeader_IsAtomic(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	team, err := domain.NewTeam("ghost team", "")
	require.NoError(t, err)
	// The leader does not exist, so the membership insert fails.
	member, err := domain.NewTeamMember(team.ID, uuid.New(), domain.TeamRoleLeader)
	require.NoError(t, err)

	teams := postgres.NewPostgresTeamStore(db, nil)
	err = teams.CreateWithLeader(ctx, team, member)
	require.ErrorIs(t, err, store.ErrInvalidEntity)

	_, err = teams.GetByID(ctx, team.ID)
	assert.ErrorIs(t, err, store.ErrTeamNotFound)
}

func TestPostgresTaskStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		leader := createTestUser(t, tx, "leader2", "Leader2")
		team := createTestTeam(t, tx, leader)
		tasks := postgres.NewPostgresTaskStore(tx, nil)

		deadline := time.Date(2024, 12, 24, 9, 0, 0, 0, time.UTC)
		task, err := domain.NewTask(domain.NewTaskParams{
			TeamID:   team.ID,
			WorkerID: &leader.ID,
			Title:    "ship it",
			Deadline: &deadline,
		})
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, task))

		got, err := tasks.GetByID(ctx, task.ID, false)
		require.NoError(t, err)
		assert.Equal(t, domain.InitialTaskVersion, got.Version)
		require.NotNil(t, got.Deadline)
		assert.True(t, domain.EndOfDay(deadline).Equal(*got.Deadline))
		assert.True(t, task.CreatedAt.Equal(got.CreatedAt))

		child, err := domain.NewTask(domain.NewTaskParams{TeamID: team.ID, ParentID: &task.ID, Title: "sub"})
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, child))

		got.Title = "ship it now"
		require.NoError(t, tasks.Update(ctx, got, 0))
		assert.Equal(t, int64(1), got.Version)

		stale := *got
		stale.Title = "lost update"
		assert.ErrorIs(t, tasks.Update(ctx, &stale, 0), store.ErrVersionConflict)

		mine, err := tasks.ListByWorker(ctx, leader.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, "ship it now", mine[0].Title)

		children, err := tasks.ListByParent(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, child.ID, children[0].ID)

		current := int64(0)
		_, err = tasks.SoftDelete(ctx, child.ID, time.Now(), &current)
		require.NoError(t, err, "child is still at version 0")

		deleted, err := tasks.SoftDelete(ctx, task.ID, time.Now(), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(2), deleted.Version)

		_, err = tasks.GetByID(ctx, task.ID, false)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		marked, err := tasks.GetByID(ctx, task.ID, true)
		require.NoError(t, err)
		assert.True(t, marked.IsDeleted())

		_, err = tasks.SoftDelete(ctx, task.ID, time.Now(), nil)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		live, err := tasks.ListByTeam(ctx, team.ID)
		require.NoError(t, err)
		assert.Empty(t, live)
	})
}

func TestPostgresCommentStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		writer := createTestUser(t, tx, "writer1", "Writer")
		team := createTestTeam(t, tx, writer)
		task, err := domain.NewTask(domain.NewTaskParams{TeamID: team.ID, Title: "discuss"})
		require.NoError(t, err)
		require.NoError(t, postgres.NewPostgresTaskStore(tx, nil).Create(ctx, task))

		comments := postgres.NewPostgresCommentStore(tx, nil)
		at := time.Now().UTC().Truncate(time.Microsecond)
		for _, text := range []string{"first", "second", "third"} {
			c, err := domain.NewComment(task.ID, writer.ID, text)
			require.NoError(t, err)
			c.CreatedAt = at
			require.NoError(t, comments.Create(ctx, c))
		}

		list, err := comments.ListByTask(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "first", list[0].Content)
		assert.Equal(t, "second", list[1].Content)
		assert.Equal(t, "third", list[2].Content)

		orphan, err := domain.NewComment(uuid.New(), writer.ID, "nobody home")
		require.NoError(t, err)
		assert.ErrorIs(t, comments.Create(ctx, orphan), store.ErrInvalidEntity)
	})
}
