package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/mocks"
	"github.com/phrazzld/cowork-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCommentService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice01", "Alice")
	bob := f.register(t, "bob00001", "Bob")
	eng := f.newTeam(t, alice, "Eng")
	f.invite(t, alice, eng, bob)
	task := f.newTask(t, alice, eng, "discuss")

	for i, writer := range []*domain.User{alice, bob, alice} {
		c, err := f.comments.Create(ctx, writer.ID, task.ID, fmt.Sprintf("C%d", i+1))
		require.NoError(t, err)
		assert.Equal(t, writer.ID, c.WriterID)
		assert.Equal(t, writer.Nickname, c.WriterNickname)
	}

	list, err := f.comments.List(ctx, bob.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C1", list[0].Content)
	assert.Equal(t, "C2", list[1].Content)
	assert.Equal(t, "bob00001", list[1].WriterLoginID)
	assert.Equal(t, "C3", list[2].Content)
}

func TestCommentService_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice01", "Alice")
	eng := f.newTeam(t, alice, "Eng")
	task := f.newTask(t, alice, eng, "discuss")

	tests := []struct {
		name    string
		caller  uuid.UUID
		taskID  uuid.UUID
		content string
		want    error
	}{
		{name: "blank content", caller: alice.ID, taskID: task.ID, content: " \t ", want: domain.ErrInvalidInput},
		{name: "unknown task", caller: alice.ID, taskID: uuid.New(), content: "hi", want: domain.ErrTaskNotFound},
		{name: "unknown caller", caller: uuid.New(), taskID: task.ID, content: "hi", want: domain.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.comments.Create(ctx, tt.caller, tt.taskID, tt.content)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	list, err := f.comments.List(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCommentService_ConcurrentWritersKeepPerWriterOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice01", "Alice")
	bob := f.register(t, "bob00001", "Bob")
	eng := f.newTeam(t, alice, "Eng")
	f.invite(t, alice, eng, bob)
	task := f.newTask(t, alice, eng, "busy")

	const perWriter = 20
	var wg sync.WaitGroup
	for _, writer := range []*domain.User{alice, bob} {
		wg.Add(1)
		go func(w *domain.User) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := f.comments.Create(ctx, w.ID, task.ID, fmt.Sprintf("%s-%02d", w.LoginID, i))
				assert.NoError(t, err)
			}
		}(writer)
	}
	wg.Wait()

	list, err := f.comments.List(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 2*perWriter)

	seen := map[uuid.UUID][]string{}
	for i, c := range list {
		if i > 0 {
			assert.False(t, c.CreatedAt.Before(list[i-1].CreatedAt), "comments are ordered by creation time")
		}
		seen[c.WriterID] = append(seen[c.WriterID], c.Content)
	}
	for _, writer := range []*domain.User{alice, bob} {
		got := seen[writer.ID]
		require.Len(t, got, perWriter)
		for i, content := range got {
			assert.Equal(t, fmt.Sprintf("%s-%02d", writer.LoginID, i), content)
		}
	}
}

func TestCommentService_StoreFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	writer := &domain.User{ID: uuid.New(), LoginID: "alice01", Nickname: "Alice"}
	task := &domain.Task{ID: uuid.New(), TeamID: uuid.New(), Title: "discuss"}

	users := new(mocks.UserStore)
	users.On("GetByID", mock.Anything, writer.ID).Return(writer, nil)
	tasks := new(mocks.TaskStore)
	tasks.On("GetByID", mock.Anything, task.ID, false).Return(task, nil)
	members := new(mocks.MembershipStore)
	members.On("Exists", mock.Anything, writer.ID, task.TeamID).Return(true, nil)
	comments := new(mocks.CommentStore)
	comments.On("Create", mock.Anything, mock.AnythingOfType("*domain.Comment")).
		Return(errors.New("connection reset"))

	svc := service.NewCommentService(comments, tasks, users, service.NewMembershipService(members, nil), quietLogger())
	_, err := svc.Create(ctx, writer.ID, task.ID, "hello")

	assert.ErrorIs(t, err, domain.ErrInternal)
	var se *service.ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create_comment", se.Operation)
	comments.AssertExpectations(t)
}
