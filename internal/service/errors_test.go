package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *domain.Error
	}{
		{name: "user not found", err: store.ErrUserNotFound, want: domain.ErrUserNotFound},
		{name: "team not found", err: store.ErrTeamNotFound, want: domain.ErrTeamNotFound},
		{name: "no membership", err: store.ErrMembershipNotFound, want: domain.ErrNotTeamMember},
		{name: "task not found", err: fmt.Errorf("load: %w", store.ErrTaskNotFound), want: domain.ErrTaskNotFound},
		{name: "login id taken", err: store.ErrLoginIDExists, want: domain.ErrDuplicateLoginID},
		{name: "nickname taken", err: store.ErrNicknameExists, want: domain.ErrDuplicateNickname},
		{name: "membership exists", err: store.ErrMembershipExists, want: domain.ErrAlreadyTeamMember},
		{name: "version conflict", err: store.ErrVersionConflict, want: domain.ErrVersionConflict},
		{name: "invalid entity", err: store.ErrInvalidEntity, want: domain.ErrInvalidInput},
		{name: "generic not found", err: store.ErrNotFound, want: domain.ErrInternal},
		{name: "transaction", err: store.ErrTransactionFailed, want: domain.ErrInternal},
		{name: "unclassified", err: errors.New("boom"), want: domain.ErrInternal},
		{name: "already domain", err: domain.NewValidationError("title", "cannot be blank", nil), want: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.Equal(t, tt.want.Code, domain.CodeOf(got))
			assert.ErrorIs(t, got, tt.err, "original cause stays in the chain")
		})
	}

	assert.NoError(t, translate(nil))
}

func TestServiceError(t *testing.T) {
	err := NewServiceError("update_task", "failed to save task", store.ErrVersionConflict)

	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.ErrorIs(t, err, store.ErrVersionConflict)
	assert.Contains(t, err.Error(), "update_task failed: failed to save task")
}
