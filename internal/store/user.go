package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The user must already carry a password hash.
	// Returns ErrLoginIDExists or ErrNicknameExists on a uniqueness violation.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByLoginID retrieves a user by login id.
	// Returns ErrUserNotFound if the user does not exist.
	GetByLoginID(ctx context.Context, loginID string) (*domain.User, error)

	// ExistsByLoginID reports whether a user with loginID exists.
	ExistsByLoginID(ctx context.Context, loginID string) (bool, error)

	// ExistsByNickname reports whether a user with nickname exists.
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
}
