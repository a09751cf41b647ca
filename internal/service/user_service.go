package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/service/auth"
	"github.com/phrazzld/cowork-api/internal/store"
)

// PasswordService hashes new passwords and verifies presented ones.
type PasswordService interface {
	auth.PasswordHasher
	auth.PasswordVerifier
}

// UserService provides account registration and sign-in
type UserService interface {
	// Register creates an account. The login id and the nickname must both
	// be unused.
	Register(ctx context.Context, loginID, password, nickname string) (*domain.User, error)

	// Authenticate returns the account of loginID if password matches it.
	Authenticate(ctx context.Context, loginID, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	users     store.UserStore
	passwords PasswordService
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users store.UserStore, passwords PasswordService, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		users:     users,
		passwords: passwords,
		logger:    logger.With("component", "user_service"),
	}
}

// Register implements UserService.
func (s *UserServiceImpl) Register(ctx context.Context, loginID, password, nickname string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(loginID, password, nickname)
	if err != nil {
		log.Debug("rejected registration", "error", err, "login_id", loginID)
		return nil, err
	}

	taken, err := s.users.ExistsByLoginID(ctx, user.LoginID)
	if err != nil {
		return nil, NewServiceError("register", "failed to check login id", err)
	}
	if taken {
		return nil, domain.ErrDuplicateLoginID
	}

	taken, err = s.users.ExistsByNickname(ctx, user.Nickname)
	if err != nil {
		return nil, NewServiceError("register", "failed to check nickname", err)
	}
	if taken {
		return nil, domain.ErrDuplicateNickname
	}

	hash, err := s.passwords.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, NewServiceError("register", "failed to hash password", err)
	}
	user.PasswordHash = hash
	user.Password = ""

	// The unique constraints still reject a racing registration that passed
	// the checks above.
	if err := s.users.Create(ctx, user); err != nil {
		if isInternal(err) {
			log.Error("failed to save user", "error", err, "login_id", user.LoginID)
		}
		return nil, NewServiceError("register", "failed to save user", err)
	}

	log.Info("user registered", "user_id", user.ID, "login_id", user.LoginID)
	return user, nil
}

// Authenticate implements UserService.
func (s *UserServiceImpl) Authenticate(ctx context.Context, loginID, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByLoginID(ctx, loginID)
	if err != nil {
		if isInternal(err) {
			log.Error("failed to load user", "error", err, "login_id", loginID)
		}
		return nil, NewServiceError("authenticate", "failed to load user", err)
	}

	if err := s.passwords.Compare(user.PasswordHash, password); err != nil {
		log.Debug("password mismatch", "user_id", user.ID)
		return nil, domain.ErrInvalidPassword
	}

	return user, nil
}

// GetUser implements UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isInternal(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, NewServiceError("get_user", "failed to retrieve user", err)
	}
	return user, nil
}
