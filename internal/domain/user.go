package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// UserRole is the global role of an account. It is unrelated to team roles.
type UserRole string

// Possible user roles
const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

// Field limits for user accounts.
const (
	LoginIDMinLength  = 4
	LoginIDMaxLength  = 50
	PasswordMinLength = 6
	PasswordMaxLength = 100
	NicknameMinLength = 2
	NicknameMaxLength = 50
)

// User is a registered account. LoginID is the unique handle used to sign in
// and to reference other users (for example when inviting or assigning).
type User struct {
	ID           uuid.UUID `json:"id"`
	LoginID      string    `json:"login_id"`
	Nickname     string    `json:"nickname"`
	Role         UserRole  `json:"role"`
	Password     string    `json:"-"` // Plaintext, only set while registering
	PasswordHash string    `json:"-"`
	Timestamps
}

// NewUser creates a new User with role USER. The plaintext password is kept
// on the struct for validation; the caller hashes it before storage.
func NewUser(loginID, password, nickname string) (*User, error) {
	user := &User{
		ID:         uuid.New(),
		LoginID:    strings.TrimSpace(loginID),
		Nickname:   strings.TrimSpace(nickname),
		Role:       UserRoleUser,
		Password:   password,
		Timestamps: NewTimestamps(time.Now()),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", nil)
	}

	if n := utf8.RuneCountInString(u.LoginID); n < LoginIDMinLength || n > LoginIDMaxLength {
		return NewValidationError("login_id", "must be between 4 and 50 characters", nil)
	}

	if n := utf8.RuneCountInString(u.Nickname); n < NicknameMinLength || n > NicknameMaxLength {
		return NewValidationError("nickname", "must be between 2 and 50 characters", nil)
	}

	if u.Role != UserRoleUser && u.Role != UserRoleAdmin {
		return NewValidationError("role", "is not a valid user role", nil)
	}

	// A stored user has only the hash; a registering user has only the plaintext.
	if u.Password != "" {
		if n := utf8.RuneCountInString(u.Password); n < PasswordMinLength || n > PasswordMaxLength {
			return NewValidationError("password", "must be between 6 and 100 characters", nil)
		}
	} else if u.PasswordHash == "" {
		return NewValidationError("password", "cannot be empty", nil)
	}

	return nil
}
