package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TeamRole is a member's role within one team.
type TeamRole string

// Possible team roles
const (
	TeamRoleLeader TeamRole = "LEADER"
	TeamRoleMember TeamRole = "MEMBER"
)

// IsValid reports whether r is a known team role.
func (r TeamRole) IsValid() bool {
	return r == TeamRoleLeader || r == TeamRoleMember
}

// Field limits for teams.
const (
	TeamNameMinLength        = 2
	TeamNameMaxLength        = 100
	TeamDescriptionMaxLength = 500
)

// Team groups users and owns tasks.
type Team struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Timestamps
}

// NewTeam creates a new Team with a fresh id.
func NewTeam(name, description string) (*Team, error) {
	team := &Team{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: description,
		Timestamps:  NewTimestamps(time.Now()),
	}

	if err := team.Validate(); err != nil {
		return nil, err
	}

	return team, nil
}

// Validate checks if the Team has valid data.
func (t *Team) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", nil)
	}
	if n := utf8.RuneCountInString(t.Name); n < TeamNameMinLength || n > TeamNameMaxLength {
		return NewValidationError("name", "must be between 2 and 100 characters", nil)
	}
	if utf8.RuneCountInString(t.Description) > TeamDescriptionMaxLength {
		return NewValidationError("description", "must be at most 500 characters", nil)
	}
	return nil
}

// TeamMember is the membership fact (user, team, role). At most one exists
// per (user, team) pair and it never changes role.
type TeamMember struct {
	ID       uuid.UUID `json:"id"`
	TeamID   uuid.UUID `json:"team_id"`
	UserID   uuid.UUID `json:"user_id"`
	Role     TeamRole  `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// NewTeamMember creates a membership row for userID in teamID.
func NewTeamMember(teamID, userID uuid.UUID, role TeamRole) (*TeamMember, error) {
	m := &TeamMember{
		ID:       uuid.New(),
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks if the TeamMember has valid data.
func (m *TeamMember) Validate() error {
	if m.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", nil)
	}
	if m.TeamID == uuid.Nil {
		return NewValidationError("team_id", "cannot be empty", nil)
	}
	if m.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", nil)
	}
	if !m.Role.IsValid() {
		return NewValidationError("role", "must be LEADER or MEMBER", nil)
	}
	return nil
}

// MemberInfo is a membership joined with the member's account data.
type MemberInfo struct {
	MembershipID uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	LoginID      string    `json:"login_id"`
	Nickname     string    `json:"nickname"`
	Role         TeamRole  `json:"role"`
	JoinedAt     time.Time `json:"joined_at"`
}

// TeamWithRole is a team as seen by one of its members.
type TeamWithRole struct {
	Team   *Team
	MyRole TeamRole
}
