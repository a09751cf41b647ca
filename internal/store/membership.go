package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
)

// MembershipStore persists (user, team, role) facts. Rows are append-only.
type MembershipStore interface {
	// Exists reports whether userID is a member of teamID.
	Exists(ctx context.Context, userID, teamID uuid.UUID) (bool, error)

	// Get returns the membership of userID in teamID.
	// Returns ErrMembershipNotFound if there is none.
	Get(ctx context.Context, userID, teamID uuid.UUID) (*domain.TeamMember, error)

	// Insert adds a membership. Returns ErrMembershipExists if the pair
	// already has one; the check and the insert are atomic.
	Insert(ctx context.Context, member *domain.TeamMember) error

	// ListByTeam returns the members of teamID joined with their account
	// data, in join order.
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]domain.MemberInfo, error)

	// ListByUser returns every team userID belongs to together with the
	// user's role, in join order.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TeamWithRole, error)
}
