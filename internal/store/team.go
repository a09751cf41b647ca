package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
)

// TeamStore defines the interface for team persistence.
type TeamStore interface {
	// CreateWithLeader inserts team and its founding membership as one
	// atomic unit: either both rows exist afterwards or neither does.
	// leader.TeamID must equal team.ID.
	CreateWithLeader(ctx context.Context, team *domain.Team, leader *domain.TeamMember) error

	// GetByID retrieves a team by id.
	// Returns ErrTeamNotFound if the team does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)
}
