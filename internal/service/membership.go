package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/store"
)

// MembershipService authorizes team-scoped operations. Every task and
// comment operation goes through RequireMember before touching task data.
type MembershipService interface {
	// IsMember reports whether userID belongs to teamID.
	IsMember(ctx context.Context, userID, teamID uuid.UUID) (bool, error)

	// RequireMember returns domain.ErrNotTeamMember unless userID belongs
	// to teamID.
	RequireMember(ctx context.Context, userID, teamID uuid.UUID) error

	// MembersOf lists the members of teamID in join order.
	MembersOf(ctx context.Context, teamID uuid.UUID) ([]domain.MemberInfo, error)

	// AddMember adds userID to teamID with role. It returns
	// domain.ErrAlreadyTeamMember if the pair already has a membership.
	AddMember(ctx context.Context, teamID, userID uuid.UUID, role domain.TeamRole) (*domain.TeamMember, error)
}

// MembershipServiceImpl implements the MembershipService interface
type MembershipServiceImpl struct {
	members store.MembershipStore
	logger  *slog.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(members store.MembershipStore, logger *slog.Logger) MembershipService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MembershipServiceImpl{
		members: members,
		logger:  logger.With("component", "membership_service"),
	}
}

// IsMember implements MembershipService.
func (s *MembershipServiceImpl) IsMember(ctx context.Context, userID, teamID uuid.UUID) (bool, error) {
	ok, err := s.members.Exists(ctx, userID, teamID)
	if err != nil {
		return false, NewServiceError("is_member", "failed to check membership", err)
	}
	return ok, nil
}

// RequireMember implements MembershipService.
func (s *MembershipServiceImpl) RequireMember(ctx context.Context, userID, teamID uuid.UUID) error {
	ok, err := s.IsMember(ctx, userID, teamID)
	if err != nil {
		return err
	}
	if !ok {
		logger.FromContextOrDefault(ctx, s.logger).Debug("rejected non-member",
			"user_id", userID,
			"team_id", teamID)
		return domain.ErrNotTeamMember
	}
	return nil
}

// MembersOf implements MembershipService.
func (s *MembershipServiceImpl) MembersOf(ctx context.Context, teamID uuid.UUID) ([]domain.MemberInfo, error) {
	members, err := s.members.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, NewServiceError("list_members", "failed to list team members", err)
	}
	return members, nil
}

// AddMember implements MembershipService.
func (s *MembershipServiceImpl) AddMember(
	ctx context.Context,
	teamID, userID uuid.UUID,
	role domain.TeamRole,
) (*domain.TeamMember, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	member, err := domain.NewTeamMember(teamID, userID, role)
	if err != nil {
		return nil, err
	}

	// The store checks the pair and inserts atomically; a concurrent invite
	// of the same user loses here rather than creating a second row.
	if err := s.members.Insert(ctx, member); err != nil {
		if isInternal(err) {
			log.Error("failed to insert membership",
				"error", err,
				"team_id", teamID,
				"user_id", userID)
		}
		return nil, NewServiceError("add_member", "failed to add team member", err)
	}

	log.Info("added team member",
		"team_id", teamID,
		"user_id", userID,
		"role", role)
	return member, nil
}
