package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/store"
)

// TeamService manages teams and their membership
type TeamService interface {
	// CreateTeam creates a team founded by caller, who becomes its leader.
	CreateTeam(ctx context.Context, caller uuid.UUID, name, description string) (*domain.TeamWithRole, error)

	// ListMyTeams lists every team caller belongs to with caller's role.
	ListMyTeams(ctx context.Context, caller uuid.UUID) ([]domain.TeamWithRole, error)

	// GetTeam returns a team caller belongs to.
	GetTeam(ctx context.Context, caller, teamID uuid.UUID) (*domain.TeamWithRole, error)

	// Invite adds the user with inviteeLoginID to the team as a member.
	Invite(ctx context.Context, caller, teamID uuid.UUID, inviteeLoginID string) (*domain.MemberInfo, error)

	// ListMembers lists the members of a team caller belongs to.
	ListMembers(ctx context.Context, caller, teamID uuid.UUID) ([]domain.MemberInfo, error)
}

// TeamServiceImpl implements the TeamService interface
type TeamServiceImpl struct {
	teams      store.TeamStore
	users      store.UserStore
	membership MembershipService
	members    store.MembershipStore
	logger     *slog.Logger
}

// NewTeamService creates a new TeamService
func NewTeamService(
	teams store.TeamStore,
	users store.UserStore,
	members store.MembershipStore,
	membership MembershipService,
	logger *slog.Logger,
) TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamServiceImpl{
		teams:      teams,
		users:      users,
		members:    members,
		membership: membership,
		logger:     logger.With("component", "team_service"),
	}
}

// CreateTeam implements TeamService.
func (s *TeamServiceImpl) CreateTeam(
	ctx context.Context,
	caller uuid.UUID,
	name, description string,
) (*domain.TeamWithRole, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.users.GetByID(ctx, caller); err != nil {
		return nil, NewServiceError("create_team", "failed to resolve caller", err)
	}

	team, err := domain.NewTeam(name, description)
	if err != nil {
		return nil, err
	}
	leader, err := domain.NewTeamMember(team.ID, caller, domain.TeamRoleLeader)
	if err != nil {
		return nil, err
	}

	if err := s.teams.CreateWithLeader(ctx, team, leader); err != nil {
		log.Error("failed to create team", "error", err, "user_id", caller)
		return nil, NewServiceError("create_team", "failed to save team", err)
	}

	log.Info("team created", "team_id", team.ID, "user_id", caller)
	return &domain.TeamWithRole{Team: team, MyRole: domain.TeamRoleLeader}, nil
}

// ListMyTeams implements TeamService.
func (s *TeamServiceImpl) ListMyTeams(ctx context.Context, caller uuid.UUID) ([]domain.TeamWithRole, error) {
	if _, err := s.users.GetByID(ctx, caller); err != nil {
		return nil, NewServiceError("list_teams", "failed to resolve caller", err)
	}

	teams, err := s.members.ListByUser(ctx, caller)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list teams",
			"error", err,
			"user_id", caller)
		return nil, NewServiceError("list_teams", "failed to list teams", err)
	}
	return teams, nil
}

// GetTeam implements TeamService.
func (s *TeamServiceImpl) GetTeam(ctx context.Context, caller, teamID uuid.UUID) (*domain.TeamWithRole, error) {
	team, err := s.memberTeam(ctx, "get_team", caller, teamID)
	if err != nil {
		return nil, err
	}

	m, err := s.members.Get(ctx, caller, teamID)
	if err != nil {
		return nil, NewServiceError("get_team", "failed to load membership", err)
	}
	return &domain.TeamWithRole{Team: team, MyRole: m.Role}, nil
}

// Invite implements TeamService.
func (s *TeamServiceImpl) Invite(
	ctx context.Context,
	caller, teamID uuid.UUID,
	inviteeLoginID string,
) (*domain.MemberInfo, error) {
	if _, err := s.memberTeam(ctx, "invite", caller, teamID); err != nil {
		return nil, err
	}

	invitee, err := s.users.GetByLoginID(ctx, inviteeLoginID)
	if err != nil {
		return nil, NewServiceError("invite", "failed to resolve invitee", err)
	}

	member, err := s.membership.AddMember(ctx, teamID, invitee.ID, domain.TeamRoleMember)
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user invited",
		"team_id", teamID,
		"inviter_id", caller,
		"invitee_id", invitee.ID)

	return &domain.MemberInfo{
		MembershipID: member.ID,
		UserID:       invitee.ID,
		LoginID:      invitee.LoginID,
		Nickname:     invitee.Nickname,
		Role:         member.Role,
		JoinedAt:     member.JoinedAt,
	}, nil
}

// ListMembers implements TeamService.
func (s *TeamServiceImpl) ListMembers(ctx context.Context, caller, teamID uuid.UUID) ([]domain.MemberInfo, error) {
	if _, err := s.memberTeam(ctx, "list_members", caller, teamID); err != nil {
		return nil, err
	}
	return s.membership.MembersOf(ctx, teamID)
}

// memberTeam resolves caller and teamID and requires caller's membership.
func (s *TeamServiceImpl) memberTeam(ctx context.Context, op string, caller, teamID uuid.UUID) (*domain.Team, error) {
	if _, err := s.users.GetByID(ctx, caller); err != nil {
		return nil, NewServiceError(op, "failed to resolve caller", err)
	}
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, NewServiceError(op, "failed to load team", err)
	}
	if err := s.membership.RequireMember(ctx, caller, teamID); err != nil {
		return nil, err
	}
	return team, nil
}
