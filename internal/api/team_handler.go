package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/cowork-api/internal/api/shared"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/service"
)

// TeamHandler handles team and membership requests.
type TeamHandler struct {
	teamService service.TeamService
	logger      *slog.Logger
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(teamService service.TeamService, logger *slog.Logger) *TeamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamHandler{
		teamService: teamService,
		logger:      logger.With(slog.String("component", "team_handler")),
	}
}

// CreateTeam handles POST /teams. The caller becomes the team's leader.
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateTeamRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("team created", slog.String("team_id", team.Team.ID.String()))
	shared.RespondWithData(w, r, http.StatusCreated, "team created", teamToResponse(team))
}

// ListMyTeams handles GET /teams
func (h *TeamHandler) ListMyTeams(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	teams, err := h.teamService.ListMyTeams(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	out := make([]TeamResponse, 0, len(teams))
	for i := range teams {
		out = append(out, teamToResponse(&teams[i]))
	}
	shared.RespondWithData(w, r, http.StatusOK, "", out)
}

// GetTeam handles GET /teams/{teamID}
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := handleUserIDAndPathUUID(w, r, "teamID", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	team, err := h.teamService.GetTeam(r.Context(), userID, teamID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", teamToResponse(team))
}

// Invite handles POST /teams/{teamID}/invite. Any member may invite.
func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, teamID, ok := handleUserIDAndPathUUID(w, r, "teamID", log)
	if !ok {
		return
	}

	var req InviteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	member, err := h.teamService.Invite(r.Context(), userID, teamID, req.LoginID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("member invited",
		slog.String("team_id", teamID.String()),
		slog.String("invitee_id", member.UserID.String()))
	shared.RespondWithData(w, r, http.StatusCreated, "member invited", memberToResponse(member))
}

// ListMembers handles GET /teams/{teamID}/members
func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := handleUserIDAndPathUUID(w, r, "teamID", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	members, err := h.teamService.ListMembers(r.Context(), userID, teamID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	out := make([]MemberResponse, 0, len(members))
	for i := range members {
		out = append(out, memberToResponse(&members[i]))
	}
	shared.RespondWithData(w, r, http.StatusOK, "", out)
}
