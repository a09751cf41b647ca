package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/store"
)

// PostgresMembershipStore implements the store.MembershipStore interface
// on the team_members table.
type PostgresMembershipStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMembershipStore creates a new PostgreSQL implementation of the MembershipStore interface.
func NewPostgresMembershipStore(db store.DBTX, logger *slog.Logger) *PostgresMembershipStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMembershipStore{
		db:     db,
		logger: logger.With(slog.String("component", "membership_store")),
	}
}

// Ensure PostgresMembershipStore implements store.MembershipStore interface
var _ store.MembershipStore = (*PostgresMembershipStore)(nil)

// Exists implements store.MembershipStore.Exists.
func (s *PostgresMembershipStore) Exists(ctx context.Context, userID, teamID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT EXISTS (SELECT 1 FROM team_members WHERE user_id = $1 AND team_id = $2)`

	var found bool
	if err := s.db.QueryRowContext(ctx, query, userID, teamID).Scan(&found); err != nil {
		log.Error("failed to check membership",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("team_id", teamID.String()))
		return false, store.NewStoreError("membership", "exists", "failed to query membership", err)
	}
	return found, nil
}

// Get implements store.MembershipStore.Get.
func (s *PostgresMembershipStore) Get(ctx context.Context, userID, teamID uuid.UUID) (*domain.TeamMember, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, team_id, user_id, role, joined_at
		FROM team_members
		WHERE user_id = $1 AND team_id = $2
	`

	var m domain.TeamMember
	var role string
	err := s.db.QueryRowContext(ctx, query, userID, teamID).Scan(
		&m.ID, &m.TeamID, &m.UserID, &role, &m.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMembershipNotFound
		}
		log.Error("failed to get membership",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("team_id", teamID.String()))
		return nil, store.NewStoreError("membership", "get", "failed to query membership", err)
	}
	m.Role = domain.TeamRole(role)

	return &m, nil
}

// Insert implements store.MembershipStore.Insert.
// The unique (user_id, team_id) constraint makes the duplicate check atomic.
func (s *PostgresMembershipStore) Insert(ctx context.Context, member *domain.TeamMember) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := member.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO team_members (id, team_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		member.ID, member.TeamID, member.UserID, string(member.Role), member.JoinedAt)
	if err != nil {
		if IsUniqueViolation(err) && constraintName(err) == teamMembersUserTeamKey {
			log.Debug("membership already exists",
				slog.String("user_id", member.UserID.String()),
				slog.String("team_id", member.TeamID.String()))
			return store.ErrMembershipExists
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: team %s or user %s does not exist",
				store.ErrInvalidEntity, member.TeamID, member.UserID)
		}
		log.Error("failed to insert membership",
			slog.String("error", err.Error()),
			slog.String("user_id", member.UserID.String()),
			slog.String("team_id", member.TeamID.String()))
		return store.NewStoreError("membership", "insert", "failed to insert membership", MapError(err))
	}

	log.Info("membership created",
		slog.String("user_id", member.UserID.String()),
		slog.String("team_id", member.TeamID.String()),
		slog.String("role", string(member.Role)))
	return nil
}

// ListByTeam implements store.MembershipStore.ListByTeam.
func (s *PostgresMembershipStore) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]domain.MemberInfo, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT tm.id, u.id, u.login_id, u.nickname, tm.role, tm.joined_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at, tm.id
	`
	rows, err := s.db.QueryContext(ctx, query, teamID)
	if err != nil {
		log.Error("failed to list team members",
			slog.String("error", err.Error()),
			slog.String("team_id", teamID.String()))
		return nil, store.NewStoreError("membership", "list", "failed to query members", err)
	}
	defer closeRows(rows, log)

	members := []domain.MemberInfo{}
	for rows.Next() {
		var m domain.MemberInfo
		var role string
		if err := rows.Scan(&m.MembershipID, &m.UserID, &m.LoginID, &m.Nickname, &role, &m.JoinedAt); err != nil {
			return nil, store.NewStoreError("membership", "list", "failed to scan member", err)
		}
		m.Role = domain.TeamRole(role)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("membership", "list", "failed to iterate members", err)
	}

	return members, nil
}

// ListByUser implements store.MembershipStore.ListByUser.
func (s *PostgresMembershipStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.TeamWithRole, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT t.id, t.name, t.description, t.created_at, t.updated_at, tm.role
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		WHERE tm.user_id = $1
		ORDER BY tm.joined_at, tm.id
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list teams of user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("membership", "list", "failed to query teams", err)
	}
	defer closeRows(rows, log)

	teams := []domain.TeamWithRole{}
	for rows.Next() {
		var t domain.Team
		var role string
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt, &role); err != nil {
			return nil, store.NewStoreError("membership", "list", "failed to scan team", err)
		}
		teams = append(teams, domain.TeamWithRole{Team: &t, MyRole: domain.TeamRole(role)})
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("membership", "list", "failed to iterate teams", err)
	}

	return teams, nil
}

// closeRows closes rows and logs a close failure.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
