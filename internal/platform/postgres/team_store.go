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

// PostgresTeamStore implements the store.TeamStore interface.
type PostgresTeamStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTeamStore creates a new PostgreSQL implementation of the TeamStore interface.
// db may be the pool or an open transaction; CreateWithLeader opens its own
// transaction only in the first case.
func NewPostgresTeamStore(db store.DBTX, logger *slog.Logger) *PostgresTeamStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTeamStore{
		db:     db,
		logger: logger.With(slog.String("component", "team_store")),
	}
}

// Ensure PostgresTeamStore implements store.TeamStore interface
var _ store.TeamStore = (*PostgresTeamStore)(nil)

// CreateWithLeader implements store.TeamStore.CreateWithLeader.
func (s *PostgresTeamStore) CreateWithLeader(
	ctx context.Context,
	team *domain.Team,
	leader *domain.TeamMember,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := team.Validate(); err != nil {
		return err
	}
	if leader.TeamID != team.ID || leader.Role != domain.TeamRoleLeader {
		return fmt.Errorf("%w: founding membership must be the team's LEADER", store.ErrInvalidEntity)
	}

	err := store.WithinTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			INSERT INTO teams (id, name, description, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query,
			team.ID, team.Name, team.Description, team.CreatedAt, team.UpdatedAt); err != nil {
			return store.NewStoreError("team", "create", "failed to insert team", MapError(err))
		}

		return NewPostgresMembershipStore(tx, s.logger).Insert(ctx, leader)
	})
	if err != nil {
		log.Error("failed to create team with leader",
			slog.String("error", err.Error()),
			slog.String("team_id", team.ID.String()),
			slog.String("leader_id", leader.UserID.String()))
		return err
	}

	log.Info("team created successfully",
		slog.String("team_id", team.ID.String()),
		slog.String("leader_id", leader.UserID.String()))
	return nil
}

// GetByID implements store.TeamStore.GetByID.
func (s *PostgresTeamStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, description, created_at, updated_at
		FROM teams
		WHERE id = $1
	`

	var team domain.Team
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("team not found", slog.String("team_id", id.String()))
			return nil, store.ErrTeamNotFound
		}
		log.Error("failed to get team by ID",
			slog.String("error", err.Error()),
			slog.String("team_id", id.String()))
		return nil, store.NewStoreError("team", "get", "failed to query team", err)
	}

	return &team, nil
}
