package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface. Concurrent
// writers are serialized by the version column: every UPDATE is guarded by
// "version = expected" and bumps it by one.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = `id, team_id, worker_id, parent_id, title, content, status, priority,
	deadline, version, deleted_at, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task      domain.Task
		workerID  uuid.NullUUID
		parentID  uuid.NullUUID
		status    string
		priority  string
		deadline  sql.NullTime
		deletedAt sql.NullTime
	)
	err := row.Scan(
		&task.ID,
		&task.TeamID,
		&workerID,
		&parentID,
		&task.Title,
		&task.Content,
		&status,
		&priority,
		&deadline,
		&task.Version,
		&deletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	if workerID.Valid {
		id := workerID.UUID
		task.WorkerID = &id
	}
	if parentID.Valid {
		id := parentID.UUID
		task.ParentID = &id
	}
	if deadline.Valid {
		d := deadline.Time.UTC()
		task.Deadline = &d
	}
	if deletedAt.Valid {
		d := deletedAt.Time.UTC()
		task.DeletedAt = &d
	}
	return &task, nil
}

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, team_id, worker_id, parent_id, title, content, status, priority,
			deadline, version, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.TeamID,
		task.WorkerID,
		task.ParentID,
		task.Title,
		task.Content,
		string(task.Status),
		string(task.Priority),
		task.Deadline,
		task.Version,
		task.DeletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()),
				slog.String("team_id", task.TeamID.String()))
			return fmt.Errorf("%w: referenced team, worker or parent does not exist (%s)",
				store.ErrInvalidEntity, constraintName(err))
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("team_id", task.TeamID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.String("task_id", id.String()),
				slog.Bool("include_deleted", includeDeleted))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "get", "failed to query task", err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update.
// The team, parent and creation time of a task are immutable and not written.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task, expectedVersion int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET worker_id = $2, title = $3, content = $4, status = $5, priority = $6,
			deadline = $7, version = version + 1, updated_at = $8
		WHERE id = $1 AND version = $9 AND deleted_at IS NULL
		RETURNING version, updated_at
	`
	var version int64
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, query,
		task.ID,
		task.WorkerID,
		task.Title,
		task.Content,
		string(task.Status),
		string(task.Priority),
		task.Deadline,
		time.Now().UTC(),
		expectedVersion,
	).Scan(&version, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.explainMiss(ctx, task.ID, expectedVersion)
		}
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: worker %v does not exist", store.ErrInvalidEntity, task.WorkerID)
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}

	task.Version = version
	task.UpdatedAt = updatedAt.UTC()

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.Int64("version", version))
	return nil
}

// SoftDelete implements store.TaskStore.SoftDelete.
func (s *PostgresTaskStore) SoftDelete(
	ctx context.Context,
	id uuid.UUID,
	deletedAt time.Time,
	expectedVersion *int64,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var want sql.NullInt64
	if expectedVersion != nil {
		want = sql.NullInt64{Int64: *expectedVersion, Valid: true}
	}

	query := `
		UPDATE tasks
		SET deleted_at = $2, updated_at = $2, version = version + 1
		WHERE id = $1 AND deleted_at IS NULL AND ($3::BIGINT IS NULL OR version = $3)
		RETURNING ` + taskColumns

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, deletedAt.UTC(), want))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var v int64
			if expectedVersion != nil {
				v = *expectedVersion
			}
			return nil, s.explainMiss(ctx, id, v)
		}
		log.Error("failed to soft delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, store.NewStoreError("task", "delete", "failed to mark task deleted", err)
	}

	log.Info("task soft deleted",
		slog.String("task_id", id.String()),
		slog.Int64("version", task.Version))
	return task, nil
}

// explainMiss decides why a guarded write matched no row: the task is gone
// or deleted (ErrTaskNotFound) or its version moved on (ErrVersionConflict).
func (s *PostgresTaskStore) explainMiss(ctx context.Context, id uuid.UUID, expectedVersion int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var version int64
	var deleted bool
	err := s.db.QueryRowContext(ctx,
		`SELECT version, deleted_at IS NOT NULL FROM tasks WHERE id = $1`, id,
	).Scan(&version, &deleted)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && deleted) {
		log.Debug("guarded write found no live task", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}
	if err != nil {
		return store.NewStoreError("task", "update", "failed to re-read task", err)
	}

	log.Debug("version conflict on task write",
		slog.String("task_id", id.String()),
		slog.Int64("expected_version", expectedVersion),
		slog.Int64("stored_version", version))
	return store.ErrVersionConflict
}

// ListByTeam implements store.TaskStore.ListByTeam.
func (s *PostgresTaskStore) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*domain.Task, error) {
	return s.list(ctx, "team_id", teamID)
}

// ListByWorker implements store.TaskStore.ListByWorker.
func (s *PostgresTaskStore) ListByWorker(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return s.list(ctx, "worker_id", userID)
}

// ListByParent implements store.TaskStore.ListByParent.
func (s *PostgresTaskStore) ListByParent(ctx context.Context, parentID uuid.UUID) ([]*domain.Task, error) {
	return s.list(ctx, "parent_id", parentID)
}

// list returns live tasks whose column equals id. column is one of a fixed
// set of identifiers chosen by the callers above, never user input.
func (s *PostgresTaskStore) list(ctx context.Context, column string, id uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + column +
		` = $1 AND deleted_at IS NULL ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("filter", column),
			slog.String("id", id.String()))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", err)
	}
	defer closeRows(rows, log)

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "failed to scan task", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "failed to iterate tasks", err)
	}

	return tasks, nil
}
