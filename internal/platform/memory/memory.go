package memory

import (
	"bytes"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
)

// DB is an in-process arena holding every entity behind a single lock.
// Rows reference each other by id only. The per-entity stores returned by
// Users, Teams, Memberships, Tasks and Comments share the arena, so a write
// through one is visible through the others at once.
type DB struct {
	mu sync.RWMutex

	users    map[uuid.UUID]domain.User
	loginIDs map[string]uuid.UUID
	nicks    map[string]uuid.UUID

	teams map[uuid.UUID]domain.Team

	// members is kept in insertion order.
	members []domain.TeamMember

	tasks map[uuid.UUID]domain.Task

	// comments is kept in insertion order.
	comments []domain.Comment

	logger *slog.Logger
}

// New creates an empty arena.
func New(logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{
		users:    make(map[uuid.UUID]domain.User),
		loginIDs: make(map[string]uuid.UUID),
		nicks:    make(map[string]uuid.UUID),
		teams:    make(map[uuid.UUID]domain.Team),
		tasks:    make(map[uuid.UUID]domain.Task),
		logger:   logger.With(slog.String("component", "memory_store")),
	}
}

// Users returns the user store backed by d.
func (d *DB) Users() *UserStore { return &UserStore{db: d} }

// Teams returns the team store backed by d.
func (d *DB) Teams() *TeamStore { return &TeamStore{db: d} }

// Memberships returns the membership store backed by d.
func (d *DB) Memberships() *MembershipStore { return &MembershipStore{db: d} }

// Tasks returns the task store backed by d.
func (d *DB) Tasks() *TaskStore { return &TaskStore{db: d} }

// Comments returns the comment store backed by d.
func (d *DB) Comments() *CommentStore { return &CommentStore{db: d} }

// findMember returns the index of the (user, team) membership or -1.
// Callers hold d.mu.
func (d *DB) findMember(userID, teamID uuid.UUID) int {
	for i := range d.members {
		if d.members[i].UserID == userID && d.members[i].TeamID == teamID {
			return i
		}
	}
	return -1
}

func cloneTask(t domain.Task) *domain.Task {
	c := t
	if t.WorkerID != nil {
		id := *t.WorkerID
		c.WorkerID = &id
	}
	if t.ParentID != nil {
		id := *t.ParentID
		c.ParentID = &id
	}
	if t.Deadline != nil {
		d := *t.Deadline
		c.Deadline = &d
	}
	if t.DeletedAt != nil {
		d := *t.DeletedAt
		c.DeletedAt = &d
	}
	return &c
}

// sortTasks orders tasks by creation time, then id.
func sortTasks(tasks []*domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})
}
