package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/cowork-api/internal/api"
	"github.com/phrazzld/cowork-api/internal/config"
	"github.com/phrazzld/cowork-api/internal/events"
	"github.com/phrazzld/cowork-api/internal/platform/memory"
	"github.com/phrazzld/cowork-api/internal/platform/postgres"
	"github.com/phrazzld/cowork-api/internal/service"
	"github.com/phrazzld/cowork-api/internal/service/auth"
	"github.com/phrazzld/cowork-api/internal/store"
)

// stores bundles one implementation of every store contract.
type stores struct {
	users       store.UserStore
	teams       store.TeamStore
	memberships store.MembershipStore
	tasks       store.TaskStore
	comments    store.CommentStore
}

func postgresStores(db *sql.DB, logger *slog.Logger) stores {
	return stores{
		users:       postgres.NewPostgresUserStore(db, logger),
		teams:       postgres.NewPostgresTeamStore(db, logger),
		memberships: postgres.NewPostgresMembershipStore(db, logger),
		tasks:       postgres.NewPostgresTaskStore(db, logger),
		comments:    postgres.NewPostgresCommentStore(db, logger),
	}
}

func memoryStores(logger *slog.Logger) stores {
	db := memory.New(logger)
	return stores{
		users:       db.Users(),
		teams:       db.Teams(),
		memberships: db.Memberships(),
		tasks:       db.Tasks(),
		comments:    db.Comments(),
	}
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB // nil with the memory driver

	jwtService     auth.JWTService
	userService    service.UserService
	teamService    service.TeamService
	taskService    service.TaskService
	commentService service.CommentService
}

// newApplication opens the configured storage backend, applies pending
// migrations when it is PostgreSQL and wires every service.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var st stores
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := setupAppDatabase(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		if err := postgres.RunMigrations(ctx, db, "up"); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		st = postgresStores(db, logger)
	case config.DriverMemory:
		logger.Warn("using in-memory storage; data is lost on shutdown")
		st = memoryStores(logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if err := app.wire(st); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("application initialized successfully")
	return app, nil
}

func (app *application) wire(st stores) error {
	var err error
	app.jwtService, err = auth.NewJWTService(app.config.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", app.config.Auth.TokenLifetimeMinutes)

	hasher := auth.NewBcryptHasher(app.config.Auth.BCryptCost)
	membership := service.NewMembershipService(st.memberships, app.logger)

	emitter := events.NewInMemoryEventEmitter(app.logger)
	emitter.RegisterHandler(events.NewLogHandler(app.logger))
	publish := service.WithEventEmitter(emitter)

	app.userService = service.NewUserService(st.users, hasher, app.logger)
	app.teamService = service.NewTeamService(st.teams, st.users, st.memberships, membership, app.logger)
	app.taskService = service.NewTaskService(st.tasks, st.teams, st.users, membership, app.logger, publish)
	app.commentService = service.NewCommentService(st.comments, st.tasks, st.users, membership, app.logger, publish)
	return nil
}

// router builds the HTTP handler serving every route.
func (app *application) router() http.Handler {
	return api.NewRouter(api.RouterDeps{
		Users:      app.userService,
		Teams:      app.teamService,
		Tasks:      app.taskService,
		Comments:   app.commentService,
		JWTService: app.jwtService,
		Logger:     app.logger,
	})
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.router()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
		app.db = nil
	}
	app.logger.Info("application shutdown completed")
}
