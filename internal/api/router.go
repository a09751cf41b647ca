package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/cowork-api/internal/api/middleware"
	"github.com/phrazzld/cowork-api/internal/api/shared"
	"github.com/phrazzld/cowork-api/internal/service"
	"github.com/phrazzld/cowork-api/internal/service/auth"
)

// RouterDeps holds everything the HTTP adapter needs.
type RouterDeps struct {
	Users      service.UserService
	Teams      service.TeamService
	Tasks      service.TaskService
	Comments   service.CommentService
	JWTService auth.JWTService
	Logger     *slog.Logger
}

// NewRouter builds the chi router serving the /api routes and /health.
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Trace(log))
	r.Use(chimiddleware.Recoverer)

	authHandler := NewAuthHandler(deps.Users, deps.JWTService, log)
	teamHandler := NewTeamHandler(deps.Teams, log)
	taskHandler := NewTaskHandler(deps.Tasks, log)
	commentHandler := NewCommentHandler(deps.Comments, log)
	authMiddleware := middleware.NewAuthMiddleware(deps.JWTService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/teams", func(r chi.Router) {
				r.Post("/", teamHandler.CreateTeam)
				r.Get("/", teamHandler.ListMyTeams)
				r.Get("/{teamID}", teamHandler.GetTeam)
				r.Post("/{teamID}/invite", teamHandler.Invite)
				r.Get("/{teamID}/members", teamHandler.ListMembers)
				r.Post("/{teamID}/tasks", taskHandler.CreateTask)
				r.Get("/{teamID}/tasks", taskHandler.ListTeamTasks)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/my", taskHandler.ListMyTasks)
				r.Get("/{taskID}", taskHandler.GetTask)
				r.Patch("/{taskID}", taskHandler.UpdateTask)
				r.Delete("/{taskID}", taskHandler.DeleteTask)
				r.Get("/{taskID}/subtasks", taskHandler.ListSubtasks)
				r.Post("/{taskID}/comments", commentHandler.CreateComment)
				r.Get("/{taskID}/comments", commentHandler.ListComments)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithData(w, r, http.StatusOK, "OK", nil)
	})

	return r
}
