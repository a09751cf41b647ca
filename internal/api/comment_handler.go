package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/cowork-api/internal/api/shared"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/service"
)

// CommentHandler handles task comment requests.
type CommentHandler struct {
	commentService service.CommentService
	logger         *slog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService service.CommentService, logger *slog.Logger) *CommentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommentHandler{
		commentService: commentService,
		logger:         logger.With(slog.String("component", "comment_handler")),
	}
}

// CreateComment handles POST /tasks/{taskID}/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", log)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), userID, taskID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("comment created",
		slog.String("comment_id", comment.ID.String()),
		slog.String("task_id", taskID.String()))
	shared.RespondWithData(w, r, http.StatusCreated, "comment created", commentToResponse(comment))
}

// ListComments handles GET /tasks/{taskID}/comments. Comments are returned
// oldest first.
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	comments, err := h.commentService.List(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentToResponse(c))
	}
	shared.RespondWithData(w, r, http.StatusOK, "", out)
}
