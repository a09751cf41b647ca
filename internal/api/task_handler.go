package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/cowork-api/internal/api/shared"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/service"
)

// TaskHandler handles task requests. Every route requires an
// authenticated caller; team membership is enforced by the service.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /teams/{teamID}/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, teamID, ok := handleUserIDAndPathUUID(w, r, "teamID", log)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, teamID, service.CreateTaskInput{
		Title:         req.Title,
		Content:       req.Content,
		Status:        domain.TaskStatus(req.Status),
		Priority:      domain.TaskPriority(req.Priority),
		Deadline:      req.Deadline.timePtr(),
		WorkerLoginID: req.WorkerLoginID,
		ParentID:      req.ParentID,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("team_id", teamID.String()))
	shared.RespondWithData(w, r, http.StatusCreated, "task created", taskToResponse(task))
}

// ListTeamTasks handles GET /teams/{teamID}/tasks
func (h *TaskHandler) ListTeamTasks(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := handleUserIDAndPathUUID(w, r, "teamID", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	tasks, err := h.taskService.ListByTeam(r.Context(), userID, teamID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", tasksToResponse(tasks))
}

// ListMyTasks handles GET /tasks/my
func (h *TaskHandler) ListMyTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	tasks, err := h.taskService.ListMine(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", tasksToResponse(tasks))
}

// GetTask handles GET /tasks/{taskID}
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", taskToResponse(task))
}

// ListSubtasks handles GET /tasks/{taskID}/subtasks
func (h *TaskHandler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	tasks, err := h.taskService.ListSubtasks(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "", tasksToResponse(tasks))
}

// UpdateTask handles PATCH /tasks/{taskID}. Only the fields present in the
// body are changed.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", log)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.Update(r.Context(), userID, taskID, req.patch())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("task updated",
		slog.String("task_id", task.ID.String()),
		slog.Int64("version", task.Version))
	shared.RespondWithData(w, r, http.StatusOK, "task updated", taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{taskID}. An optional ?version=N makes
// the delete conditional on the stored version.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "taskID", log)
	if !ok {
		return
	}

	version, err := getOptionalVersion(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, taskID, version); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("task deleted", slog.String("task_id", taskID.String()))
	shared.RespondWithData(w, r, http.StatusOK, "task deleted", nil)
}

func (req *UpdateTaskRequest) patch() domain.TaskPatch {
	p := domain.TaskPatch{
		Title:         req.Title,
		Content:       req.Content,
		Deadline:      req.Deadline.timePtr(),
		WorkerLoginID: req.WorkerLoginID,
		Version:       req.Version,
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		p.Status = &s
	}
	if req.Priority != nil {
		pr := domain.TaskPriority(*req.Priority)
		p.Priority = &pr
	}
	return p
}
