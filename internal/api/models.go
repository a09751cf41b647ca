package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/service"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date encoded as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.NewValidationError("deadline", "must be a date in YYYY-MM-DD format", nil)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return domain.NewValidationError("deadline", "must be a date in YYYY-MM-DD format", nil)
	}
	d.Time = t
	return nil
}

func (d *Date) timePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func dateOf(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	return &Date{Time: t.UTC()}
}

// Request payloads

// SignupRequest defines the payload for the sign-up endpoint.
type SignupRequest struct {
	LoginID  string `json:"login_id" validate:"required,min=4,max=50"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Nickname string `json:"nickname" validate:"required,min=2,max=50"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	LoginID  string `json:"login_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateTeamRequest defines the payload for creating a team.
type CreateTeamRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// InviteRequest names the user to add to a team.
type InviteRequest struct {
	LoginID string `json:"login_id" validate:"required"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title         string     `json:"title"           validate:"required,max=200"`
	Content       string     `json:"content"`
	Status        string     `json:"status"          validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority      string     `json:"priority"        validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Deadline      *Date      `json:"deadline"`
	WorkerLoginID *string    `json:"worker_login_id"`
	ParentID      *uuid.UUID `json:"parent_id"`
}

// UpdateTaskRequest is a partial update. Absent and null fields leave the
// stored value unchanged. Version, when sent, must equal the stored version.
type UpdateTaskRequest struct {
	Title         *string `json:"title"           validate:"omitempty,max=200"`
	Content       *string `json:"content"`
	Status        *string `json:"status"          validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority      *string `json:"priority"        validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Deadline      *Date   `json:"deadline"`
	WorkerLoginID *string `json:"worker_login_id"`
	Version       *int64  `json:"version"         validate:"omitempty,gte=0"`
}

// CreateCommentRequest defines the payload for commenting on a task.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Response payloads

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	LoginID     string `json:"login_id"`
	Nickname    string `json:"nickname"`
	Role        string `json:"role"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	LoginID   string    `json:"login_id"`
	Nickname  string    `json:"nickname"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TeamResponse is a team as seen by the caller.
type TeamResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MyRole      string    `json:"my_role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MemberResponse is one team membership.
type MemberResponse struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	LoginID  string    `json:"login_id"`
	Nickname string    `json:"nickname"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// TaskResponse is the projection of a live task.
type TaskResponse struct {
	ID             uuid.UUID  `json:"id"`
	TeamID         uuid.UUID  `json:"team_id"`
	TeamName       string     `json:"team_name"`
	ParentID       *uuid.UUID `json:"parent_id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	Deadline       *Date      `json:"deadline"`
	WorkerLoginID  *string    `json:"worker_login_id"`
	WorkerNickname *string    `json:"worker_nickname"`
	Version        int64      `json:"version"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CommentResponse is one comment with its writer.
type CommentResponse struct {
	ID             uuid.UUID `json:"id"`
	TaskID         uuid.UUID `json:"task_id"`
	WriterLoginID  string    `json:"writer_login_id"`
	WriterNickname string    `json:"writer_nickname"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		LoginID:   u.LoginID,
		Nickname:  u.Nickname,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func teamToResponse(t *domain.TeamWithRole) TeamResponse {
	return TeamResponse{
		ID:          t.Team.ID,
		Name:        t.Team.Name,
		Description: t.Team.Description,
		MyRole:      string(t.MyRole),
		CreatedAt:   t.Team.CreatedAt,
		UpdatedAt:   t.Team.UpdatedAt,
	}
}

func memberToResponse(m *domain.MemberInfo) MemberResponse {
	return MemberResponse{
		ID:       m.MembershipID,
		UserID:   m.UserID,
		LoginID:  m.LoginID,
		Nickname: m.Nickname,
		Role:     string(m.Role),
		JoinedAt: m.JoinedAt,
	}
}

func taskToResponse(t *service.TaskDetails) TaskResponse {
	resp := TaskResponse{
		ID:        t.ID,
		TeamID:    t.TeamID,
		TeamName:  t.TeamName,
		ParentID:  t.ParentID,
		Title:     t.Title,
		Content:   t.Content,
		Status:    string(t.Status),
		Priority:  string(t.Priority),
		Deadline:  dateOf(t.Deadline),
		Version:   t.Version,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.WorkerID != nil {
		loginID, nickname := t.WorkerLoginID, t.WorkerNickname
		resp.WorkerLoginID = &loginID
		resp.WorkerNickname = &nickname
	}
	return resp
}

func tasksToResponse(tasks []*service.TaskDetails) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}

func commentToResponse(c *service.CommentDetails) CommentResponse {
	return CommentResponse{
		ID:             c.ID,
		TaskID:         c.TaskID,
		WriterLoginID:  c.WriterLoginID,
		WriterNickname: c.WriterNickname,
		Content:        c.Content,
		CreatedAt:      c.CreatedAt,
	}
}
