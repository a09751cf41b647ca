package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/cowork-api/internal/api"
	"github.com/phrazzld/cowork-api/internal/config"
	"github.com/phrazzld/cowork-api/internal/platform/memory"
	"github.com/phrazzld/cowork-api/internal/service"
	"github.com/phrazzld/cowork-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

// testServer is the full router over an in-memory backend.
type testServer struct {
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := memory.New(log)

	jwtService, err := auth.NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)

	membership := service.NewMembershipService(db.Memberships(), log)
	handler := api.NewRouter(api.RouterDeps{
		Users:      service.NewUserService(db.Users(), auth.NewBcryptHasher(4), log),
		Teams:      service.NewTeamService(db.Teams(), db.Users(), db.Memberships(), membership, log),
		Tasks:      service.NewTaskService(db.Tasks(), db.Teams(), db.Users(), membership, log),
		Comments:   service.NewCommentService(db.Comments(), db.Tasks(), db.Users(), membership, log),
		JWTService: jwtService,
		Logger:     log,
	})
	return &testServer{handler: handler}
}

// response is a decoded envelope. Data is left raw for the caller to decode.
type response struct {
	Status  int             `json:"-"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	TraceID string          `json:"trace_id"`
	Data    json.RawMessage `json:"data"`
	Header  http.Header     `json:"-"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var resp response
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	resp.Status = rec.Code
	resp.Header = rec.Header()
	return resp
}

func decodeData[T any](t *testing.T, resp response) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out), string(resp.Data))
	return out
}

// signupAndLogin registers loginID and returns an access token.
func (s *testServer) signupAndLogin(t *testing.T, loginID, nickname string) string {
	t.Helper()

	resp := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"login_id": loginID,
		"password": "secret-pass",
		"nickname": nickname,
	})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"login_id": loginID,
		"password": "secret-pass",
	})
	require.Equal(t, http.StatusOK, resp.Status, resp.Message)
	return decodeData[api.LoginResponse](t, resp).AccessToken
}

func (s *testServer) createTeam(t *testing.T, token, name string) api.TeamResponse {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/teams", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)
	return decodeData[api.TeamResponse](t, resp)
}

func (s *testServer) invite(t *testing.T, token string, team api.TeamResponse, loginID string) {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/teams/"+team.ID.String()+"/invite", token,
		map[string]string{"login_id": loginID})
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)
}

func (s *testServer) createTask(t *testing.T, token string, team api.TeamResponse, body map[string]interface{}) api.TaskResponse {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/teams/"+team.ID.String()+"/tasks", token, body)
	require.Equal(t, http.StatusCreated, resp.Status, resp.Message)
	return decodeData[api.TaskResponse](t, resp)
}
