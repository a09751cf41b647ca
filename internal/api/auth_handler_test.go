package api_test

import (
	"net/http"
	"testing"

	"github.com/phrazzld/cowork-api/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	srv.signupAndLogin(t, "alice01", "Alice")

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "valid",
			body:           map[string]string{"login_id": "bob0001", "password": "secret-pass", "nickname": "Bob"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate login id",
			body:           map[string]string{"login_id": "alice01", "password": "secret-pass", "nickname": "Other"},
			expectedStatus: http.StatusConflict,
			expectedCode:   "U002",
		},
		{
			name:           "duplicate nickname",
			body:           map[string]string{"login_id": "carol01", "password": "secret-pass", "nickname": "Alice"},
			expectedStatus: http.StatusConflict,
			expectedCode:   "U003",
		},
		{
			name:           "short password",
			body:           map[string]string{"login_id": "dave001", "password": "abc", "nickname": "Dave"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "C001",
		},
		{
			name:           "missing nickname",
			body:           map[string]string{"login_id": "erin001", "password": "secret-pass"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "C001",
		},
		{
			name:           "malformed body",
			body:           `{"login_id":`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "C001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := srv.do(t, http.MethodPost, "/api/auth/signup", "", tt.body)

			assert.Equal(t, tt.expectedStatus, resp.Status, resp.Message)
			if tt.expectedCode == "" {
				assert.True(t, resp.Success)
				user := decodeData[api.UserResponse](t, resp)
				assert.Equal(t, "USER", user.Role)
				assert.NotContains(t, string(resp.Data), "password")
				return
			}
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedCode, resp.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	token := srv.signupAndLogin(t, "alice01", "Alice")
	require.NotEmpty(t, token)

	t.Run("returns bearer token and profile", func(t *testing.T) {
		resp := srv.do(t, http.MethodPost, "/api/auth/login", "",
			map[string]string{"login_id": "alice01", "password": "secret-pass"})
		require.Equal(t, http.StatusOK, resp.Status)

		login := decodeData[api.LoginResponse](t, resp)
		assert.NotEmpty(t, login.AccessToken)
		assert.Equal(t, "Bearer", login.TokenType)
		assert.Equal(t, "alice01", login.LoginID)
		assert.Equal(t, "Alice", login.Nickname)
		assert.Equal(t, "USER", login.Role)
	})

	t.Run("token authenticates protected routes", func(t *testing.T) {
		resp := srv.do(t, http.MethodGet, "/api/teams", token, nil)
		assert.Equal(t, http.StatusOK, resp.Status)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := srv.do(t, http.MethodPost, "/api/auth/login", "",
			map[string]string{"login_id": "alice01", "password": "wrong-pass"})
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, "U004", resp.Code)
	})

	t.Run("unknown login id", func(t *testing.T) {
		resp := srv.do(t, http.MethodPost, "/api/auth/login", "",
			map[string]string{"login_id": "nobody1", "password": "secret-pass"})
		assert.Equal(t, http.StatusNotFound, resp.Status)
		assert.Equal(t, "U001", resp.Code)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp := srv.do(t, http.MethodGet, "/api/tasks/my", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "A001", resp.Code)
	assert.NotEmpty(t, resp.TraceID)
	assert.Equal(t, resp.TraceID, resp.Header.Get("X-Trace-ID"))

	resp = srv.do(t, http.MethodGet, "/api/tasks/my", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
	assert.Equal(t, "A002", resp.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	resp := newTestServer(t).do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.Success)
}
