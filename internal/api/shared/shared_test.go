package shared_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/api/shared"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	id := shared.NewTraceID()
	assert.Len(t, id, 32)
	assert.NotEqual(t, id, shared.NewTraceID())

	ctx := shared.SetTraceID(context.Background(), id)
	assert.Equal(t, id, shared.GetTraceID(ctx))
	assert.Empty(t, shared.GetTraceID(context.Background()))
}

func TestUserIDFromContext(t *testing.T) {
	id := uuid.New()

	got, ok := shared.UserIDFromContext(shared.WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = shared.UserIDFromContext(shared.WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	_, ok = shared.UserIDFromContext(context.Background())
	assert.False(t, ok)
}

type signup struct {
	LoginID  string  `json:"login_id" validate:"required,min=4,max=50"`
	Nickname string  `json:"nickname" validate:"required"`
	Status   *string `json:"status"   validate:"omitempty,oneof=TODO DONE"`
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     signup
		field   string
		message string
	}{
		{name: "valid", req: signup{LoginID: "alice01", Nickname: "Alice"}},
		{name: "missing", req: signup{Nickname: "Alice"}, field: "login_id", message: "login_id is required"},
		{name: "too short", req: signup{LoginID: "abc", Nickname: "Alice"}, field: "login_id", message: "login_id must be at least 4 characters"},
		{
			name:    "bad enum",
			req:     signup{LoginID: "alice01", Nickname: "Alice", Status: ptr("LATER")},
			field:   "status",
			message: "status must be one of [TODO DONE]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := shared.ValidateRequest(tt.req)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Error())
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out signup

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"login_id":"alice01","status":null}`))
	require.NoError(t, shared.DecodeJSON(httptest.NewRecorder(), r, &out))
	assert.Equal(t, "alice01", out.LoginID)
	assert.Nil(t, out.Status)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"login_id":`))
	err := shared.DecodeJSON(httptest.NewRecorder(), r, &out)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	big := `{"login_id":"` + strings.Repeat("a", shared.MaxBodyBytes) + `"}`
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	err = shared.DecodeJSON(httptest.NewRecorder(), r, &out)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRespondWithData(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	shared.RespondWithData(w, r, http.StatusCreated, "created", map[string]string{"id": "42"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"created","data":{"id":"42"}}`, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/tasks/1", nil)
	r = r.WithContext(shared.SetTraceID(r.Context(), "trace-123"))

	shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "C002", "internal server error",
		errors.New("dial postgres://cowork:s3cret@db/cowork"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "C002", body.Code)
	assert.Equal(t, "internal server error", body.Message)
	assert.Equal(t, "trace-123", body.TraceID)
	assert.NotContains(t, w.Body.String(), "s3cret")
}

func ptr[T any](v T) *T {
	return &v
}
