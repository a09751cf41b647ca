package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/cowork-api/internal/api/shared"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/service"
	"github.com/phrazzld/cowork-api/internal/service/auth"
)

// TokenType is the scheme clients send access tokens with.
const TokenType = "Bearer"

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userService service.UserService
	jwtService  auth.JWTService
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService service.UserService, jwtService auth.JWTService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.Register(r.Context(), req.LoginID, req.Password, req.Nickname)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Info("user signed up", slog.String("user_id", user.ID.String()))
	shared.RespondWithData(w, r, http.StatusCreated, "signed up", userToResponse(user))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.LoginID, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("user logged in", slog.String("user_id", user.ID.String()))
	shared.RespondWithData(w, r, http.StatusOK, "logged in", LoginResponse{
		AccessToken: token,
		TokenType:   TokenType,
		LoginID:     user.LoginID,
		Nickname:    user.Nickname,
		Role:        string(user.Role),
	})
}
