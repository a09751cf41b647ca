package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/cowork-api/internal/api/shared"
	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/platform/logger"
	"github.com/phrazzld/cowork-api/internal/service/auth"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate resolves the bearer token in the Authorization header to a
// user id and stores it in the request context. Requests without a valid
// token never reach next.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			reject(w, r, http.StatusUnauthorized, domain.ErrUnauthorized, nil)
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			reject(w, r, http.StatusUnauthorized, domain.ErrInvalidToken, nil)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrExpiredToken):
			reject(w, r, http.StatusUnauthorized, domain.ErrExpiredToken, err)
			return
		case errors.Is(err, auth.ErrInvalidToken):
			reject(w, r, http.StatusUnauthorized, domain.ErrInvalidToken, err)
			return
		default:
			reject(w, r, http.StatusInternalServerError, domain.ErrInternal, err)
			return
		}
		if claims == nil || claims.UserID == uuid.Nil {
			reject(w, r, http.StatusUnauthorized, domain.ErrInvalidToken, nil)
			return
		}

		ctx := shared.WithUserID(r.Context(), claims.UserID)
		log := logger.FromContext(ctx).With("user_id", claims.UserID.String())
		ctx = logger.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the credential from a "Bearer <token>" header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsRune(token, ' ') {
		return "", false
	}
	return token, true
}

func reject(w http.ResponseWriter, r *http.Request, status int, de *domain.Error, err error) {
	if err == nil {
		shared.RespondWithError(w, r, status, de.Code, de.Message)
		return
	}
	shared.RespondWithErrorAndLog(w, r, status, de.Code, de.Message, err)
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}
