package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/cowork-api/internal/api/shared"
	"github.com/phrazzld/cowork-api/internal/domain"
)

// MapErrorToStatusCode maps errors to HTTP status codes by their domain
// kind. Unclassified errors map to 500 so internal failures never surface
// as client errors.
func MapErrorToStatusCode(err error) int {
	if err == nil {
		return http.StatusInternalServerError
	}

	switch domain.KindOf(err) {
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden, domain.KindNotTeamMember:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a message that can be shown to clients.
// Field-level validation errors keep their field detail; other domain errors
// use the message of their code; everything else is reported generically.
func GetSafeErrorMessage(err error) string {
	if err == nil || domain.KindOf(err) == domain.KindInternal {
		return domain.ErrInternal.Message
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return domain.ErrInternal.Message
}

// HandleAPIError writes the error response for err. The status and code come
// from its domain classification; the full error is logged redacted.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	code := domain.CodeOf(err)
	if status == http.StatusInternalServerError {
		code = domain.ErrInternal.Code
	}

	var opts []shared.ResponseOption
	if errors.Is(err, domain.ErrVersionConflict) || domain.KindOf(err) == domain.KindNotTeamMember {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, code, GetSafeErrorMessage(err), err, opts...)
}
