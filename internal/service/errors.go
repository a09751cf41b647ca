package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/cowork-api/internal/domain"
	"github.com/phrazzld/cowork-api/internal/store"
)

// Error handling principles:
//  1. Service methods return errors whose chain contains a *domain.Error, so
//     callers classify them with domain.KindOf and domain.CodeOf
//  2. Storage sentinels never leave this package untranslated
//  3. Failures the caller cannot act on classify as domain.ErrInternal and
//     keep the original cause in the chain for logging

// ServiceError adds the failing operation to a classified error.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError whose cause is err translated into
// the domain taxonomy.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       translate(err),
	}
}

// storeErrors maps storage sentinels to the domain errors reported for them.
// More specific sentinels come first because they wrap the generic ones.
var storeErrors = []struct {
	store  error
	domain *domain.Error
}{
	{store.ErrUserNotFound, domain.ErrUserNotFound},
	{store.ErrTeamNotFound, domain.ErrTeamNotFound},
	{store.ErrMembershipNotFound, domain.ErrNotTeamMember},
	{store.ErrTaskNotFound, domain.ErrTaskNotFound},
	{store.ErrLoginIDExists, domain.ErrDuplicateLoginID},
	{store.ErrNicknameExists, domain.ErrDuplicateNickname},
	{store.ErrMembershipExists, domain.ErrAlreadyTeamMember},
	{store.ErrVersionConflict, domain.ErrVersionConflict},
	{store.ErrInvalidEntity, domain.ErrInvalidInput},
}

// translate returns err classified in the domain taxonomy. Errors that
// already carry a domain classification are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	for _, m := range storeErrors {
		if errors.Is(err, m.store) {
			return fmt.Errorf("%w: %w", m.domain, err)
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrInternal, err)
}

// isInternal reports whether err would surface as an internal error.
func isInternal(err error) bool {
	return domain.KindOf(translate(err)) == domain.KindInternal
}
