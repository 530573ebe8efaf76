package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"easemyform-backend/internal/domain"
	"easemyform-backend/pkg/apperror"
)

func validationError(message string) *apperror.AppError {
	return apperror.New(http.StatusBadRequest, message, domain.ErrValidation).
		WithReason(apperror.ReasonValidation)
}

// storeError maps repository failures to client-facing errors. action names
// the failed operation for the internal error message.
func storeError(action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.New(http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, domain.ErrConflict):
		return apperror.New(http.StatusConflict, "Resource already exists", err)
	case errors.Is(err, domain.ErrStorageUnavailable):
		return apperror.Unavailable(err)
	default:
		return apperror.Internal(fmt.Errorf("failed to %s: %w", action, err))
	}
}

// sessionValue reads a value set by the session middleware. Works with both
// Gin context (c.Set) and standard context.WithValue.
func sessionValue[T any](ctx context.Context, key domain.CtxKey) (T, bool) {
	if v, ok := ctx.Value(string(key)).(T); ok {
		return v, true
	}
	v, ok := ctx.Value(key).(T)
	return v, ok
}

// requireAdmin checks that the caller's session carries the admin flag
func requireAdmin(ctx context.Context) error {
	isAdmin, _ := sessionValue[bool](ctx, domain.KeyIsAdmin)
	if !isAdmin {
		return apperror.Forbidden("Admin access required")
	}
	return nil
}

func unauthenticated() *apperror.AppError {
	return apperror.Unauthorized("Authentication required")
}
