package api

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/feedbackhub/internal/apperrors"
	"github.com/spacesedan/feedbackhub/internal/models"
)

// ErrorHandlingMiddleware renders handler errors as structured JSON. Echo's
// own HTTP errors (unknown route, bad method) pass through untouched.
func ErrorHandlingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return err
			}

			structuredErr := apperrors.AsStructuredError(translateDomainError(err))
			logError(c, structuredErr)

			if err := c.JSON(structuredErr.HTTPStatus(), structuredErr.ToResponse()); err != nil {
				return fmt.Errorf("[Server] failed to write error response: %w", err)
			}
			return nil
		}
	}
}

// translateDomainError maps model sentinels onto API error types.
func translateDomainError(err error) error {
	switch {
	case errors.Is(err, models.ErrFeedbackNotFound):
		return apperrors.NotFoundError("feedback not found")
	case errors.Is(err, models.ErrUserNotFound):
		return apperrors.NotFoundError("user not found")
	case errors.Is(err, models.ErrEmailTaken):
		return apperrors.ConflictError("email already registered")
	case errors.Is(err, models.ErrEventNotFound):
		return apperrors.NotFoundError("event not found")
	case errors.Is(err, models.ErrAlreadyRegistered):
		return apperrors.ConflictError("already registered for this event")
	default:
		return err
	}
}

func logError(c echo.Context, err *apperrors.Error) {
	attrs := []any{
		slog.String("error_type", string(err.Type)),
		slog.String("message", err.Message),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
		slog.Int("status", err.HTTPStatus()),
	}

	for k, v := range err.Context {
		attrs = append(attrs, slog.Any(k, v))
	}
	if err.Cause != nil {
		attrs = append(attrs, slog.String("cause", err.Cause.Error()))
	}

	switch err.Type {
	case apperrors.TypeValidation:
		slog.Info("[Server] Validation error", attrs...)
	case apperrors.TypeNotFound:
		slog.Info("[Server] Not found", attrs...)
	case apperrors.TypeConflict:
		slog.Warn("[Server] Conflict", attrs...)
	case apperrors.TypeExternal:
		slog.Error("[Server] External service error", attrs...)
	default:
		slog.Error("[Server] Internal error", attrs...)
	}
}
