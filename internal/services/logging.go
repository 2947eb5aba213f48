package services

import (
	"context"
	"log/slog"
	"time"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, component string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", "course-service", "component", component),
	}
}

// LogOperation logs one service operation with a level derived from the
// error class: domain rejections are warnings, lookups that miss are info,
// everything else that fails is an error.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, userID uint, resourceID uint, resourceType string, duration time.Duration, err error) {
	status := "success"
	level := slog.LevelInfo

	if err != nil {
		status = "error"
		level = slog.LevelError

		switch {
		case IsValidation(err):
			status = "validation_error"
			level = slog.LevelWarn
		case IsConflict(err):
			status = "conflict"
			level = slog.LevelWarn
		case IsUnauthorized(err) || IsForbidden(err):
			status = "unauthorized"
			level = slog.LevelWarn
		case IsNotFound(err):
			status = "not_found"
			level = slog.LevelInfo
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Uint64("user_id", uint64(userID)),
		slog.Uint64("resource_id", uint64(resourceID)),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	l.logger.LogAttrs(ctx, level, "service operation", attrs...)
}
