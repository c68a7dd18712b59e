// Package service owns all storage access for user records. It translates
// store sentinels into domain errors and enforces the active/inactive
// visibility rule end to end; no other component writes to storage.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	usermetrics "userapi/internal/user/metrics"
	"userapi/internal/user/models"
	"userapi/internal/user/store"
	dErrors "userapi/pkg/domain-errors"
	"userapi/pkg/platform/sentinel"
	"userapi/pkg/requestcontext"
)

// Service executes user record lifecycle operations against a Store.
// Request-scoped and synchronous: every call is one statement against
// storage, relying on engine-level atomicity. No retries; a storage failure
// is fatal to the current operation.
type Service struct {
	store   store.Store
	logger  *slog.Logger
	metrics *usermetrics.Metrics
}

type Option func(*Service)

// WithMetrics attaches prometheus metrics to the service.
func WithMetrics(m *usermetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs the user service. The logger is handed in once at process
// start and never swapped afterwards.
func New(st store.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: st, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a new active record. Callers must have run Create-context
// validation and boolean decoding on params; the credential is already
// hashed by the time it reaches this layer.
func (s *Service) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	start := time.Now()
	user, err := s.store.Insert(ctx, params)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "login already in use")
		}
		return nil, s.storageFailure(ctx, "insert", "failed to create user", err)
	}
	s.metrics.IncrementCreated()
	s.metrics.ObserveCreate(start)
	return user, nil
}

// GetByID returns the record only while it is active. Absence (including a
// soft-deleted row) is a not-found outcome, not a failure.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.User, error) {
	start := time.Now()
	user, err := s.store.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.logger.DebugContext(ctx, "no active user",
				"user_id", id,
				"request_id", requestcontext.RequestID(ctx),
			)
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, s.storageFailure(ctx, "find", "failed to fetch user", err)
	}
	s.metrics.ObserveRead(start)
	return user, nil
}

// ListActive returns all active records; order is unspecified.
func (s *Service) ListActive(ctx context.Context) ([]*models.User, error) {
	start := time.Now()
	users, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, s.storageFailure(ctx, "list", "failed to list users", err)
	}
	s.metrics.ObserveRead(start)
	return users, nil
}

// Update applies a partial update built strictly from the supplied columns
// and always refreshes changed_at. The same executor serves full replaces;
// the provenance contexts differ only in validation, which callers run
// before invoking this method. Inactive records report not found.
func (s *Service) Update(ctx context.Context, id int64, params models.UpdateUserParams) (*models.User, error) {
	start := time.Now()
	user, err := s.store.Update(ctx, id, params)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "login already in use")
		}
		return nil, s.storageFailure(ctx, "update", "failed to update user", err)
	}
	s.metrics.ObserveUpdate(start)
	return user, nil
}

// SoftDelete deactivates the record. The row remains in storage and is
// excluded from every read; no reactivate operation is exposed.
func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	err := s.store.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return s.storageFailure(ctx, "soft_delete", "failed to delete user", err)
	}
	s.metrics.IncrementSoftDeleted()
	return nil
}

// HardDelete removes the row irreversibly, whether active or not.
func (s *Service) HardDelete(ctx context.Context, id int64) error {
	err := s.store.HardDelete(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return s.storageFailure(ctx, "hard_delete", "failed to delete user", err)
	}
	return nil
}

// storageFailure logs a storage error once, at Error severity with operation
// context, then wraps it for the transport layer. The handler maps the
// result to a generic 500 without re-logging detail.
func (s *Service) storageFailure(ctx context.Context, operation, message string, err error) error {
	s.logger.ErrorContext(ctx, message,
		"operation", operation,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.metrics.IncrementStorageError(operation)
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}
