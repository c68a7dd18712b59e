// Package store persists user records. The Postgres implementation is the
// production path; the in-memory implementation backs unit tests.
package store

import (
	"context"

	"userapi/internal/user/models"
)

// Store is the persistence contract for user records. Implementations return
// sentinel.ErrNotFound when a row is absent or inactive and
// sentinel.ErrConflict when a uniqueness constraint rejects a write; the
// service translates those into domain errors.
type Store interface {
	// Insert creates an active row with created_at = changed_at set to the
	// request time and changed_from initialised to created_from.
	Insert(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	// FindActiveByID returns the row only while it is active.
	FindActiveByID(ctx context.Context, id int64) (*models.User, error)
	// ListActive returns all active rows; order is unspecified.
	ListActive(ctx context.Context) ([]*models.User, error)
	// Update applies the supplied columns to the active row and always
	// refreshes changed_at, returning the updated row.
	Update(ctx context.Context, id int64, params models.UpdateUserParams) (*models.User, error)
	// SoftDelete deactivates the active row; the row remains in storage.
	SoftDelete(ctx context.Context, id int64) error
	// HardDelete removes the row unconditionally, active or not.
	HardDelete(ctx context.Context, id int64) error
}
