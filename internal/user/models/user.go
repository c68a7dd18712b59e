package models

import "time"

// User is a row in the "user" table. The credential and provenance fields are
// write-only; the handler layer never serializes them back to clients.
type User struct {
	ID          int64
	Login       string
	Credential  string
	FirstName   string
	LastName    string
	CreatedAt   time.Time
	CreatedFrom string
	ChangedAt   time.Time
	ChangedFrom string
	IsActive    bool
	// Flagged is the optional boolean-like attribute persisted as a text
	// token (flagged_bool); nil means the column is NULL.
	Flagged *bool
}

// CreateUserParams holds the fields required to create a user. Callers must
// run Create-context validation and boolean decoding before handing these to
// the service.
type CreateUserParams struct {
	Login       string
	Credential  string
	FirstName   string
	LastName    string
	CreatedFrom string
	Flagged     *bool
}

// UpdateUserParams holds the mutable columns for partial updates. One pointer
// slot per whitelisted column, so the set of updatable fields is enforced by
// the type rather than by runtime key filtering. Flagged uses a double
// pointer to distinguish "not supplied" (nil) from "set to NULL" (*nil).
type UpdateUserParams struct {
	Login       *string
	Credential  *string
	FirstName   *string
	LastName    *string
	Flagged     **bool
	ChangedFrom *string
}

// IsEmpty reports whether no mutable column was supplied.
func (p UpdateUserParams) IsEmpty() bool {
	return p.Login == nil && p.Credential == nil && p.FirstName == nil &&
		p.LastName == nil && p.Flagged == nil
}
