// Package validation enforces which audit-provenance fields must or must not
// be present for a given mutation kind. Validation is pure: all violations
// are collected and returned together so clients can fix every field at once.
package validation

import (
	"strings"

	dErrors "userapi/pkg/domain-errors"
)

// Context is the kind of mutation being validated. Exactly one context
// applies to any validation pass.
type Context int

const (
	ContextCreate Context = iota
	ContextReplace
	ContextPartialUpdate
)

func (c Context) String() string {
	switch c {
	case ContextCreate:
		return "create"
	case ContextReplace:
		return "replace"
	case ContextPartialUpdate:
		return "partial-update"
	default:
		return "unknown"
	}
}

// Provenance carries the write-only audit fields as supplied by the client.
// nil means the field was absent from the request.
type Provenance struct {
	CreatedFrom *string
	ChangedFrom *string
}

// ValidateProvenance checks the provenance fields against the mutation
// context:
//
//   - Create: created_from required non-empty, changed_from forbidden
//   - Replace: changed_from required non-empty
//   - PartialUpdate: changed_from optional, but non-empty when supplied
//
// Returns every violation; an empty slice means the fields are valid.
func ValidateProvenance(ctx Context, p Provenance) []dErrors.FieldError {
	var fieldErrs []dErrors.FieldError

	switch ctx {
	case ContextCreate:
		if p.CreatedFrom == nil || strings.TrimSpace(*p.CreatedFrom) == "" {
			fieldErrs = append(fieldErrs, dErrors.FieldError{
				Field:   "created_from",
				Message: "this field is required for create",
			})
		}
		if p.ChangedFrom != nil {
			fieldErrs = append(fieldErrs, dErrors.FieldError{
				Field:   "changed_from",
				Message: "this field must not be included for create",
			})
		}
	case ContextReplace:
		if p.ChangedFrom == nil || strings.TrimSpace(*p.ChangedFrom) == "" {
			fieldErrs = append(fieldErrs, dErrors.FieldError{
				Field:   "changed_from",
				Message: "this field is required for replace",
			})
		}
		fieldErrs = append(fieldErrs, forbidCreatedFrom(p)...)
	case ContextPartialUpdate:
		if p.ChangedFrom != nil && strings.TrimSpace(*p.ChangedFrom) == "" {
			fieldErrs = append(fieldErrs, dErrors.FieldError{
				Field:   "changed_from",
				Message: "this field must not be empty when supplied",
			})
		}
		fieldErrs = append(fieldErrs, forbidCreatedFrom(p)...)
	}

	return fieldErrs
}

// created_from records creation provenance only; any mutation after creation
// must not rewrite it.
func forbidCreatedFrom(p Provenance) []dErrors.FieldError {
	if p.CreatedFrom == nil {
		return nil
	}
	return []dErrors.FieldError{{
		Field:   "created_from",
		Message: "this field is only allowed on create",
	}}
}

// RequiredField checks a required string input, returning a field error when
// it is empty. Used by the handler to collect create-context field checks
// alongside the provenance violations.
func RequiredField(field, value string) []dErrors.FieldError {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	return []dErrors.FieldError{{Field: field, Message: "this field is required"}}
}
