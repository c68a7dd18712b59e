package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateContext(t *testing.T) {
	t.Run("valid when created_from present and changed_from absent", func(t *testing.T) {
		errs := ValidateProvenance(ContextCreate, Provenance{CreatedFrom: strPtr("web")})
		assert.Empty(t, errs)
	})

	t.Run("missing created_from fails", func(t *testing.T) {
		errs := ValidateProvenance(ContextCreate, Provenance{})
		require.Len(t, errs, 1)
		assert.Equal(t, "created_from", errs[0].Field)
	})

	t.Run("blank created_from fails", func(t *testing.T) {
		errs := ValidateProvenance(ContextCreate, Provenance{CreatedFrom: strPtr("   ")})
		require.Len(t, errs, 1)
		assert.Equal(t, "created_from", errs[0].Field)
	})

	t.Run("changed_from present fails", func(t *testing.T) {
		errs := ValidateProvenance(ContextCreate, Provenance{
			CreatedFrom: strPtr("web"),
			ChangedFrom: strPtr("web"),
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "changed_from", errs[0].Field)
	})

	t.Run("all violations are collected, not just the first", func(t *testing.T) {
		errs := ValidateProvenance(ContextCreate, Provenance{ChangedFrom: strPtr("web")})
		require.Len(t, errs, 2)
		assert.Equal(t, "created_from", errs[0].Field)
		assert.Equal(t, "changed_from", errs[1].Field)
	})
}

func TestReplaceContext(t *testing.T) {
	t.Run("valid when changed_from present", func(t *testing.T) {
		errs := ValidateProvenance(ContextReplace, Provenance{ChangedFrom: strPtr("batch")})
		assert.Empty(t, errs)
	})

	t.Run("missing changed_from fails", func(t *testing.T) {
		errs := ValidateProvenance(ContextReplace, Provenance{})
		require.Len(t, errs, 1)
		assert.Equal(t, "changed_from", errs[0].Field)
	})

	t.Run("created_from is forbidden after create", func(t *testing.T) {
		errs := ValidateProvenance(ContextReplace, Provenance{
			CreatedFrom: strPtr("web"),
			ChangedFrom: strPtr("web"),
		})
		require.Len(t, errs, 1)
		assert.Equal(t, "created_from", errs[0].Field)
	})
}

func TestPartialUpdateContext(t *testing.T) {
	t.Run("changed_from is optional", func(t *testing.T) {
		errs := ValidateProvenance(ContextPartialUpdate, Provenance{})
		assert.Empty(t, errs)
	})

	t.Run("supplied changed_from must be non-empty", func(t *testing.T) {
		errs := ValidateProvenance(ContextPartialUpdate, Provenance{ChangedFrom: strPtr("")})
		require.Len(t, errs, 1)
		assert.Equal(t, "changed_from", errs[0].Field)
	})

	t.Run("non-empty changed_from is accepted", func(t *testing.T) {
		errs := ValidateProvenance(ContextPartialUpdate, Provenance{ChangedFrom: strPtr("ops")})
		assert.Empty(t, errs)
	})

	t.Run("created_from is forbidden", func(t *testing.T) {
		errs := ValidateProvenance(ContextPartialUpdate, Provenance{CreatedFrom: strPtr("web")})
		require.Len(t, errs, 1)
		assert.Equal(t, "created_from", errs[0].Field)
	})
}

func TestRequiredField(t *testing.T) {
	assert.Empty(t, RequiredField("login", "a@b.com"))

	errs := RequiredField("login", "  ")
	require.Len(t, errs, 1)
	assert.Equal(t, "login", errs[0].Field)
}
