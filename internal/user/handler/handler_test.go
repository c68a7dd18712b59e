package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userapi/internal/user/boolcodec"
	"userapi/internal/user/service"
	"userapi/internal/user/store"
	"userapi/pkg/testutil"
)

// stubHasher keeps handler tests fast; the hash function itself is opaque to
// everything under test.
type stubHasher struct{}

func (stubHasher) Hash(credential string) (string, error) {
	return "hashed::" + credential, nil
}

func newUserRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := service.New(store.NewInMemory(), logger)

	h := New(svc, boolcodec.YesNo(), stubHasher{}, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func validCreateBody() map[string]any {
	return map[string]any{
		"login":        "a@b.com",
		"credential":   "e3b0c44298fc1c149afbf4c8996fb924",
		"first_name":   "A",
		"last_name":    "B",
		"created_from": "web",
	}
}

type userBody struct {
	ID          int64     `json:"id"`
	Login       string    `json:"login"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	CreatedAt   time.Time `json:"created_at"`
	ChangedAt   time.Time `json:"changed_at"`
	IsActive    bool      `json:"is_active"`
	FlaggedBool *bool     `json:"flagged_bool"`
}

type errorBody struct {
	Error  string `json:"error"`
	Fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

func createUser(t *testing.T, router http.Handler, body map[string]any) userBody {
	t.Helper()
	rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/users/", body))
	require.Equal(t, http.StatusCreated, rec.Code, "create failed: %s", rec.Body.String())
	return *testutil.UnmarshalResponse[userBody](t, rec)
}

func fieldNames(resp errorBody) []string {
	names := make([]string, 0, len(resp.Fields))
	for _, f := range resp.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestCreateUser(t *testing.T) {
	t.Run("valid create returns 201 with lifecycle fields", func(t *testing.T) {
		router := newUserRouter(t)
		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/users/", validCreateBody()))
		testutil.AssertStatus(t, rec, http.StatusCreated)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		assert.Equal(t, "a@b.com", raw["login"])
		assert.Equal(t, true, raw["is_active"])
		assert.Equal(t, raw["created_at"], raw["changed_at"])
		_, hasCredential := raw["credential"]
		assert.False(t, hasCredential, "credential must never be echoed")
		_, hasCreatedFrom := raw["created_from"]
		assert.False(t, hasCreatedFrom, "provenance fields are write-only")
	})

	t.Run("missing created_from is a validation error", func(t *testing.T) {
		router := newUserRouter(t)
		body := validCreateBody()
		delete(body, "created_from")

		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/users/", body))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		resp := testutil.UnmarshalResponse[errorBody](t, rec)
		assert.Equal(t, "validation_failed", resp.Error)
		assert.Contains(t, fieldNames(*resp), "created_from")
	})

	t.Run("changed_from is forbidden on create", func(t *testing.T) {
		router := newUserRouter(t)
		body := validCreateBody()
		body["changed_from"] = "web"

		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/users/", body))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		assert.Contains(t, fieldNames(*testutil.UnmarshalResponse[errorBody](t, rec)), "changed_from")
	})

	t.Run("every violation is reported at once", func(t *testing.T) {
		router := newUserRouter(t)
		body := map[string]any{"changed_from": "web"}

		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/users/", body))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		names := fieldNames(*testutil.UnmarshalResponse[errorBody](t, rec))
		assert.Contains(t, names, "login")
		assert.Contains(t, names, "credential")
		assert.Contains(t, names, "first_name")
		assert.Contains(t, names, "last_name")
		assert.Contains(t, names, "created_from")
		assert.Contains(t, names, "changed_from")
	})

	t.Run("duplicate login returns 409", func(t *testing.T) {
		router := newUserRouter(t)
		createUser(t, router, validCreateBody())

		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/users/", validCreateBody()))
		testutil.AssertStatus(t, rec, http.StatusConflict)
	})
}

func TestFlaggedBool(t *testing.T) {
	t.Run("textual alias is stored and returned as native true", func(t *testing.T) {
		router := newUserRouter(t)
		body := validCreateBody()
		body["flagged_bool"] = "yes"

		created := createUser(t, router, body)
		require.NotNil(t, created.FlaggedBool)
		assert.True(t, *created.FlaggedBool)

		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/users/1/"))
		got := testutil.UnmarshalResponse[userBody](t, rec)
		require.NotNil(t, got.FlaggedBool)
		assert.True(t, *got.FlaggedBool)
	})

	t.Run("native booleans pass through", func(t *testing.T) {
		router := newUserRouter(t)
		body := validCreateBody()
		body["flagged_bool"] = false

		created := createUser(t, router, body)
		require.NotNil(t, created.FlaggedBool)
		assert.False(t, *created.FlaggedBool)
	})

	t.Run("unknown token is rejected naming the field", func(t *testing.T) {
		router := newUserRouter(t)
		body := validCreateBody()
		body["flagged_bool"] = "nope"

		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/users/", body))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		resp := testutil.UnmarshalResponse[errorBody](t, rec)
		require.Contains(t, fieldNames(*resp), "flagged_bool")
	})

	t.Run("absent means null", func(t *testing.T) {
		router := newUserRouter(t)
		created := createUser(t, router, validCreateBody())
		assert.Nil(t, created.FlaggedBool)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("returns the record", func(t *testing.T) {
		router := newUserRouter(t)
		created := createUser(t, router, validCreateBody())

		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/users/1/"))
		testutil.AssertStatus(t, rec, http.StatusOK)
		got := testutil.UnmarshalResponse[userBody](t, rec)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "a@b.com", got.Login)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		router := newUserRouter(t)
		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/users/99/"))
		testutil.AssertStatus(t, rec, http.StatusNotFound)
	})

	t.Run("non-numeric id returns 404", func(t *testing.T) {
		router := newUserRouter(t)
		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/users/abc/"))
		testutil.AssertStatus(t, rec, http.StatusNotFound)
	})
}

func TestListUsers(t *testing.T) {
	router := newUserRouter(t)
	createUser(t, router, validCreateBody())
	second := validCreateBody()
	second["login"] = "b@b.com"
	createUser(t, router, second)

	rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/users/"))
	testutil.AssertStatus(t, rec, http.StatusOK)
	users := testutil.UnmarshalResponse[[]userBody](t, rec)
	assert.Len(t, *users, 2)
}

func TestPartialUpdate(t *testing.T) {
	t.Run("changes only the supplied field and advances changed_at", func(t *testing.T) {
		router := newUserRouter(t)
		created := createUser(t, router, validCreateBody())

		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch, "/users/1/",
			map[string]any{"first_name": "C"}))
		testutil.AssertStatus(t, rec, http.StatusOK)
		got := testutil.UnmarshalResponse[userBody](t, rec)
		assert.Equal(t, "C", got.FirstName)
		assert.Equal(t, "B", got.LastName, "unsupplied fields stay put")
		assert.False(t, got.ChangedAt.Before(created.ChangedAt), "changed_at never goes backwards")
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
	})

	t.Run("changed_from is accepted on partial update", func(t *testing.T) {
		router := newUserRouter(t)
		createUser(t, router, validCreateBody())

		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch, "/users/1/",
			map[string]any{"last_name": "New", "changed_from": "ops"}))
		testutil.AssertStatus(t, rec, http.StatusOK)
	})

	t.Run("created_from is rejected after create", func(t *testing.T) {
		router := newUserRouter(t)
		createUser(t, router, validCreateBody())

		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch, "/users/1/",
			map[string]any{"created_from": "web"}))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		router := newUserRouter(t)
		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPatch, "/users/7/",
			map[string]any{"first_name": "C"}))
		testutil.AssertStatus(t, rec, http.StatusNotFound)
	})
}

func TestReplace(t *testing.T) {
	t.Run("requires changed_from", func(t *testing.T) {
		router := newUserRouter(t)
		createUser(t, router, validCreateBody())

		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/users/1/",
			map[string]any{"first_name": "C"}))
		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		assert.Contains(t, fieldNames(*testutil.UnmarshalResponse[errorBody](t, rec)), "changed_from")
	})

	t.Run("succeeds with changed_from", func(t *testing.T) {
		router := newUserRouter(t)
		createUser(t, router, validCreateBody())

		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut, "/users/1/",
			map[string]any{
				"first_name":   "C",
				"last_name":    "D",
				"changed_from": "batch",
			}))
		testutil.AssertStatus(t, rec, http.StatusOK)
		got := testutil.UnmarshalResponse[userBody](t, rec)
		assert.Equal(t, "C", got.FirstName)
		assert.Equal(t, "D", got.LastName)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("soft delete hides the record from subsequent reads", func(t *testing.T) {
		router := newUserRouter(t)
		createUser(t, router, validCreateBody())

		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/users/1/"))
		testutil.AssertStatus(t, rec, http.StatusNoContent)

		rec = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/users/1/"))
		testutil.AssertStatus(t, rec, http.StatusNotFound)

		rec = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/users/"))
		users := testutil.UnmarshalResponse[[]userBody](t, rec)
		assert.Empty(t, *users)
	})

	t.Run("deleting twice returns 404", func(t *testing.T) {
		router := newUserRouter(t)
		createUser(t, router, validCreateBody())

		testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/users/1/"))
		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/users/1/"))
		testutil.AssertStatus(t, rec, http.StatusNotFound)
	})
}
