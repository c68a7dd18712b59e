// Package handler maps the HTTP surface onto the user service. Requests pass
// through provenance validation and boolean decoding before any storage
// call; responses re-encode booleans to their canonical native form.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"userapi/internal/platform/middleware"
	"userapi/internal/user/boolcodec"
	"userapi/internal/user/models"
	"userapi/internal/user/validation"
	dErrors "userapi/pkg/domain-errors"
	"userapi/pkg/platform/httputil"
	"userapi/pkg/requestcontext"
	"userapi/pkg/secrets"
)

// Service defines the record lifecycle operations the handler depends on.
type Service interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListActive(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id int64, params models.UpdateUserParams) (*models.User, error)
	SoftDelete(ctx context.Context, id int64) error
}

// Handler handles the /users endpoints.
type Handler struct {
	logger *slog.Logger
	users  Service
	codec  boolcodec.Codec
	hasher secrets.Hasher
}

// New creates a user Handler.
func New(users Service, codec boolcodec.Codec, hasher secrets.Hasher, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		users:  users,
		codec:  codec,
		hasher: hasher,
	}
}

// Register registers the user routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	userRouter := chi.NewRouter()
	userRouter.Use(middleware.Recovery(h.logger))
	userRouter.Use(middleware.RequestID)
	userRouter.Use(middleware.Logger(h.logger))
	userRouter.Use(middleware.Timeout(30 * time.Second))
	userRouter.Use(middleware.ContentTypeJSON)
	userRouter.Get("/users/", h.handleList)
	userRouter.Post("/users/", h.handleCreate)
	userRouter.Get("/users/{userID}/", h.handleGet)
	userRouter.Put("/users/{userID}/", h.handleReplace)
	userRouter.Patch("/users/{userID}/", h.handlePartialUpdate)
	userRouter.Delete("/users/{userID}/", h.handleDelete)

	r.Mount("/", userRouter)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListActive(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponses(users))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid create user request",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	params, fieldErrs := req.validate(h.codec)
	if len(fieldErrs) > 0 {
		httputil.WriteError(w, dErrors.NewValidation(fieldErrs...))
		return
	}

	// The credential passes through the one-way function here so the
	// service layer never sees the inbound value.
	hashed, err := h.hasher.Hash(params.Credential)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash credential",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to create user"))
		return
	}
	params.Credential = hashed

	user, err := h.users.Create(ctx, params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}
	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, validation.ContextReplace)
}

func (h *Handler) handlePartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, validation.ContextPartialUpdate)
}

// update serves both PUT and PATCH; the two differ only in the provenance
// context applied during validation.
func (h *Handler) update(w http.ResponseWriter, r *http.Request, vctx validation.Context) {
	ctx := r.Context()
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid update user request",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	params, fieldErrs := req.validate(vctx, h.codec)
	if len(fieldErrs) > 0 {
		httputil.WriteError(w, dErrors.NewValidation(fieldErrs...))
		return
	}

	if params.Credential != nil {
		hashed, err := h.hasher.Hash(*params.Credential)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to hash credential",
				"error", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to update user"))
			return
		}
		params.Credential = &hashed
	}

	user, err := h.users.Update(ctx, id, params)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// handleDelete soft-deletes: the record becomes invisible to reads but the
// row survives.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.users.SoftDelete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// userID parses the path parameter. A non-numeric id can never name a
// record, so it reports not found rather than bad request.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "user not found"))
		return 0, false
	}
	return id, true
}
