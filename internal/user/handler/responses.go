package handler

import (
	"time"

	"userapi/internal/user/models"
)

// userResponse is the read shape for a user record. The credential and the
// provenance fields are write-only and never appear here; flagged_bool is
// always a native boolean (or null) regardless of how it was supplied.
type userResponse struct {
	ID          int64     `json:"id"`
	Login       string    `json:"login"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	CreatedAt   time.Time `json:"created_at"`
	ChangedAt   time.Time `json:"changed_at"`
	IsActive    bool      `json:"is_active"`
	FlaggedBool *bool     `json:"flagged_bool"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Login:       user.Login,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		CreatedAt:   user.CreatedAt,
		ChangedAt:   user.ChangedAt,
		IsActive:    user.IsActive,
		FlaggedBool: user.Flagged,
	}
}

func toUserResponses(users []*models.User) []userResponse {
	responses := make([]userResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}
	return responses
}
