package handler

import (
	"encoding/json"
	"errors"

	"userapi/internal/user/boolcodec"
	"userapi/internal/user/models"
	"userapi/internal/user/validation"
	dErrors "userapi/pkg/domain-errors"
)

// FlexBool captures the flagged_bool attribute exactly as the client sent it
// (native boolean, textual alias, or explicit null) so the codec decides what
// it means. A zero FlexBool marks the attribute as absent from the request.
type FlexBool struct {
	present bool
	raw     json.RawMessage
}

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	f.present = true
	f.raw = append([]byte(nil), data...)
	return nil
}

// Present reports whether the attribute appeared in the request at all,
// including an explicit null.
func (f FlexBool) Present() bool { return f.present }

// Decode normalizes the captured value through the codec.
func (f FlexBool) Decode(codec boolcodec.Codec) (*bool, error) {
	if !f.present {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(f.raw, &v); err != nil {
		return nil, err
	}
	return codec.Decode(v)
}

type createUserRequest struct {
	Login       string   `json:"login"`
	Credential  string   `json:"credential"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	CreatedFrom *string  `json:"created_from"`
	ChangedFrom *string  `json:"changed_from"`
	FlaggedBool FlexBool `json:"flagged_bool"`
}

// validate collects every violation for the Create context: required fields,
// provenance rules, and the boolean encoding.
func (req *createUserRequest) validate(codec boolcodec.Codec) (models.CreateUserParams, []dErrors.FieldError) {
	var fieldErrs []dErrors.FieldError
	fieldErrs = append(fieldErrs, validation.RequiredField("login", req.Login)...)
	fieldErrs = append(fieldErrs, validation.RequiredField("credential", req.Credential)...)
	fieldErrs = append(fieldErrs, validation.RequiredField("first_name", req.FirstName)...)
	fieldErrs = append(fieldErrs, validation.RequiredField("last_name", req.LastName)...)
	fieldErrs = append(fieldErrs, validation.ValidateProvenance(validation.ContextCreate, validation.Provenance{
		CreatedFrom: req.CreatedFrom,
		ChangedFrom: req.ChangedFrom,
	})...)

	flagged, err := req.FlaggedBool.Decode(codec)
	if err != nil {
		fieldErrs = append(fieldErrs, flaggedFieldError(err))
	}
	if len(fieldErrs) > 0 {
		return models.CreateUserParams{}, fieldErrs
	}

	return models.CreateUserParams{
		Login:       req.Login,
		Credential:  req.Credential,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		CreatedFrom: *req.CreatedFrom,
		Flagged:     flagged,
	}, nil
}

type updateUserRequest struct {
	Login       *string  `json:"login"`
	Credential  *string  `json:"credential"`
	FirstName   *string  `json:"first_name"`
	LastName    *string  `json:"last_name"`
	CreatedFrom *string  `json:"created_from"`
	ChangedFrom *string  `json:"changed_from"`
	FlaggedBool FlexBool `json:"flagged_bool"`
}

// validate collects every violation for the given mutation context and maps
// the request onto the typed optional-field parameter set. The parameter
// type is the whitelist: attributes outside it never reach storage.
func (req *updateUserRequest) validate(vctx validation.Context, codec boolcodec.Codec) (models.UpdateUserParams, []dErrors.FieldError) {
	fieldErrs := validation.ValidateProvenance(vctx, validation.Provenance{
		CreatedFrom: req.CreatedFrom,
		ChangedFrom: req.ChangedFrom,
	})

	var flagged **bool
	if req.FlaggedBool.Present() {
		decoded, err := req.FlaggedBool.Decode(codec)
		if err != nil {
			fieldErrs = append(fieldErrs, flaggedFieldError(err))
		} else {
			flagged = &decoded
		}
	}
	if len(fieldErrs) > 0 {
		return models.UpdateUserParams{}, fieldErrs
	}

	return models.UpdateUserParams{
		Login:       req.Login,
		Credential:  req.Credential,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Flagged:     flagged,
		ChangedFrom: req.ChangedFrom,
	}, nil
}

func flaggedFieldError(err error) dErrors.FieldError {
	message := "must be a boolean or a recognized textual alias"
	if errors.Is(err, boolcodec.ErrInvalidEncoding) {
		message = err.Error()
	}
	return dErrors.FieldError{Field: "flagged_bool", Message: message}
}
