package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"translatescore/core"
)

// The triggering event payloads arrive as explicit, validated structs per
// event kind; required-field checks run before any business logic.

type voteCountsDTO struct {
	Upvotes   int64 `json:"upvotes" validate:"min=0"`
	Downvotes int64 `json:"downvotes" validate:"min=0"`
}

type translationCreatedRequest struct {
	TranslationID string `json:"translation_id" validate:"required"`
	UserID        string `json:"user_id" validate:"required"`
	Upvotes       int64  `json:"upvotes" validate:"min=0"`
	Downvotes     int64  `json:"downvotes" validate:"min=0"`
}

func (r translationCreatedRequest) toDomain() core.TranslationCreated {
	return core.TranslationCreated{
		TranslationID: r.TranslationID,
		Snapshot: core.TranslationSnapshot{
			UserID: core.UserID(r.UserID),
			Votes:  core.VoteCounts{Upvotes: r.Upvotes, Downvotes: r.Downvotes},
		},
	}
}

type votesChangedRequest struct {
	TranslationID string         `json:"translation_id" validate:"required"`
	UserID        string         `json:"user_id" validate:"required"`
	Before        *voteCountsDTO `json:"before" validate:"required"`
	After         *voteCountsDTO `json:"after" validate:"required"`
}

func (r votesChangedRequest) toDomain() core.VotesChanged {
	return core.VotesChanged{
		TranslationID: r.TranslationID,
		Before: core.TranslationSnapshot{
			UserID: core.UserID(r.UserID),
			Votes:  core.VoteCounts{Upvotes: r.Before.Upvotes, Downvotes: r.Before.Downvotes},
		},
		After: core.TranslationSnapshot{
			UserID: core.UserID(r.UserID),
			Votes:  core.VoteCounts{Upvotes: r.After.Upvotes, Downvotes: r.After.Downvotes},
		},
	}
}

type pushTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

var validate = newValidator()

// newValidator configures field names from JSON tags so validation errors
// match the wire format.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// decodeAndValidate parses the JSON body into dst and runs struct
// validation, writing a 400 and returning false on any failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error(), nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var details []string
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			for _, fe := range invalid {
				details = append(details, fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
			}
		}
		writeError(w, http.StatusBadRequest, "invalid_input", "request validation failed", details)
		return false
	}
	return true
}
