package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when no bookmark has the requested id.
var ErrNotFound = errors.New("bookmark not found")

// MissingFieldError rejects a candidate without a required field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("'%s' is required", e.Field)
}

// InvalidRatingError rejects a rating that is not an integer in range.
type InvalidRatingError struct {
	Value any
}

func (e *InvalidRatingError) Error() string {
	return fmt.Sprintf("'rating' must be a number between %d and %d", MinRating, MaxRating)
}

// InvalidURLError rejects a url that is not an absolute http(s) URL.
type InvalidURLError struct {
	Value string
}

func (e *InvalidURLError) Error() string {
	return "'url' must be a valid URL"
}

// Rejection reasons, used as metric labels.
const (
	ReasonMissingField  = "missing_field"
	ReasonInvalidRating = "invalid_rating"
	ReasonInvalidURL    = "invalid_url"
)

// RejectionReason classifies a validation error. ok is false for any other error.
func RejectionReason(err error) (reason string, ok bool) {
	var (
		missing *MissingFieldError
		rating  *InvalidRatingError
		badURL  *InvalidURLError
	)
	switch {
	case errors.As(err, &missing):
		return ReasonMissingField, true
	case errors.As(err, &rating):
		return ReasonInvalidRating, true
	case errors.As(err, &badURL):
		return ReasonInvalidURL, true
	default:
		return "", false
	}
}

// IsValidation reports whether err is a client input rejection.
func IsValidation(err error) bool {
	_, ok := RejectionReason(err)
	return ok
}
