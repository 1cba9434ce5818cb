package domain

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/marks/internal/logger"
)

// Validator checks create requests before they reach the store.
type Validator struct {
	validate *validator.Validate
	log      logger.Logger
}

// NewValidator returns a validator that logs every rejection on log.
func NewValidator(log logger.Logger) *Validator {
	return &Validator{
		validate: validator.New(),
		log:      log,
	}
}

// Validate runs the checks in a fixed order and returns the first failure:
//
//  1. title, url, rating present (in that order)
//  2. rating is an integer in [MinRating, MaxRating]
//  3. url is an absolute http or https URL
//
// On success the returned Bookmark carries the candidate fields; ID and
// DateInserted are left for the store.
func (v *Validator) Validate(c Candidate) (Bookmark, error) {
	switch {
	case c.Title == "":
		return Bookmark{}, v.reject(&MissingFieldError{Field: "title"}, logger.String("field", "title"))
	case c.URL == "":
		return Bookmark{}, v.reject(&MissingFieldError{Field: "url"}, logger.String("field", "url"))
	case isAbsent(c.Rating):
		return Bookmark{}, v.reject(&MissingFieldError{Field: "rating"}, logger.String("field", "rating"))
	}

	rating, ok := integerRating(c.Rating)
	if !ok || v.validate.Var(rating, fmt.Sprintf("min=%d,max=%d", MinRating, MaxRating)) != nil {
		return Bookmark{}, v.reject(&InvalidRatingError{Value: c.Rating},
			logger.String("field", "rating"), logger.Any("value", c.Rating))
	}

	if v.validate.Var(c.URL, "http_url") != nil {
		return Bookmark{}, v.reject(&InvalidURLError{Value: c.URL},
			logger.String("field", "url"), logger.String("value", c.URL))
	}

	return Bookmark{
		Title:       c.Title,
		URL:         c.URL,
		Description: c.Description,
		Rating:      rating,
	}, nil
}

func (v *Validator) reject(err error, fields ...logger.Field) error {
	v.log.Error("bookmark rejected: "+err.Error(), fields...)
	return err
}

// isAbsent treats null, false and the empty string as a missing rating.
// Zero is a valid rating and counts as present.
func isAbsent(rating any) bool {
	switch r := rating.(type) {
	case nil:
		return true
	case bool:
		return !r
	case string:
		return r == ""
	default:
		return false
	}
}

// integerRating accepts integral numbers only; 4.0 is 4, 4.5 is rejected.
func integerRating(rating any) (int, bool) {
	var f float64
	switch r := rating.(type) {
	case int:
		return r, true
	case int64:
		if r < math.MinInt32 || r > math.MaxInt32 {
			return 0, false
		}
		return int(r), true
	case float64:
		f = r
	case json.Number:
		if i, err := r.Int64(); err == nil {
			return integerRating(i)
		}
		parsed, err := r.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
