package model

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Constants for validation
const (
	MaxNicknameLength = 32
	MaxNameLength     = 100
	MaxStackTagLength = 32

	BirthDateLayout = "2006-01-02"
)

var birthDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidationError carries the per-field messages of a rejected request.
// It matches ErrInvalidInput under errors.Is.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Fields.Error())
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// Validate checks field lengths and the birth date.
// Lengths are counted in characters, not bytes.
func (r CreatePersonRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nickname,
			validation.Required.Error("nickname is required"),
			validation.RuneLength(1, MaxNicknameLength).Error("nickname must be 1-32 characters"),
		),
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(1, MaxNameLength).Error("name must be 1-100 characters"),
		),
		validation.Field(&r.BirthDate,
			validation.Required.Error("birthDate is required"),
			validation.By(calendarDate),
		),
		validation.Field(&r.Stack,
			validation.Each(
				validation.Required.Error("stack tags must not be empty"),
				validation.RuneLength(1, MaxStackTagLength).Error("stack tags must be 1-32 characters"),
			),
		),
	)
}

// Validate runs the request rules and, on success, returns the normalized stack
// and the precomputed search blob. It has no side effects.
func Validate(req CreatePersonRequest) (ValidatedFields, error) {
	if err := req.Validate(); err != nil {
		var fields validation.Errors
		if errors.As(err, &fields) {
			return ValidatedFields{}, &ValidationError{Fields: fields}
		}
		return ValidatedFields{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stack := req.Stack
	if stack == nil {
		stack = []string{}
	}

	return ValidatedFields{
		Stack:  stack,
		Search: SearchBlob(req.Nickname, req.Name, stack),
	}, nil
}

// ValidBirthDate reports whether s is a real Gregorian date in YYYY-MM-DD form with a non-zero year.
func ValidBirthDate(s string) bool {
	return s != "" && calendarDate(s) == nil
}

// calendarDate is an ozzo rule: exact YYYY-MM-DD shape, month 1-12,
// day within the month (leap-year aware), year not 0.
func calendarDate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("birthDate must be a string")
	}
	if s == "" {
		return nil // Required reports this case
	}

	if !birthDatePattern.MatchString(s) {
		return errors.New("birthDate must be formatted as YYYY-MM-DD")
	}

	// time.Parse rejects month 00/13 and days past the end of the month, February 29 included
	d, err := time.Parse(BirthDateLayout, s)
	if err != nil {
		return errors.New("birthDate is not a calendar date")
	}
	if d.Year() == 0 {
		return errors.New("birthDate year must not be 0")
	}

	return nil
}
