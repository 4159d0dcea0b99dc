package model

import (
	"errors"
	"net/http"
)

var (
	// Validation Errors
	ErrInvalidInput = errors.New("invalid input")

	// Business Rule Errors
	ErrConflict = errors.New("person conflicts with an existing record")
	ErrNotFound = errors.New("person not found")

	// Infrastructure Errors
	ErrResourceExhausted = errors.New("database connection pool exhausted")
	ErrReplication       = errors.New("replication to sibling failed")
)

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrNotFound):
		return "PERSON_NOT_FOUND"
	case errors.Is(err, ErrResourceExhausted):
		return "RESOURCE_EXHAUSTED"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code.
// Pool exhaustion is a capacity problem and must never share the 422 of a data problem.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrConflict):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrResourceExhausted):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
