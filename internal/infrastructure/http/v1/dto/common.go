// Package dto defines request/response shapes for API v1.
package dto

import (
	"time"

	"gudang/internal/core/apperror"
)

// DateFormat is the wire format for calendar dates.
const DateFormat = "2006-01-02"

// IDResponse is a response containing only an ID.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic success response.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ParseDate parses a wire date, returning a validation error naming the
// field.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return t, nil
}
