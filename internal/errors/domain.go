package errors

import (
	stderrors "errors"
	"net/http"
	"sort"
	"strings"
)

// SlotUnavailableMessage is what customers see when a write loses a race.
const SlotUnavailableMessage = "This slot may no longer be available"

var (
	ErrSlotUnavailable    = stderrors.New("slot unavailable")
	ErrBookingNotFound    = stderrors.New("booking not found")
	ErrInvalidCredentials = stderrors.New("invalid email or password")
)

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ToHTTP maps a service error to the status and message returned to clients.
// Unknown errors become a generic 500.
func ToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	var validationErr *ValidationError
	switch {
	case stderrors.As(err, &httpErr):
		return httpErr
	case stderrors.As(err, &validationErr):
		return NewHTTPError(http.StatusBadRequest, validationErr.Error())
	case stderrors.Is(err, ErrSlotUnavailable):
		return ErrConflict(SlotUnavailableMessage)
	case stderrors.Is(err, ErrBookingNotFound):
		return ErrNotFound(ErrBookingNotFound.Error())
	case stderrors.Is(err, ErrInvalidCredentials):
		return ErrUnauthorized(ErrInvalidCredentials.Error())
	}
	return ErrInternal()
}
