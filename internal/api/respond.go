package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"charterbook/internal/entities"
	apperrors "charterbook/internal/errors"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	maxBodyBytes = 1 << 20
	maxRangeDays = 400
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code. Server errors are logged and their
// cause hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	httpErr := apperrors.ToHTTP(err)
	if httpErr.Code >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	}

	resp := ErrorResponse{Error: httpErr.Message}
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		resp.Error = "validation failed"
		resp.Fields = verr.Fields
	}
	writeJSON(w, httpErr.Code, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.ErrBadRequest("invalid request body")
	}
	return nil
}

// pathID returns the {id} route variable when it is a UUID.
func pathID(r *http.Request) (string, error) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		return "", apperrors.ErrBadRequest("invalid id")
	}
	return id, nil
}

func parseDate(field, value string) (civil.Date, error) {
	d, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, apperrors.NewValidationError(field, "must be a date formatted YYYY-MM-DD")
	}
	return d, nil
}

// queryRange reads ?from=&to=. Missing bounds come from def; an inverted or
// oversized range is rejected.
func queryRange(r *http.Request, def entities.DateRange) (entities.DateRange, error) {
	rng := def
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		d, err := parseDate("from", v)
		if err != nil {
			return rng, err
		}
		rng.From = d
	}
	if v := q.Get("to"); v != "" {
		d, err := parseDate("to", v)
		if err != nil {
			return rng, err
		}
		rng.To = d
	}
	if rng.From != (civil.Date{}) && rng.To != (civil.Date{}) {
		if rng.To.Before(rng.From) {
			return rng, apperrors.NewValidationError("to", "must not be before from")
		}
		if rng.To.DaysSince(rng.From) > maxRangeDays {
			return rng, apperrors.NewValidationError("to", "range is too long")
		}
	}
	return rng, nil
}

func bookingFilter(r *http.Request) (entities.BookingFilter, error) {
	var filter entities.BookingFilter
	q := r.URL.Query()
	if v := q.Get("date"); v != "" {
		d, err := parseDate("date", v)
		if err != nil {
			return filter, err
		}
		filter.Date = d
	}
	filter.Status = entities.BookingStatus(q.Get("status"))
	return filter, nil
}
