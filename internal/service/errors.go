package service

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Handlers map these to HTTP statuses; services attach
// the human-readable reason via RequestError.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("state conflict")
)

// RequestError is a request-scoped failure with a machine-checkable kind
type RequestError struct {
	Kind    error
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Kind }

func failf(kind error, format string, args ...interface{}) error {
	return &RequestError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Geofence rejection reasons
const (
	GeofenceInvalidLocation = "invalid_location"
	GeofenceNoActiveOffices = "no_active_offices"
	GeofenceOfficeNotFound  = "office_not_found"
	GeofenceOutOfRange      = "out_of_range"
)

// GeofenceError is a geo-fence rejection carrying distance context for user
// display. OutOfRange rejections also report the office and allowed radius.
type GeofenceError struct {
	Action         string
	Reason         string
	Message        string
	OfficeName     string
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *GeofenceError) Error() string { return e.Message }

// Unwrap classifies geo-fence rejections as validation failures; out-of-range
// is a forbidden action so callers can surface 403.
func (e *GeofenceError) Unwrap() error {
	if e.Reason == GeofenceOutOfRange {
		return ErrForbidden
	}
	return ErrValidation
}
