package planner

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCityRequired is returned when a weather lookup is started without a city.
	ErrCityRequired = errors.New("enter a city")
	// ErrStaleResponse is returned to a weather lookup that was overtaken by a newer one.
	ErrStaleResponse = errors.New("stale weather response discarded")
	// ErrMalformedResponse marks a success response missing required fields.
	ErrMalformedResponse = errors.New("malformed weather response")
	// ErrNoWeatherSource is returned by a planner built without a weather source.
	ErrNoWeatherSource = errors.New("no weather source configured")
)

// detailSep joins the parts of a failure detail.
const detailSep = " – "

// StatusError is a non-2xx answer from the planner backend.
type StatusError struct {
	StatusCode int
	Status     string // "<code> <reason>"
	Message    string
	ErrorText  string
	Detail     string
}

// Reason composes the status line with whichever of message, error and detail
// the server sent, in that order.
func (e *StatusError) Reason() string {
	parts := []string{e.Status}
	for _, s := range []string{e.Message, e.ErrorText, e.Detail} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, detailSep)
}

func (e *StatusError) Error() string {
	return e.Reason()
}

// TransportError is a failed weather lookup: a network failure, a non-2xx
// status or an unusable body.
type TransportError struct {
	Reason string
	Err    error
}

func newTransportError(err error) *TransportError {
	reason := err.Error()
	var se *StatusError
	if errors.As(err, &se) {
		reason = se.Reason()
	}
	if reason == "" {
		reason = "unknown error"
	}
	return &TransportError{Reason: reason, Err: err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to load weather data (%s)", e.Reason)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
