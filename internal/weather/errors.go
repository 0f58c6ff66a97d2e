package weather

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrCityRequired = errors.New("city parameter required")
	ErrNoProviders  = errors.New("no weather providers configured")
	ErrNoReadings   = errors.New("no weather provider returned data")
)

// UpstreamError is a non-2xx answer from a weather provider.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

// Status renders "<code> <reason>", e.g. "404 Not Found".
func (e *UpstreamError) Status() string {
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Status())
}
