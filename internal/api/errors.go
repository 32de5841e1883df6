package api

import (
	"errors"
	"fmt"
)

// ErrMissingGlobal means the game page lacks one of the injected globals.
var ErrMissingGlobal = errors.New("game page is missing injected state")

// HTTPError is a non-2xx response.
type HTTPError struct {
	Endpoint string
	Status   int
	Message  string // "error" field of the body, if any
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Endpoint, e.Status)
}

// AppError is a 2xx response carrying success=false.
type AppError struct {
	Endpoint string
	Message  string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return e.Endpoint + ": request was not successful"
	}
	return e.Endpoint + ": " + e.Message
}

// IsConnection reports whether err is a transport failure or a non-2xx
// status, as opposed to an application-level rejection.
func IsConnection(err error) bool {
	if err == nil {
		return false
	}
	var app *AppError
	return !errors.As(err, &app)
}
