package api

import "fmt"

// RequestError is any non-2xx backend response, carrying the HTTP status
// and the message extracted from the error body.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}
