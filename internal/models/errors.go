package models

import "fmt"

// ServiceError is a structured error body returned by the service. It is
// also the shape of the error attached to a failed task.
type ServiceError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Type    string `json:"type,omitempty"`
	Link    string `json:"link,omitempty"`

	// StatusCode is the HTTP status of the response that carried the error,
	// zero when the error was embedded in a task.
	StatusCode int `json:"-"`
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("service error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("service error (%s): %s", e.Code, e.Message)
}

// StatusDecodeError reports a task status outside the known literals.
type StatusDecodeError struct {
	Value string
}

func (e *StatusDecodeError) Error() string {
	return fmt.Sprintf("unknown task status %q", e.Value)
}
