package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/kelsos/meili-tasks/internal/models"
)

// Decode interprets body as T, falling back to the service error shape.
// It returns either a value, a *models.ServiceError, or a *DecodeError.
func Decode[T any](body []byte) (*T, error) {
	var value T
	successErr := json.Unmarshal(body, &value)
	if successErr == nil {
		return &value, nil
	}

	var serviceErr models.ServiceError
	if err := json.Unmarshal(body, &serviceErr); err == nil && serviceErr.Code != "" && serviceErr.Message != "" {
		return nil, &serviceErr
	}

	return nil, &DecodeError{Body: body, Err: successErr}
}

// Fetch issues a GET through transport and decodes the body as T. A service
// error is stamped with the HTTP status that carried it.
func Fetch[T any](ctx context.Context, transport Transport, endpoint string, query url.Values) (*T, error) {
	resp, err := transport.Get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	value, err := Decode[T](resp.Body)
	if err != nil {
		var serviceErr *models.ServiceError
		if errors.As(err, &serviceErr) {
			serviceErr.StatusCode = resp.StatusCode
		}
		return nil, err
	}
	return value, nil
}
