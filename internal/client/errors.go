package client

import "fmt"

// TransportError means the request never produced a response: connection
// refused, DNS failure, cancelled context, unreadable body.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError means a response body matched neither the expected shape nor
// the service error shape. Err is the failure against the expected shape.
type DecodeError struct {
	Body []byte
	Err  error
}

func (e *DecodeError) Error() string {
	const maxBody = 256
	body := e.Body
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return fmt.Sprintf("error decoding response: %v (body: %q)", e.Err, body)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
