package predict

import "fmt"

// NetworkError wraps a transport-level failure: the request never produced a response.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response. Body holds the response text.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Server responded %d: %s", e.Code, e.Body)
}

// MalformedResponseError is a 2xx response whose body is not valid JSON.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to decode backend response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
