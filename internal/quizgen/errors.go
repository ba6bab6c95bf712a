package quizgen

import "fmt"

// TransportError means the model could not be reached or refused the
// request: network failure, non-2xx status, timeout or missing credentials.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("quiz request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError means the model answered but the cleaned text is not JSON.
type ParseError struct {
	// Cleaned is the sanitized text that failed to parse.
	Cleaned string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("quiz response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
