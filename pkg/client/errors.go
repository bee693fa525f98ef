package client

import (
	"fmt"

	"github.com/helmcode/patient-assistant/pkg/parser"
)

// RequestFailedMessage stands in for an empty error body.
const RequestFailedMessage = "Request failed"

// TransportError wraps a failure to send the request or read the response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response. Its message is the body text.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return RequestFailedMessage
	}
	return e.Body
}

// ParseError is a 2xx response whose body could not be decoded.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Describe gives a one-line diagnostic for logs.
func Describe(err error) string {
	switch e := err.(type) {
	case *StatusError:
		return fmt.Sprintf("analysis service error (status %d)", e.StatusCode)
	case *ParseError:
		return "malformed analysis response"
	case *parser.ServiceError:
		return "analysis service reported an error"
	case *TransportError:
		return "analysis service unreachable"
	}
	return "submission failed"
}
