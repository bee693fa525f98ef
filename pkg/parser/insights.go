package parser

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// InsightsField is the response key holding the insight text.
	InsightsField = "insights"
	// ErrorField holds the message of a failure reported with a 2xx status.
	ErrorField = "error"
)

var ErrNoInsights = errors.New("response has no insights field")

// ServiceError is a failure the analysis service reported in a success body.
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

// ParseInsights extracts the insight text from a success body.
func ParseInsights(body []byte) (string, error) {
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}

	raw, ok := resp[InsightsField]
	if !ok || string(raw) == "null" {
		var msg string
		if err := json.Unmarshal(resp[ErrorField], &msg); err == nil && msg != "" {
			return "", &ServiceError{Message: msg}
		}
		return "", ErrNoInsights
	}

	var insights string
	if err := json.Unmarshal(raw, &insights); err != nil {
		return "", fmt.Errorf("insights field is not a string: %w", err)
	}
	return insights, nil
}
