package llm

import (
	"errors"
	"fmt"
)

// GatewayError is returned when the completion call fails at the transport
// level or comes back with a non-success status. StatusCode is 0 for
// transport failures.
type GatewayError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("gateway request failed: %v", e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("gateway error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gateway error (status %d): %s", e.StatusCode, e.Body)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsGatewayError reports whether err is a GatewayError.
func IsGatewayError(err error) bool {
	var g *GatewayError
	return errors.As(err, &g)
}
