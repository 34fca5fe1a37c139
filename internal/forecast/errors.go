package forecast

import "errors"

// Forecast errors.
var (
	ErrInvalidCoordinate = errors.New("invalid coordinates")
	ErrLocationNotSet    = errors.New("location not set")
)

// ValidationError reports a request parameter that cannot be sent to the
// provider. Hint carries the user-displayable message.
type ValidationError struct {
	Field string
	Hint  string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Hint
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ProviderError wraps any failure of the forecast provider call.
// Message is safe to show to the end user; Err holds the technical cause
// and is only ever logged.
type ProviderError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
