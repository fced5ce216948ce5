package sentiment

import "fmt"

// InitializationError reports that analyzer resources could not be built.
// It is fatal: no Scorer can be constructed without Resources.
type InitializationError struct {
	Component string
	Err       error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("[Sentiment] failed to initialize %s: %v", e.Component, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}
