package entity

import "fmt"

// ValidationError reports a field mapping that failed schema validation,
// either while decoding into the model struct or while checking its
// validate tags. The underlying cause is available via Unwrap.
type ValidationError struct {
	Model string
	Err   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid field mapping: %v", e.Model, e.Err)
}

// Unwrap returns the underlying decode or validation error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ConfigError reports a model type that cannot back a codec, such as a
// non-struct type or a struct without an integer id field. It is raised
// when the codec is constructed, before any storage operation runs.
type ConfigError struct {
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "entity: " + e.Reason
}
