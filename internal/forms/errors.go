package forms

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when a step lies outside [1, MaxSteps].
var ErrOutOfRange = errors.New("forms: step out of range")

// ConfigurationError reports a step budget that exceeds the proven bound.
type ConfigurationError struct {
	MaxSteps int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("forms: max steps %d outside [1, %d]", e.MaxSteps, MaxSteps)
}
