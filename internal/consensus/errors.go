package consensus

import (
	"fmt"
	"time"
)

// ConfigurationError rejects an Engine configuration at construction.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("consensus config: %s=%s: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// InputError rejects a peer set before any iteration runs.
type InputError struct {
	Index  int // offending peer index, -1 for the whole set
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Index < 0 {
		return "consensus input: " + e.Reason
	}
	return fmt.Sprintf("consensus input: peer %d: %s", e.Index, e.Reason)
}

func (e *InputError) Unwrap() error { return e.Err }

// ConvergenceExceededError reports that every allowed step ran without
// convergence. The caller may retry with fresh peer states.
type ConvergenceExceededError struct {
	MaxSteps int
	Elapsed  time.Duration
	Trace    []Step
}

func (e *ConvergenceExceededError) Error() string {
	return fmt.Sprintf("consensus: maximum steps (%d) exceeded after %s", e.MaxSteps, e.Elapsed)
}
