package function

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dispatch pipeline. Use errors.Is to check.
var (
	ErrUnknownFunction  = errors.New("unknown function")
	ErrFunctionDisabled = errors.New("function is disabled")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrDuplicateTool    = errors.New("tool already registered")
)

// ValidationError reports a missing, unknown, mistyped, or out-of-enum
// argument. Param names the offending parameter.
type ValidationError struct {
	Param   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missingRequired(name string) *ValidationError {
	return &ValidationError{
		Param:   name,
		Message: fmt.Sprintf("missing required parameter: %s", name),
	}
}

func unknownParameter(name string) *ValidationError {
	return &ValidationError{
		Param:   name,
		Message: fmt.Sprintf("unknown parameter: %s", name),
	}
}

func invalidType(name string, detail string) *ValidationError {
	return &ValidationError{
		Param:   name,
		Message: fmt.Sprintf("invalid type for %s: %s", name, detail),
	}
}

func invalidEnumValue(name string, allowed []string) *ValidationError {
	return &ValidationError{
		Param:   name,
		Message: fmt.Sprintf("invalid value for %s, must be one of %v", name, allowed),
	}
}
