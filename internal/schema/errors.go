package schema

import (
	"errors"
	"strings"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// Issue codes.
const (
	CodeRequired = "required"
	CodeType     = "type"
	CodeEnum     = "enum"
	CodeRange    = "range"
	CodeLength   = "length"
)

// Issue describes one field that failed validation.
type Issue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	path := i.Path
	if path == "" {
		path = "(root)"
	}
	return path + ": " + i.Message
}

// ValidationError lists every issue found in a value.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Paths returns the paths of all issues, in order.
func (e *ValidationError) Paths() []string {
	paths := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		paths[i] = issue.Path
	}
	return paths
}
