package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrProjectNotFound = errors.New("project not found")

// ValidationError reports a request that cannot be composed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// MissingFieldError is the ValidationError raised for absent or empty fields.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Unwrap lets errors.As match MissingFieldError as a ValidationError.
func (e *MissingFieldError) Unwrap() error {
	return &ValidationError{Message: "Missing required fields"}
}

// UnknownTypeError reports a contract type or visual component with no template.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown contract type: %s", e.Type)
}

// CompileError carries the compiler's error output.
type CompileError struct {
	ExitCode int
	Output   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile failed (exit %d): %s", e.ExitCode, e.Output)
}

// PublishError carries the publisher's error output.
type PublishError struct {
	ExitCode int
	Output   string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish failed (exit %d): %s", e.ExitCode, e.Output)
}

type CompileTimeoutError struct {
	Timeout time.Duration
}

func (e *CompileTimeoutError) Error() string {
	return fmt.Sprintf("compile timed out after %s", e.Timeout)
}

type PublishTimeoutError struct {
	Timeout time.Duration
}

func (e *PublishTimeoutError) Error() string {
	return fmt.Sprintf("publish timed out after %s", e.Timeout)
}

// StorageError wraps a ledger failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DeployError attaches the contract type's failure message to a pipeline error.
type DeployError struct {
	Message string
	Err     error
}

func (e *DeployError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *DeployError) Unwrap() error { return e.Err }

// Details returns the tool output or cause to surface next to a failure message.
func Details(err error) string {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Output
	}
	var pe *PublishError
	if errors.As(err, &pe) {
		return pe.Output
	}
	return err.Error()
}
