package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Handlers only need this interface; the concrete types below carry the
// conversion failure taxonomy.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors for errors.Is() matching.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrRuntimeNotFound = errors.New("runtime not found")
	ErrScriptNotFound  = errors.New("script not found")
	ErrTimeout         = errors.New("conversion timeout")
	ErrConversion      = errors.New("conversion failed")
)

// ValidationError indicates bad input shape, type, or size. Rejected before
// any file is staged or process spawned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UnauthorizedError indicates authentication failure.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// RuntimeNotFoundError indicates no interpreter candidate responded to a
// version probe.
type RuntimeNotFoundError struct {
	Candidates []string
}

func (e *RuntimeNotFoundError) Error() string {
	return "Python runtime not found. Please install Python 3 to use this conversion."
}
func (e *RuntimeNotFoundError) StatusCode() int { return http.StatusInternalServerError }
func (e *RuntimeNotFoundError) Is(target error) bool { return target == ErrRuntimeNotFound }

// ScriptNotFoundError indicates the worker script is absent from the
// deployment. A configuration error, surfaced without attempting invocation.
type ScriptNotFoundError struct {
	Script string
}

func (e *ScriptNotFoundError) Error() string {
	return fmt.Sprintf("Conversion script %s is missing from this deployment.", e.Script)
}
func (e *ScriptNotFoundError) StatusCode() int { return http.StatusInternalServerError }
func (e *ScriptNotFoundError) Is(target error) bool { return target == ErrScriptNotFound }

// DependencyMissingError indicates the worker reported an uninstalled
// third-party library.
type DependencyMissingError struct {
	Name string
}

func (e *DependencyMissingError) Error() string {
	return fmt.Sprintf("Required library %q is not installed on the server.", e.Name)
}
func (e *DependencyMissingError) StatusCode() int { return http.StatusInternalServerError }

// ConversionTimeoutError indicates the worker exceeded its invocation budget
// and was terminated.
type ConversionTimeoutError struct {
	Budget string
}

func (e *ConversionTimeoutError) Error() string {
	return fmt.Sprintf("Conversion timed out after %s.", e.Budget)
}
func (e *ConversionTimeoutError) StatusCode() int { return http.StatusInternalServerError }
func (e *ConversionTimeoutError) Is(target error) bool { return target == ErrTimeout }

// ConversionFailedError covers a non-zero worker exit or invalid output for
// any reason not classified more specifically.
type ConversionFailedError struct {
	Message string
}

func (e *ConversionFailedError) Error() string {
	if e.Message == "" {
		return "Conversion failed."
	}
	return e.Message
}
func (e *ConversionFailedError) StatusCode() int { return http.StatusInternalServerError }
func (e *ConversionFailedError) Is(target error) bool { return target == ErrConversion }
