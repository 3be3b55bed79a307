// Package shelferrors provides sentinel and custom error types for the application.
package shelferrors

// ErrDataLoad represents a catalog or corpus load failure.
// Use when a data source is missing or malformed at initialize time.
var ErrDataLoad = &DataLoadError{}

// DataLoadError is a sentinel error for data source load failures.
type DataLoadError struct {
	Source  string
	Message string
	Err     error
}

// NewDataLoadError creates a new DataLoadError with a custom message.
func NewDataLoadError(source, message string, err error) *DataLoadError {
	return &DataLoadError{
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *DataLoadError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Source != "" {
		return "failed to load " + e.Source
	}

	return "data load failed"
}

// Is implements the error interface for error comparison.
func (e *DataLoadError) Is(target error) bool {
	_, ok := target.(*DataLoadError)

	return ok
}

// Unwrap returns the underlying cause, if any.
func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// ErrModelInit represents an embedding model or index setup failure.
// Use when the semantic index cannot be built at initialize time.
var ErrModelInit = &ModelInitError{}

// ModelInitError is a sentinel error for embedding/index setup failures.
type ModelInitError struct {
	Message string
	Err     error
}

// NewModelInitError creates a new ModelInitError with a custom message.
func NewModelInitError(message string, err error) *ModelInitError {
	return &ModelInitError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *ModelInitError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "model initialization failed"
}

// Is implements the error interface for error comparison.
func (e *ModelInitError) Is(target error) bool {
	_, ok := target.(*ModelInitError)

	return ok
}

// Unwrap returns the underlying cause, if any.
func (e *ModelInitError) Unwrap() error {
	return e.Err
}

// ErrNotInitialized is the sentinel for recommend-before-initialize.
// This is a programming error on the caller's side; it is not retried automatically.
var ErrNotInitialized = &NotInitializedError{}

// NotInitializedError is a sentinel error for operations on an uninitialized engine.
type NotInitializedError struct {
	Message string
}

// NewNotInitializedError creates a NotInitializedError with a custom message.
func NewNotInitializedError(message string) *NotInitializedError {
	return &NotInitializedError{Message: message}
}

// Error implements the error interface.
func (e *NotInitializedError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "recommender not initialized"
}

// Is implements the error interface for error comparison.
func (e *NotInitializedError) Is(target error) bool {
	_, ok := target.(*NotInitializedError)

	return ok
}

// ErrRecommendation wraps any unexpected failure during a single recommend call.
// The failure is isolated to that call; engine state stays valid and the caller may retry.
var ErrRecommendation = &RecommendationError{}

// RecommendationError is a sentinel error for failures inside a recommend call.
type RecommendationError struct {
	Message string
	Err     error
}

// NewRecommendationError creates a RecommendationError wrapping a cause.
func NewRecommendationError(message string, err error) *RecommendationError {
	return &RecommendationError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *RecommendationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "recommendation failed"
}

// Is implements the error interface for error comparison.
func (e *RecommendationError) Is(target error) bool {
	_, ok := target.(*RecommendationError)

	return ok
}

// Unwrap returns the underlying cause, if any.
func (e *RecommendationError) Unwrap() error {
	return e.Err
}
