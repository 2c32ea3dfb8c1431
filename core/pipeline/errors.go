package pipeline

import "fmt"

// Kind classifies pipeline failures so the HTTP layer can map them to
// status codes without string matching.
type Kind int

const (
	KindValidation Kind = iota // missing or malformed input, no state mutated
	KindNotFound               // referenced id absent, no state mutated
	KindAsset                  // asset store upload/delete failure, partial state possible
	KindPersistence            // repository failure
)

// Error is the failure type returned by every pipeline operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func notFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func assetError(message string, err error) *Error {
	return &Error{Kind: KindAsset, Message: message, Err: err}
}

func persistenceError(message string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}
