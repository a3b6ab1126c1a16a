package jwks

import "errors"

// ErrInvalidDocument is returned when a JWKS document cannot be parsed or
// does not have the expected shape. It indicates bad data from the key
// provider rather than a bad end-user request.
var ErrInvalidDocument = errors.New("invalid jwks document")

// DocumentError wraps the underlying parse or shape failure of a JWKS document.
// It always matches ErrInvalidDocument with errors.Is.
type DocumentError struct {
	// Message is a human-readable error message
	Message string

	// Details contains the underlying error
	Details error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	if e.Details != nil {
		return ErrInvalidDocument.Error() + ": " + e.Message + ": " + e.Details.Error()
	}
	return ErrInvalidDocument.Error() + ": " + e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *DocumentError) Unwrap() error {
	return e.Details
}

// Is allows the error to be compared with ErrInvalidDocument.
func (e *DocumentError) Is(target error) bool {
	return target == ErrInvalidDocument
}

func newDocumentError(message string, details error) *DocumentError {
	return &DocumentError{
		Message: message,
		Details: details,
	}
}
