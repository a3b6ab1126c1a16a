package validator

import "errors"

// Sentinel errors for token validation. Callers branch on these with
// errors.Is; the wrapped details are for diagnostics only.
var (
	// ErrInvalidToken is returned when the token header cannot be decoded,
	// or when signature verification or payload decoding fails for any
	// reason (bad signature, expired, malformed payload, algorithm mismatch).
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenMissingKeyID is returned when the token header carries no kid.
	ErrTokenMissingKeyID = errors.New("token missing key id")

	// ErrNoMatchKey is returned when the kid of the token is not present in
	// the key store. A caller may refresh its JWKS and retry once.
	ErrNoMatchKey = errors.New("no matching key")
)

// Error codes carried by ValidationError.
const (
	ErrorCodeInvalidToken      = "invalid_token"
	ErrorCodeTokenMissingKeyID = "token_missing_kid"
	ErrorCodeNoMatchKey        = "no_match_key"
)

var codeSentinels = map[string]error{
	ErrorCodeInvalidToken:      ErrInvalidToken,
	ErrorCodeTokenMissingKeyID: ErrTokenMissingKeyID,
	ErrorCodeNoMatchKey:        ErrNoMatchKey,
}

// ValidationError wraps JWT validation errors with additional context.
// It provides structured error information that can be used for
// logging, metrics, and returning appropriate error responses.
type ValidationError struct {
	// Code is a machine-readable error code (e.g., "invalid_token", "no_match_key")
	Code string

	// Message is a human-readable error message
	Message string

	// Details contains the underlying error
	Details error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Details != nil {
		return e.Message + ": " + e.Details.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ValidationError) Unwrap() error {
	return e.Details
}

// Is allows the error to be compared with the sentinel matching its Code.
func (e *ValidationError) Is(target error) bool {
	sentinel, ok := codeSentinels[e.Code]
	return ok && target == sentinel
}

// NewValidationError creates a new ValidationError with the given code and message.
func NewValidationError(code, message string, details error) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
