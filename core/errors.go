package core

import (
	"errors"

	"github.com/auth0/go-jwks-validator/jwks"
	"github.com/auth0/go-jwks-validator/validator"
)

// Sentinel errors for JWT validation.
var (
	// ErrJWTMissing is returned when the JWT is missing from the request.
	ErrJWTMissing = errors.New("jwt missing")

	// ErrClaimsNotFound is returned when claims cannot be retrieved from context.
	ErrClaimsNotFound = errors.New("claims not found in context")

	// ErrRefreshThrottled is returned by a refresh attempted before the
	// refresh interval has elapsed.
	ErrRefreshThrottled = errors.New("jwks refresh throttled")
)

// Kind is the class of a validation failure.
type Kind int

// The closed set of failure kinds.
const (
	KindUnknown Kind = iota
	KindMissing
	KindInvalidToken
	KindTokenMissingKeyID
	KindNoMatchKey
	KindInvalidDocument
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindInvalidToken:
		return validator.ErrorCodeInvalidToken
	case KindTokenMissingKeyID:
		return validator.ErrorCodeTokenMissingKeyID
	case KindNoMatchKey:
		return validator.ErrorCodeNoMatchKey
	case KindInvalidDocument:
		return "invalid_jwks_document"
	default:
		return "unknown"
	}
}

// KindOf classifies err. nil and unrecognized errors are KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrJWTMissing):
		return KindMissing
	case errors.Is(err, validator.ErrTokenMissingKeyID):
		return KindTokenMissingKeyID
	case errors.Is(err, validator.ErrNoMatchKey):
		return KindNoMatchKey
	case errors.Is(err, validator.ErrInvalidToken):
		return KindInvalidToken
	case errors.Is(err, jwks.ErrInvalidDocument):
		return KindInvalidDocument
	default:
		return KindUnknown
	}
}
