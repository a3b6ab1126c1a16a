package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/auth0/go-jwks-validator/core"
)

// ErrorHandler converts validation errors to gRPC status errors.
type ErrorHandler func(error) error

// DefaultErrorHandler maps JWT validation errors to gRPC status codes:
//   - malformed authorization metadata: InvalidArgument
//   - missing token, invalid token, missing kid, unknown kid: Unauthenticated
//   - anything else: Internal
func DefaultErrorHandler(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrMultipleAuthHeaders) ||
		errors.Is(err, ErrInvalidAuthFormat) ||
		errors.Is(err, ErrUnsupportedScheme) {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	switch core.KindOf(err) {
	case core.KindMissing:
		return status.Error(codes.Unauthenticated, "missing credentials")
	case core.KindInvalidToken:
		return status.Error(codes.Unauthenticated, "invalid token")
	case core.KindTokenMissingKeyID:
		return status.Error(codes.Unauthenticated, "token header has no key id")
	case core.KindNoMatchKey:
		return status.Error(codes.Unauthenticated, "no key matches the token key id")
	default:
		return status.Error(codes.Internal, "unable to verify token")
	}
}
