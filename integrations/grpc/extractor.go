package grpc

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/metadata"
)

// TokenExtractor extracts JWT tokens from gRPC metadata.
// A missing token yields "" and no error.
type TokenExtractor func(ctx context.Context) (string, error)

// Extractor errors
var (
	// ErrMultipleAuthHeaders indicates multiple authorization metadata entries were provided.
	ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

	// ErrInvalidAuthFormat indicates the authorization metadata format is invalid.
	ErrInvalidAuthFormat = errors.New("invalid authorization metadata format, expected: Bearer <token>")

	// ErrUnsupportedScheme indicates an unsupported authorization scheme was used.
	ErrUnsupportedScheme = errors.New("unsupported authorization scheme, expected: Bearer")
)

// MetadataTokenExtractor extracts a bearer token from the "authorization"
// metadata key. gRPC lowercases incoming metadata keys.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	return MetadataKeyTokenExtractor("authorization")(ctx)
}

// MetadataKeyTokenExtractor builds a TokenExtractor that reads a bearer
// token from the given metadata key.
func MetadataKeyTokenExtractor(key string) TokenExtractor {
	key = strings.ToLower(key)
	return func(ctx context.Context) (string, error) {
		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return "", nil
		}

		values := md.Get(key)
		switch len(values) {
		case 0:
			return "", nil
		case 1:
		default:
			return "", ErrMultipleAuthHeaders
		}

		parts := strings.Fields(values[0])
		if len(parts) != 2 {
			return "", ErrInvalidAuthFormat
		}
		if !strings.EqualFold(parts[0], "bearer") {
			return "", ErrUnsupportedScheme
		}

		return parts[1], nil
	}
}
