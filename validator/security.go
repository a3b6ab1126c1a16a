package validator

import (
	"errors"
	"strings"
)

var (
	// ErrTokenNotCompact is returned when a token does not have the
	// header.payload.signature shape.
	ErrTokenNotCompact = errors.New("token is not in compact serialization (expected header.payload.signature)")

	// ErrTokenTooLarge is returned for tokens above maxTokenSize.
	ErrTokenTooLarge = errors.New("token exceeds maximum size (1MB)")
)

// maxTokenSize bounds the input before any decoding happens.
// Valid JWTs should rarely exceed a few KB.
const maxTokenSize = 1024 * 1024

// validateTokenFormat rejects inputs that cannot be a compact JWS before
// they reach the decoder. Only the compact form is accepted, so a JSON
// serialized JWS with several signatures never gets to key selection.
func validateTokenFormat(tokenString string) error {
	if len(tokenString) == 0 {
		return errors.New("token is empty")
	}

	if len(tokenString) > maxTokenSize {
		return ErrTokenTooLarge
	}

	if strings.Count(tokenString, ".") != 2 {
		return ErrTokenNotCompact
	}

	return nil
}
