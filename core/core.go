// Package core provides framework-agnostic JWT validation logic that can be used
// across different transport layers (HTTP, gRPC, etc.).
//
// The Core type encapsulates the validation logic and can be wrapped by transport-specific
// adapters to provide JWT middleware functionality for various frameworks.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/auth0/go-jwks-validator/validator"
)

// TokenValidator verifies a token against the keys of a resolver.
// *validator.Validator satisfies this interface.
type TokenValidator interface {
	Validate(ctx context.Context, token string, keys validator.KeyResolver) (validator.Claims, error)
}

// KeyStore is the key index the Core validates against and rotates on refresh.
// *jwks.KeyStore satisfies this interface.
type KeyStore interface {
	validator.KeyResolver
	Rotate(jwksText string) error
}

// KeyRefresher returns the current JWKS document text. It is supplied by the
// caller; the Core never fetches keys itself.
type KeyRefresher func(ctx context.Context) (string, error)

// Logger defines an optional logging interface for the core middleware.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Core is the framework-agnostic JWT validation engine.
// It contains the core logic for token validation without any dependency
// on specific transport protocols (HTTP, gRPC, etc.).
type Core struct {
	validator           TokenValidator
	keys                KeyStore
	credentialsOptional bool
	logger              Logger

	refresher       KeyRefresher
	refreshInterval time.Duration
	limiter         *rate.Limiter
	refreshGroup    singleflight.Group
}

const refreshKey = "jwks"

// CheckToken validates a JWT token string and returns the validated claims.
//
// This is the core validation logic that is framework-agnostic:
//   - If token is empty and credentialsOptional is true, returns (nil, nil)
//   - If token is empty and credentialsOptional is false, returns ErrJWTMissing
//   - Otherwise, validates the token against the key store
//
// When the kid of the token is unknown and a KeyRefresher is configured, the
// key store is refreshed once and the token is validated a second time.
func (c *Core) CheckToken(ctx context.Context, token string) (validator.Claims, error) {
	if token == "" {
		if c.credentialsOptional {
			if c.logger != nil {
				c.logger.Debug("No token provided, but credentials are optional")
			}
			return nil, nil
		}

		if c.logger != nil {
			c.logger.Warn("No token provided and credentials are required")
		}

		return nil, ErrJWTMissing
	}

	start := time.Now()
	claims, err := c.validator.Validate(ctx, token, c.keys)
	if errors.Is(err, validator.ErrNoMatchKey) && c.refresher != nil {
		if refreshErr := c.refresh(ctx); refreshErr != nil {
			if c.logger != nil {
				c.logger.Warn("Key refresh skipped or failed", "error", refreshErr)
			}
		} else {
			claims, err = c.validator.Validate(ctx, token, c.keys)
		}
	}
	duration := time.Since(start)

	if err != nil {
		if c.logger != nil {
			c.logger.Error("Token validation failed",
				"error", err,
				"kind", KindOf(err).String(),
				"duration", duration)
		}

		return nil, err
	}

	if c.logger != nil {
		c.logger.Debug("Token validated successfully", "duration", duration)
	}

	return claims, nil
}

// refresh pulls a fresh document from the refresher and rotates the key store.
// Concurrent callers share one refresh; refreshes are throttled by the limiter.
func (c *Core) refresh(ctx context.Context) error {
	_, err, shared := c.refreshGroup.Do(refreshKey, func() (any, error) {
		if !c.limiter.Allow() {
			return nil, ErrRefreshThrottled
		}

		jwksText, err := c.refresher(ctx)
		if err != nil {
			return nil, fmt.Errorf("refresh jwks: %w", err)
		}

		if err := c.keys.Rotate(jwksText); err != nil {
			return nil, fmt.Errorf("rotate jwks: %w", err)
		}

		if c.logger != nil {
			c.logger.Info("Key store refreshed after unknown key id")
		}
		return nil, nil
	})

	if shared && c.logger != nil {
		c.logger.Debug("Joined an in-flight key refresh")
	}

	return err
}
