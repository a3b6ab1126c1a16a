package jwtecho

import (
	"errors"

	"github.com/labstack/echo/v4"

	jwtmiddleware "github.com/auth0/go-jwks-validator"
)

// Option is a function that configures the middleware
type Option func(*echoMiddlewareConfig) error

// WithErrorHandler sets a custom error handler. A non-nil return value is
// passed on to Echo's HTTPErrorHandler.
func WithErrorHandler(handler func(echo.Context, error) error) Option {
	return func(config *echoMiddlewareConfig) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		config.errorHandler = handler
		return nil
	}
}

// WithClaimsKey sets a custom context key to store claims
func WithClaimsKey(key string) Option {
	return func(config *echoMiddlewareConfig) error {
		if key == "" {
			return errors.New("claims key cannot be empty")
		}
		config.claimsKey = key
		return nil
	}
}

// WithTokenExtractor sets a custom token extractor
func WithTokenExtractor(extractor jwtmiddleware.TokenExtractor) Option {
	return WithMiddlewareOptions(jwtmiddleware.WithTokenExtractor(extractor))
}

// WithMiddlewareOptions passes options through to the underlying
// jwtmiddleware.JWTMiddleware.
func WithMiddlewareOptions(opts ...jwtmiddleware.Option) Option {
	return func(config *echoMiddlewareConfig) error {
		config.middlewareOptions = append(config.middlewareOptions, opts...)
		return nil
	}
}
