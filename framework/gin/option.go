package jwtgin

import (
	"errors"

	"github.com/gin-gonic/gin"

	jwtmiddleware "github.com/auth0/go-jwks-validator"
)

// Option defines a functional option for configuring the middleware
type Option func(*ginMiddlewareConfig) error

// WithErrorHandler sets a custom error handler for the middleware.
// The handler is responsible for writing the response and aborting.
func WithErrorHandler(handler func(*gin.Context, error)) Option {
	return func(config *ginMiddlewareConfig) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		config.errorHandler = handler
		return nil
	}
}

// WithClaimsKey sets the gin.Context key claims are stored under.
func WithClaimsKey(key string) Option {
	return func(config *ginMiddlewareConfig) error {
		if key == "" {
			return errors.New("claims key cannot be empty")
		}
		config.claimsKey = key
		return nil
	}
}

// WithTokenExtractor sets a custom token extractor.
func WithTokenExtractor(extractor jwtmiddleware.TokenExtractor) Option {
	return WithMiddlewareOptions(jwtmiddleware.WithTokenExtractor(extractor))
}

// WithMiddlewareOptions passes options through to the underlying
// jwtmiddleware.JWTMiddleware, such as WithExclusionUrls or WithLogger.
func WithMiddlewareOptions(opts ...jwtmiddleware.Option) Option {
	return func(config *ginMiddlewareConfig) error {
		config.middlewareOptions = append(config.middlewareOptions, opts...)
		return nil
	}
}
