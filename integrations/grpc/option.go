package grpc

import (
	"errors"

	"github.com/auth0/go-jwks-validator/core"
)

// Option configures the JWT interceptor.
type Option func(*JWTInterceptor) error

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// WithCore sets the validation engine (REQUIRED).
//
// Example:
//
//	c, _ := core.New(core.WithValidator(v), core.WithKeyStore(store))
//	interceptor, _ := grpc.New(
//	    grpc.WithCore(c),
//	    grpc.WithLogger(logger),
//	)
func WithCore(c *core.Core) Option {
	return func(i *JWTInterceptor) error {
		if c == nil {
			return errors.New("core cannot be nil")
		}
		i.core = c
		return nil
	}
}

// WithLogger sets an optional logger for the interceptor.
// To log from the Core as well, pass the same logger to core.WithLogger.
func WithLogger(logger Logger) Option {
	return func(i *JWTInterceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.logger = logger
		return nil
	}
}

// WithTokenExtractor sets a custom token extractor function.
// Default is MetadataTokenExtractor which extracts from "authorization" metadata.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *JWTInterceptor) error {
		if extractor == nil {
			return errors.New("token extractor cannot be nil")
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler which maps errors to gRPC status codes.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *JWTInterceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods excludes specific gRPC methods from JWT validation.
// Methods should be provided in the format: "/package.Service/Method"
// Example: "/myapp.MyService/PublicMethod", "/grpc.health.v1.Health/Check"
func WithExcludedMethods(methods ...string) Option {
	return func(i *JWTInterceptor) error {
		for _, method := range methods {
			if method == "" {
				return errors.New("excluded method cannot be empty")
			}
			i.excludedMethods[method] = true
		}
		return nil
	}
}
