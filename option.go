package jwtmiddleware

import (
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/auth0/go-jwks-validator/core"
)

// Option configures the JWTMiddleware.
// Returns error for validation failures.
type Option func(*JWTMiddleware) error

// WithCore sets the validation engine (REQUIRED).
//
// Example:
//
//	c, err := core.New(
//	    core.WithValidator(v),
//	    core.WithKeyStore(store),
//	    core.WithCredentialsOptional(false),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	middleware, err := jwtmiddleware.New(jwtmiddleware.WithCore(c))
func WithCore(c *core.Core) Option {
	return func(m *JWTMiddleware) error {
		if c == nil {
			return ErrCoreNil
		}
		m.core = c
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests should have their JWT validated.
//
// Default: true (OPTIONS requests are validated)
func WithValidateOnOptions(value bool) Option {
	return func(m *JWTMiddleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// WithErrorHandler sets the handler called when errors occur during JWT validation.
// See the ErrorHandler type for more information.
//
// Default: DefaultErrorHandler
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *JWTMiddleware) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		m.errorHandler = h
		return nil
	}
}

// WithTokenExtractor sets the function to extract the JWT from the request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(m *JWTMiddleware) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		m.tokenExtractor = e
		return nil
	}
}

// WithExclusionUrls configures URL patterns to exclude from JWT validation.
// URLs can be full URLs or just paths.
func WithExclusionUrls(exclusions []string) Option {
	return func(m *JWTMiddleware) error {
		if len(exclusions) == 0 {
			return ErrExclusionUrlsEmpty
		}
		excluded := make(map[string]struct{}, len(exclusions))
		for _, exclusion := range exclusions {
			excluded[exclusion] = struct{}{}
		}
		m.exclusionUrlHandler = func(r *http.Request) bool {
			if _, ok := excluded[r.URL.Path]; ok {
				return true
			}
			_, ok := excluded[r.URL.String()]
			return ok
		}
		return nil
	}
}

// WithLogger sets an optional logger for the middleware.
//
// The logger interface is compatible with log/slog.Logger. NewLogrusLogger,
// NewZapLogger and NewZerologLogger adapt the other supported loggers.
//
// Example:
//
//	middleware, err := jwtmiddleware.New(
//	    jwtmiddleware.WithCore(c),
//	    jwtmiddleware.WithLogger(slog.Default()),
//	)
func WithLogger(logger Logger) Option {
	return func(m *JWTMiddleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer for request spans.
//
// Default: the tracer of the global provider
func WithTracer(tracer trace.Tracer) Option {
	return func(m *JWTMiddleware) error {
		if tracer == nil {
			return ErrTracerNil
		}
		m.tracer = tracer
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrCoreNil            = errors.New("core cannot be nil (use WithCore)")
	ErrErrorHandlerNil    = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil  = errors.New("tokenExtractor cannot be nil")
	ErrExclusionUrlsEmpty = errors.New("exclusion URLs list cannot be empty")
	ErrLoggerNil          = errors.New("logger cannot be nil")
	ErrTracerNil          = errors.New("tracer cannot be nil")
)
