package jwtmiddleware

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/auth0/go-jwks-validator/core"
)

// JWTMiddleware validates the bearer token of each request with a core.Core
// and stores the verified claims in the request context.
type JWTMiddleware struct {
	core                *core.Core
	errorHandler        ErrorHandler
	tokenExtractor      TokenExtractor
	validateOnOptions   bool
	exclusionUrlHandler ExclusionUrlHandler
	logger              Logger
	tracer              trace.Tracer
}

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ExclusionUrlHandler is a function that takes in a http.Request and returns
// true if the request should be excluded from JWT validation.
type ExclusionUrlHandler func(r *http.Request) bool

// New constructs a new JWTMiddleware instance with the supplied options.
// WithCore is required.
//
// Example:
//
//	c, err := core.New(core.WithValidator(v), core.WithKeyStore(store))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	middleware, err := jwtmiddleware.New(jwtmiddleware.WithCore(c))
//	if err != nil {
//	    log.Fatalf("failed to create middleware: %v", err)
//	}
func New(opts ...Option) (*JWTMiddleware, error) {
	m := &JWTMiddleware{
		validateOnOptions: true,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if m.core == nil {
		return nil, fmt.Errorf("invalid middleware configuration: %w", ErrCoreNil)
	}

	m.applyDefaults()

	return m, nil
}

// applyDefaults sets secure default values for optional fields
func (m *JWTMiddleware) applyDefaults() {
	if m.errorHandler == nil {
		m.errorHandler = DefaultErrorHandler
	}
	if m.tokenExtractor == nil {
		m.tokenExtractor = AuthHeaderTokenExtractor
	}
	if m.tracer == nil {
		m.tracer = defaultTracer()
	}
}

// GetClaims retrieves claims from the context with type safety using generics.
//
// Example:
//
//	claims, err := jwtmiddleware.GetClaims[validator.Claims](r.Context())
//	if err != nil {
//	    http.Error(w, "failed to get claims", http.StatusInternalServerError)
//	    return
//	}
//	fmt.Println(claims.Subject())
func GetClaims[T any](ctx context.Context) (T, error) {
	return core.GetClaims[T](ctx)
}

// MustGetClaims retrieves claims from the context or panics.
// Use only when you are certain claims exist (e.g., after middleware has run).
func MustGetClaims[T any](ctx context.Context) T {
	claims, err := core.GetClaims[T](ctx)
	if err != nil {
		panic(err)
	}
	return claims
}

// HasClaims checks if claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}

// CheckJWT is the main JWTMiddleware function which performs the main logic. It
// is passed a http.Handler which will be called if the JWT passes validation.
func (m *JWTMiddleware) CheckJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.exclusionUrlHandler != nil && m.exclusionUrlHandler(r) {
			if m.logger != nil {
				m.logger.Debug("skipping JWT validation for excluded URL",
					"method", r.Method,
					"path", r.URL.Path)
			}
			next.ServeHTTP(w, r)
			return
		}

		if !m.validateOnOptions && r.Method == http.MethodOptions {
			if m.logger != nil {
				m.logger.Debug("skipping JWT validation for OPTIONS request")
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx, span := startRequestSpan(r.Context(), m.tracer, r)
		defer span.End()

		token, err := m.tokenExtractor(r)
		if err != nil {
			// An extractor error means a token was presented but malformed,
			// not that it was missing.
			if m.logger != nil {
				m.logger.Error("failed to extract token from request",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path)
			}
			err = fmt.Errorf("error extracting token: %w", err)
			endRequestSpan(span, err)
			m.errorHandler(w, r, err)
			return
		}

		claims, err := m.core.CheckToken(ctx, token)
		if err != nil {
			if m.logger != nil {
				m.logger.Warn("JWT validation failed",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path)
			}
			if core.KindOf(err) != core.KindMissing {
				err = &invalidError{details: err}
			}
			endRequestSpan(span, err)
			m.errorHandler(w, r, err)
			return
		}
		endRequestSpan(span, nil)

		// Credentials are optional and none were presented.
		if claims == nil {
			if m.logger != nil {
				m.logger.Debug("no credentials provided, continuing without claims (credentials optional)")
			}
			next.ServeHTTP(w, r)
			return
		}

		r = r.Clone(core.SetClaims(r.Context(), claims))
		next.ServeHTTP(w, r)
	})
}
