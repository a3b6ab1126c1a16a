// Package jwtgin adapts the JWT middleware to the Gin router.
package jwtgin

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	jwtmiddleware "github.com/auth0/go-jwks-validator"
	"github.com/auth0/go-jwks-validator/core"
	"github.com/auth0/go-jwks-validator/validator"
)

// DefaultClaimsKey is the gin.Context key verified claims are stored under.
const DefaultClaimsKey = "jwt"

var (
	ErrMissingClaims = errors.New("no JWT claims found in context")
	ErrInvalidClaims = errors.New("invalid JWT claims type")
)

type ginContextKey struct{}

type ginMiddlewareConfig struct {
	errorHandler      func(*gin.Context, error)
	claimsKey         string
	middlewareOptions []jwtmiddleware.Option
}

// New creates a Gin middleware that validates the bearer token of each
// request with c. Verified claims are stored on the gin.Context under
// DefaultClaimsKey and in the request context.
func New(c *core.Core, opts ...Option) (gin.HandlerFunc, error) {
	config := &ginMiddlewareConfig{
		errorHandler: defaultErrorHandler,
		claimsKey:    DefaultClaimsKey,
	}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	middlewareOpts := append([]jwtmiddleware.Option{
		jwtmiddleware.WithCore(c),
		jwtmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			gc, ok := r.Context().Value(ginContextKey{}).(*gin.Context)
			if !ok {
				jwtmiddleware.DefaultErrorHandler(w, r, err)
				return
			}
			config.errorHandler(gc, err)
		}),
	}, config.middlewareOptions...)

	middleware, err := jwtmiddleware.New(middlewareOpts...)
	if err != nil {
		return nil, err
	}

	return func(gc *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			gc.Request = r

			if claims, err := core.GetClaims[validator.Claims](r.Context()); err == nil {
				gc.Set(config.claimsKey, claims)
			}

			gc.Next()
		})

		r := gc.Request.WithContext(context.WithValue(gc.Request.Context(), ginContextKey{}, gc))
		middleware.CheckJWT(next).ServeHTTP(gc.Writer, r)

		if !passed {
			gc.Abort()
		}
	}, nil
}

// defaultErrorHandler writes the same responses as
// jwtmiddleware.DefaultErrorHandler and aborts the chain.
func defaultErrorHandler(gc *gin.Context, err error) {
	jwtmiddleware.DefaultErrorHandler(gc.Writer, gc.Request, err)
	gc.Abort()
}

// GetClaims returns the verified claims stored by the middleware.
// key defaults to DefaultClaimsKey when empty.
func GetClaims(gc *gin.Context, key string) (validator.Claims, error) {
	if key == "" {
		key = DefaultClaimsKey
	}
	claims, exists := gc.Get(key)
	if !exists {
		return nil, ErrMissingClaims
	}

	validated, ok := claims.(validator.Claims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return validated, nil
}
