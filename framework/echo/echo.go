// Package jwtecho adapts the JWT middleware to the Echo framework.
package jwtecho

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	jwtmiddleware "github.com/auth0/go-jwks-validator"
	"github.com/auth0/go-jwks-validator/core"
	"github.com/auth0/go-jwks-validator/validator"
)

// DefaultClaimsKey is the echo.Context key verified claims are stored under.
const DefaultClaimsKey = "jwt"

type echoContextKey struct{}

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	errorHandler      func(echo.Context, error) error
	claimsKey         string
	middlewareOptions []jwtmiddleware.Option
}

// New creates an Echo middleware that validates the bearer token of each
// request with c. Verified claims are stored on the echo.Context under
// DefaultClaimsKey and in the request context.
func New(c *core.Core, opts ...Option) (echo.MiddlewareFunc, error) {
	config := &echoMiddlewareConfig{
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
			state, ok := r.Context().Value(echoContextKey{}).(*requestState)
			if !ok {
				jwtmiddleware.DefaultErrorHandler(w, r, err)
				return
			}
			state.err = config.errorHandler(state.ctx, err)
		}),
	}, config.middlewareOptions...)

	middleware, err := jwtmiddleware.New(middlewareOpts...)
	if err != nil {
		return nil, err
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ec echo.Context) error {
			state := &requestState{ctx: ec}
			handler := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				ec.SetRequest(r)

				if claims, err := core.GetClaims[validator.Claims](r.Context()); err == nil {
					ec.Set(config.claimsKey, claims)
				}

				state.err = next(ec)
			})

			r := ec.Request()
			r = r.WithContext(context.WithValue(r.Context(), echoContextKey{}, state))
			middleware.CheckJWT(handler).ServeHTTP(ec.Response(), r)

			return state.err
		}
	}, nil
}

// requestState carries the echo.Context into the error handler and the
// handler's result back out of the net/http chain.
type requestState struct {
	ctx echo.Context
	err error
}

// defaultErrorHandler writes the same responses as
// jwtmiddleware.DefaultErrorHandler.
func defaultErrorHandler(ec echo.Context, err error) error {
	jwtmiddleware.DefaultErrorHandler(ec.Response(), ec.Request(), err)
	return nil
}

// GetClaims returns the verified claims stored by the middleware.
// key defaults to DefaultClaimsKey when empty.
func GetClaims(ec echo.Context, key string) (validator.Claims, bool) {
	if key == "" {
		key = DefaultClaimsKey
	}
	claims, ok := ec.Get(key).(validator.Claims)
	return claims, ok
}
