package jwtmiddleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/auth0/go-jwks-validator/core"
)

var (
	// ErrJWTMissing is returned when the JWT is missing.
	ErrJWTMissing = core.ErrJWTMissing

	// ErrJWTInvalid is returned when the JWT is invalid.
	ErrJWTInvalid = errors.New("jwt invalid")
)

// ErrorHandler is a handler which is called when an error occurs in the
// JWTMiddleware. Among some general errors, this handler also determines the
// response of the JWTMiddleware when a token is not found or is invalid. The
// err can be checked to be ErrJWTMissing or ErrJWTInvalid for specific cases,
// and with core.KindOf for the exact validation failure.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// ErrorResponse is the JSON body written by DefaultErrorHandler.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorCode        string `json:"error_code,omitempty"`
}

// DefaultErrorHandler is the default error handler implementation for the
// JWTMiddleware. If an error handler is not provided via the WithErrorHandler
// option this will be used.
//
// Responses:
//   - missing token: 400 invalid_request
//   - invalid token, missing kid or unknown kid: 401 invalid_token
//   - any other error: 500 server_error
//
// 4xx responses carry an RFC 6750 WWW-Authenticate challenge.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := mapError(err)

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusInternalServerError {
		w.Header().Set("WWW-Authenticate", challenge(resp))
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func mapError(err error) (int, ErrorResponse) {
	switch kind := core.KindOf(err); kind {
	case core.KindMissing:
		return http.StatusBadRequest, ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "JWT is missing",
		}
	case core.KindInvalidToken:
		return http.StatusUnauthorized, ErrorResponse{
			Error:            "invalid_token",
			ErrorDescription: "The access token is invalid",
			ErrorCode:        kind.String(),
		}
	case core.KindTokenMissingKeyID:
		return http.StatusUnauthorized, ErrorResponse{
			Error:            "invalid_token",
			ErrorDescription: "The access token header has no key ID",
			ErrorCode:        kind.String(),
		}
	case core.KindNoMatchKey:
		return http.StatusUnauthorized, ErrorResponse{
			Error:            "invalid_token",
			ErrorDescription: "Unable to verify the access token",
			ErrorCode:        kind.String(),
		}
	}

	if errors.Is(err, ErrJWTInvalid) {
		return http.StatusUnauthorized, ErrorResponse{
			Error:            "invalid_token",
			ErrorDescription: "JWT is invalid",
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error:            "server_error",
		ErrorDescription: "Something went wrong while checking the JWT",
	}
}

func challenge(resp ErrorResponse) string {
	return fmt.Sprintf(`Bearer error=%q, error_description=%q`, resp.Error, resp.ErrorDescription)
}

// invalidError handles wrapping a JWT validation error with
// the concrete error ErrJWTInvalid. We do not expose this
// publicly because the interface methods of Is and Unwrap
// should give the user all they need.
type invalidError struct {
	details error
}

// Is allows the error to support equality to ErrJWTInvalid.
func (e *invalidError) Is(target error) bool {
	return target == ErrJWTInvalid
}

// Error returns a string representation of the error.
func (e *invalidError) Error() string {
	return fmt.Sprintf("%s: %s", ErrJWTInvalid, e.details)
}

// Unwrap allows the error to support equality to the
// underlying error and not just ErrJWTInvalid.
func (e *invalidError) Unwrap() error {
	return e.details
}
