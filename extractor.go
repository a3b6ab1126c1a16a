package jwtmiddleware

import (
	"errors"
	"net/http"
	"strings"
)

// TokenExtractor is a function that takes a request as input and returns
// either a token or an error. An error should only be returned if a token was
// presented but is malformed. A token that is simply not present yields ""
// and no error.
type TokenExtractor func(r *http.Request) (string, error)

// ErrAuthHeaderFormat is returned when the Authorization header is not a
// bearer credential.
var ErrAuthHeaderFormat = errors.New("authorization header format must be Bearer {token}")

// AuthHeaderTokenExtractor extracts a bearer token from the Authorization header.
func AuthHeaderTokenExtractor(r *http.Request) (string, error) {
	return bearerToken(r.Header.Get("Authorization"))
}

// HeaderTokenExtractor builds a TokenExtractor that reads a bearer token from
// the named header instead of Authorization.
func HeaderTokenExtractor(header string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		return bearerToken(r.Header.Get(header))
	}
}

func bearerToken(value string) (string, error) {
	if value == "" {
		return "", nil
	}

	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrAuthHeaderFormat
	}

	return parts[1], nil
}

// CookieTokenExtractor builds a TokenExtractor that reads the token from the
// cookie named cookieName.
func CookieTokenExtractor(cookieName string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		cookie, err := r.Cookie(cookieName)
		if errors.Is(err, http.ErrNoCookie) {
			return "", nil
		}
		if err != nil {
			return "", err
		}

		return cookie.Value, nil
	}
}

// ParameterTokenExtractor returns a TokenExtractor that extracts
// the token from the specified query string parameter.
func ParameterTokenExtractor(param string) TokenExtractor {
	return func(r *http.Request) (string, error) {
		return r.URL.Query().Get(param), nil
	}
}

// MultiTokenExtractor returns a TokenExtractor that tries extractors in order
// and returns the first non-empty token. The first error stops the search.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			token, err := ex(r)
			if err != nil {
				return "", err
			}

			if token != "" {
				return token, nil
			}
		}
		return "", nil
	}
}
