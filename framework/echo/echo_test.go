package jwtecho

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwtmiddleware "github.com/auth0/go-jwks-validator"
	"github.com/auth0/go-jwks-validator/core"
	"github.com/auth0/go-jwks-validator/internal/jwttest"
	"github.com/auth0/go-jwks-validator/validator"
)

func TestNew(t *testing.T) {
	key := jwttest.NewKey(t, "signing-key")
	c := jwttest.NewCore(t, []jwttest.Key{key})
	validToken := jwttest.Sign(t, key, jwttest.Claims("user-1"))

	testCases := []struct {
		name       string
		options    []Option
		claimsKey  string
		cookie     bool
		authHeader string
		handlerErr error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "valid token reaches the handler",
			authHeader: "Bearer " + validToken,
			wantStatus: http.StatusOK,
			wantBody:   "user-1",
		},
		{
			name:       "missing token is rejected",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "token without kid is rejected",
			authHeader: "Bearer eyJhbGciOiJSUzI1NiJ9.e30.c2ln",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "custom error handler returns an echo error",
			options: []Option{WithErrorHandler(func(_ echo.Context, err error) error {
				return echo.NewHTTPError(http.StatusForbidden, core.KindOf(err).String())
			})},
			wantStatus: http.StatusForbidden,
			wantBody:   `{"message":"missing"}` + "\n",
		},
		{
			name:       "custom claims key",
			options:    []Option{WithClaimsKey("claims")},
			claimsKey:  "claims",
			authHeader: "Bearer " + validToken,
			wantStatus: http.StatusOK,
			wantBody:   "user-1",
		},
		{
			name:       "custom token extractor",
			options:    []Option{WithTokenExtractor(jwtmiddleware.CookieTokenExtractor("jwt"))},
			cookie:     true,
			wantStatus: http.StatusOK,
			wantBody:   "user-1",
		},
		{
			name:       "handler errors are propagated",
			authHeader: "Bearer " + validToken,
			handlerErr: echo.NewHTTPError(http.StatusConflict, "conflict"),
			wantStatus: http.StatusConflict,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			mw, err := New(c, testCase.options...)
			require.NoError(t, err)

			e := echo.New()
			e.Use(mw)
			e.GET("/", func(ec echo.Context) error {
				if testCase.handlerErr != nil {
					return testCase.handlerErr
				}
				claims, ok := GetClaims(ec, testCase.claimsKey)
				if !ok {
					return ec.String(http.StatusOK, "anonymous")
				}
				return ec.String(http.StatusOK, claims.Subject())
			})

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if testCase.authHeader != "" {
				request.Header.Set("Authorization", testCase.authHeader)
			}
			if testCase.cookie {
				request.AddCookie(&http.Cookie{Name: "jwt", Value: validToken})
			}
			recorder := httptest.NewRecorder()
			e.ServeHTTP(recorder, request)

			assert.Equal(t, testCase.wantStatus, recorder.Code)
			if testCase.wantBody != "" {
				assert.Equal(t, testCase.wantBody, recorder.Body.String())
			}
		})
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	c := jwttest.NewCore(t, []jwttest.Key{jwttest.NewKey(t, "signing-key")})

	_, err := New(c, WithErrorHandler(nil))
	assert.EqualError(t, err, "invalid option: error handler cannot be nil")

	_, err = New(c, WithClaimsKey(""))
	assert.EqualError(t, err, "invalid option: claims key cannot be empty")

	_, err = New(nil)
	assert.True(t, errors.Is(err, jwtmiddleware.ErrCoreNil))
}

func TestGetClaims(t *testing.T) {
	e := echo.New()
	ec := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, ok := GetClaims(ec, "")
	assert.False(t, ok)

	ec.Set(DefaultClaimsKey, validator.Claims{"sub": "user-1"})
	claims, ok := GetClaims(ec, "")
	require.True(t, ok)
	assert.Equal(t, "user-1", claims.Subject())
}
