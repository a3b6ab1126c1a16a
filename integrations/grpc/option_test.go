package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/auth0/go-jwks-validator/internal/jwttest"
)

func TestNew_InvalidConfiguration(t *testing.T) {
	c := jwttest.NewCore(t, []jwttest.Key{jwttest.NewKey(t, "signing-key")})

	testCases := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{
			name:    "missing core",
			wantErr: "core is required, use WithCore option",
		},
		{
			name:    "nil core",
			opts:    []Option{WithCore(nil)},
			wantErr: "core cannot be nil",
		},
		{
			name:    "nil logger",
			opts:    []Option{WithCore(c), WithLogger(nil)},
			wantErr: "logger cannot be nil",
		},
		{
			name:    "nil token extractor",
			opts:    []Option{WithCore(c), WithTokenExtractor(nil)},
			wantErr: "token extractor cannot be nil",
		},
		{
			name:    "nil error handler",
			opts:    []Option{WithCore(c), WithErrorHandler(nil)},
			wantErr: "error handler cannot be nil",
		},
		{
			name:    "empty excluded method",
			opts:    []Option{WithCore(c), WithExcludedMethods("/health.Check", "")},
			wantErr: "excluded method cannot be empty",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			interceptor, err := New(testCase.opts...)
			assert.Nil(t, interceptor)
			assert.EqualError(t, err, testCase.wantErr)
		})
	}
}

func TestOptions(t *testing.T) {
	c := jwttest.NewCore(t, []jwttest.Key{jwttest.NewKey(t, "signing-key")})

	t.Run("WithLogger", func(t *testing.T) {
		logger := &mockLogger{}
		interceptor, err := New(WithCore(c), WithLogger(logger))
		require.NoError(t, err)
		assert.Same(t, logger, interceptor.logger)
	})

	t.Run("WithTokenExtractor", func(t *testing.T) {
		interceptor, err := New(WithCore(c), WithTokenExtractor(func(context.Context) (string, error) {
			return "custom-token", nil
		}))
		require.NoError(t, err)

		token, err := interceptor.tokenExtractor(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "custom-token", token)
	})

	t.Run("WithErrorHandler", func(t *testing.T) {
		interceptor, err := New(WithCore(c), WithErrorHandler(func(error) error {
			return status.Error(codes.Internal, "custom error")
		}))
		require.NoError(t, err)
		assert.Equal(t, codes.Internal, status.Code(interceptor.errorHandler(assert.AnError)))
	})

	t.Run("WithExcludedMethods", func(t *testing.T) {
		interceptor, err := New(WithCore(c), WithExcludedMethods("/health.Check", "/grpc.health.v1.Health/Check"))
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{
			"/health.Check":                true,
			"/grpc.health.v1.Health/Check": true,
		}, interceptor.excludedMethods)
	})
}
