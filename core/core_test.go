package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth0/go-jwks-validator/jwks"
	"github.com/auth0/go-jwks-validator/validator"
)

// mockValidator is a mock implementation of TokenValidator for testing.
type mockValidator struct {
	validateFunc func(ctx context.Context, token string, keys validator.KeyResolver) (validator.Claims, error)
}

func (m *mockValidator) Validate(ctx context.Context, token string, keys validator.KeyResolver) (validator.Claims, error) {
	if m.validateFunc != nil {
		return m.validateFunc(ctx, token, keys)
	}
	return nil, errors.New("not implemented")
}

// lookupValidator accepts any token whose text is a kid known to keys.
func lookupValidator() *mockValidator {
	return &mockValidator{
		validateFunc: func(_ context.Context, token string, keys validator.KeyResolver) (validator.Claims, error) {
			if _, ok := keys.Lookup(token); !ok {
				return nil, validator.NewValidationError(validator.ErrorCodeNoMatchKey, "no key matches kid", nil)
			}
			return validator.Claims{"kid": token}, nil
		},
	}
}

// mockKeyStore is an in-memory KeyStore whose document is a single kid.
type mockKeyStore struct {
	mu        sync.Mutex
	kids      map[string]bool
	rotations int
	rotateErr error
}

func newMockKeyStore(kids ...string) *mockKeyStore {
	s := &mockKeyStore{kids: map[string]bool{}}
	for _, kid := range kids {
		s.kids[kid] = true
	}
	return s
}

func (s *mockKeyStore) Lookup(kid string) (*jwks.JSONWebKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.kids[kid] {
		return nil, false
	}
	return &jwks.JSONWebKey{KeyID: kid}, true
}

func (s *mockKeyStore) Rotate(jwksText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotations++
	if s.rotateErr != nil {
		return s.rotateErr
	}
	s.kids = map[string]bool{jwksText: true}
	return nil
}

// mockLogger is a mock implementation of Logger for testing.
type mockLogger struct {
	mu         sync.Mutex
	debugCalls []logCall
	infoCalls  []logCall
	warnCalls  []logCall
	errorCalls []logCall
}

type logCall struct {
	msg  string
	args []any
}

func (m *mockLogger) Debug(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debugCalls = append(m.debugCalls, logCall{msg, args})
}

func (m *mockLogger) Info(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infoCalls = append(m.infoCalls, logCall{msg, args})
}

func (m *mockLogger) Warn(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnCalls = append(m.warnCalls, logCall{msg, args})
}

func (m *mockLogger) Error(msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCalls = append(m.errorCalls, logCall{msg, args})
}

func TestNew(t *testing.T) {
	v := lookupValidator()
	store := newMockKeyStore("key-1")

	t.Run("successful creation with required options", func(t *testing.T) {
		c, err := New(WithValidator(v), WithKeyStore(store))
		require.NoError(t, err)
		assert.NotNil(t, c)
		assert.False(t, c.credentialsOptional)
		assert.Equal(t, DefaultRefreshInterval, c.refreshInterval)
		assert.NotNil(t, c.limiter)
	})

	t.Run("successful creation with all options", func(t *testing.T) {
		logger := &mockLogger{}
		c, err := New(
			WithValidator(v),
			WithKeyStore(store),
			WithCredentialsOptional(true),
			WithLogger(logger),
			WithKeyRefresher(func(context.Context) (string, error) { return "", nil }),
			WithRefreshInterval(time.Second),
		)
		require.NoError(t, err)
		assert.True(t, c.credentialsOptional)
		assert.NotNil(t, c.logger)
		assert.NotNil(t, c.refresher)
		assert.Equal(t, time.Second, c.refreshInterval)
	})

	testCases := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{
			name:    "validator is missing",
			opts:    []Option{WithKeyStore(store)},
			wantErr: "validator is required but not set (use WithValidator option)",
		},
		{
			name:    "key store is missing",
			opts:    []Option{WithValidator(v)},
			wantErr: "key store is required but not set (use WithKeyStore option)",
		},
		{
			name:    "validator is nil",
			opts:    []Option{WithValidator(nil), WithKeyStore(store)},
			wantErr: "validator cannot be nil",
		},
		{
			name:    "key store is nil",
			opts:    []Option{WithValidator(v), WithKeyStore(nil)},
			wantErr: "key store cannot be nil",
		},
		{
			name:    "logger is nil",
			opts:    []Option{WithValidator(v), WithKeyStore(store), WithLogger(nil)},
			wantErr: "logger cannot be nil",
		},
		{
			name:    "refresher is nil",
			opts:    []Option{WithValidator(v), WithKeyStore(store), WithKeyRefresher(nil)},
			wantErr: "key refresher cannot be nil",
		},
		{
			name:    "refresh interval is zero",
			opts:    []Option{WithValidator(v), WithKeyStore(store), WithRefreshInterval(0)},
			wantErr: "refresh interval must be positive",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			c, err := New(testCase.opts...)
			assert.Nil(t, c)
			assert.EqualError(t, err, testCase.wantErr)
		})
	}
}

func TestCheckToken(t *testing.T) {
	t.Run("successful validation", func(t *testing.T) {
		c, err := New(WithValidator(lookupValidator()), WithKeyStore(newMockKeyStore("key-1")))
		require.NoError(t, err)

		claims, err := c.CheckToken(context.Background(), "key-1")
		require.NoError(t, err)
		assert.Equal(t, validator.Claims{"kid": "key-1"}, claims)
	})

	t.Run("validation error is returned unchanged", func(t *testing.T) {
		expectedErr := validator.NewValidationError(validator.ErrorCodeInvalidToken, "token could not be verified", nil)
		v := &mockValidator{
			validateFunc: func(context.Context, string, validator.KeyResolver) (validator.Claims, error) {
				return nil, expectedErr
			},
		}
		c, err := New(WithValidator(v), WithKeyStore(newMockKeyStore()))
		require.NoError(t, err)

		claims, err := c.CheckToken(context.Background(), "token")
		assert.Nil(t, claims)
		assert.Equal(t, expectedErr, err)
		assert.Equal(t, KindInvalidToken, KindOf(err))
	})

	t.Run("empty token with credentials required", func(t *testing.T) {
		logger := &mockLogger{}
		c, err := New(WithValidator(lookupValidator()), WithKeyStore(newMockKeyStore()), WithLogger(logger))
		require.NoError(t, err)

		claims, err := c.CheckToken(context.Background(), "")
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrJWTMissing)
		require.Len(t, logger.warnCalls, 1)
		assert.Equal(t, "No token provided and credentials are required", logger.warnCalls[0].msg)
	})

	t.Run("empty token with credentials optional", func(t *testing.T) {
		logger := &mockLogger{}
		c, err := New(
			WithValidator(lookupValidator()),
			WithKeyStore(newMockKeyStore()),
			WithCredentialsOptional(true),
			WithLogger(logger),
		)
		require.NoError(t, err)

		claims, err := c.CheckToken(context.Background(), "")
		assert.NoError(t, err)
		assert.Nil(t, claims)
		require.Len(t, logger.debugCalls, 1)
		assert.Equal(t, "No token provided, but credentials are optional", logger.debugCalls[0].msg)
	})

	t.Run("context and key store are passed to validator", func(t *testing.T) {
		type ctxKey struct{}
		store := newMockKeyStore()
		var gotValue any
		var gotKeys validator.KeyResolver
		v := &mockValidator{
			validateFunc: func(ctx context.Context, _ string, keys validator.KeyResolver) (validator.Claims, error) {
				gotValue = ctx.Value(ctxKey{})
				gotKeys = keys
				return validator.Claims{}, nil
			},
		}
		c, err := New(WithValidator(v), WithKeyStore(store))
		require.NoError(t, err)

		ctx := context.WithValue(context.Background(), ctxKey{}, "request-1")
		_, err = c.CheckToken(ctx, "token")
		require.NoError(t, err)
		assert.Equal(t, "request-1", gotValue)
		assert.Same(t, store, gotKeys)
	})

	t.Run("logger integration on success and error", func(t *testing.T) {
		logger := &mockLogger{}
		c, err := New(WithValidator(lookupValidator()), WithKeyStore(newMockKeyStore("key-1")), WithLogger(logger))
		require.NoError(t, err)

		_, err = c.CheckToken(context.Background(), "key-1")
		require.NoError(t, err)
		_, err = c.CheckToken(context.Background(), "key-2")
		require.Error(t, err)

		require.Len(t, logger.debugCalls, 1)
		assert.Equal(t, "Token validated successfully", logger.debugCalls[0].msg)
		require.Len(t, logger.errorCalls, 1)
		assert.Equal(t, "Token validation failed", logger.errorCalls[0].msg)
		assert.Contains(t, logger.errorCalls[0].args, "no_match_key")
	})
}

func TestCheckTokenKeyRefresh(t *testing.T) {
	t.Run("unknown kid triggers a refresh and one retry", func(t *testing.T) {
		store := newMockKeyStore("old-key")
		var calls int32
		c, err := New(
			WithValidator(lookupValidator()),
			WithKeyStore(store),
			WithKeyRefresher(func(context.Context) (string, error) {
				atomic.AddInt32(&calls, 1)
				return "new-key", nil
			}),
		)
		require.NoError(t, err)

		claims, err := c.CheckToken(context.Background(), "new-key")
		require.NoError(t, err)
		assert.Equal(t, validator.Claims{"kid": "new-key"}, claims)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		assert.Equal(t, 1, store.rotations)
	})

	t.Run("kid still unknown after refresh", func(t *testing.T) {
		store := newMockKeyStore("old-key")
		c, err := New(
			WithValidator(lookupValidator()),
			WithKeyStore(store),
			WithKeyRefresher(func(context.Context) (string, error) { return "other-key", nil }),
		)
		require.NoError(t, err)

		_, err = c.CheckToken(context.Background(), "new-key")
		assert.ErrorIs(t, err, validator.ErrNoMatchKey)
		assert.Equal(t, 1, store.rotations)
	})

	t.Run("refresher failure returns the original error", func(t *testing.T) {
		logger := &mockLogger{}
		store := newMockKeyStore("old-key")
		c, err := New(
			WithValidator(lookupValidator()),
			WithKeyStore(store),
			WithLogger(logger),
			WithKeyRefresher(func(context.Context) (string, error) {
				return "", errors.New("upstream unavailable")
			}),
		)
		require.NoError(t, err)

		_, err = c.CheckToken(context.Background(), "new-key")
		assert.ErrorIs(t, err, validator.ErrNoMatchKey)
		assert.Equal(t, 0, store.rotations)
		require.Len(t, logger.warnCalls, 1)
		assert.Equal(t, "Key refresh skipped or failed", logger.warnCalls[0].msg)
	})

	t.Run("rotate failure keeps the old keys", func(t *testing.T) {
		store := newMockKeyStore("old-key")
		store.rotateErr = jwks.ErrInvalidDocument
		c, err := New(
			WithValidator(lookupValidator()),
			WithKeyStore(store),
			WithKeyRefresher(func(context.Context) (string, error) { return "new-key", nil }),
		)
		require.NoError(t, err)

		_, err = c.CheckToken(context.Background(), "new-key")
		assert.ErrorIs(t, err, validator.ErrNoMatchKey)

		claims, err := c.CheckToken(context.Background(), "old-key")
		require.NoError(t, err)
		assert.Equal(t, "old-key", claims["kid"])
	})

	t.Run("refreshes are throttled by the interval", func(t *testing.T) {
		var calls int32
		c, err := New(
			WithValidator(lookupValidator()),
			WithKeyStore(newMockKeyStore("old-key")),
			WithRefreshInterval(time.Hour),
			WithKeyRefresher(func(context.Context) (string, error) {
				atomic.AddInt32(&calls, 1)
				return "old-key", nil
			}),
		)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			_, err = c.CheckToken(context.Background(), "unknown")
			assert.ErrorIs(t, err, validator.ErrNoMatchKey)
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("other errors never trigger a refresh", func(t *testing.T) {
		var calls int32
		v := &mockValidator{
			validateFunc: func(context.Context, string, validator.KeyResolver) (validator.Claims, error) {
				return nil, validator.NewValidationError(validator.ErrorCodeTokenMissingKeyID, "token header has no kid", nil)
			},
		}
		c, err := New(
			WithValidator(v),
			WithKeyStore(newMockKeyStore()),
			WithKeyRefresher(func(context.Context) (string, error) {
				atomic.AddInt32(&calls, 1)
				return "", nil
			}),
		)
		require.NoError(t, err)

		_, err = c.CheckToken(context.Background(), "token")
		assert.ErrorIs(t, err, validator.ErrTokenMissingKeyID)
		assert.Zero(t, atomic.LoadInt32(&calls))
	})

	t.Run("concurrent unknown kids share one refresh", func(t *testing.T) {
		store := newMockKeyStore("old-key")
		release := make(chan struct{})
		var calls int32
		c, err := New(
			WithValidator(lookupValidator()),
			WithKeyStore(store),
			WithKeyRefresher(func(context.Context) (string, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return "new-key", nil
			}),
		)
		require.NoError(t, err)

		const workers = 8
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := c.CheckToken(context.Background(), "new-key")
				errs <- err
			}()
		}

		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				// Late arrivals that missed the shared refresh are throttled.
				assert.ErrorIs(t, err, validator.ErrNoMatchKey)
			}
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		assert.Equal(t, 1, store.rotations)
	})
}
