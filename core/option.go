package core

import (
	"errors"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRefreshInterval is the minimum time between two key refreshes.
const DefaultRefreshInterval = time.Minute

// Option is a function that configures the Core.
// Options return errors to enable validation during construction.
type Option func(*Core) error

// New creates a new Core instance with the provided options.
//
// The Core must be configured with WithValidator and WithKeyStore.
// All other options are optional and will use sensible defaults if not provided.
//
// Example:
//
//	core, err := core.New(
//	    core.WithValidator(v),
//	    core.WithKeyStore(store),
//	    core.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Core, error) {
	c := &Core{
		credentialsOptional: false,
		refreshInterval:     DefaultRefreshInterval,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	c.limiter = rate.NewLimiter(rate.Every(c.refreshInterval), 1)

	return c, nil
}

// validate ensures all required fields are set.
func (c *Core) validate() error {
	if c.validator == nil {
		return errors.New("validator is required but not set (use WithValidator option)")
	}
	if c.keys == nil {
		return errors.New("key store is required but not set (use WithKeyStore option)")
	}
	return nil
}

// WithValidator sets the validator for the Core.
// This is a required option.
func WithValidator(v TokenValidator) Option {
	return func(c *Core) error {
		if v == nil {
			return errors.New("validator cannot be nil")
		}
		c.validator = v
		return nil
	}
}

// WithKeyStore sets the key store tokens are validated against.
// This is a required option.
func WithKeyStore(keys KeyStore) Option {
	return func(c *Core) error {
		if keys == nil {
			return errors.New("key store cannot be nil")
		}
		c.keys = keys
		return nil
	}
}

// WithCredentialsOptional configures whether credentials are optional.
//
// When set to true, requests without tokens will be allowed to proceed
// without validation. The claims will be nil in the context.
//
// When set to false (default), requests without tokens will return ErrJWTMissing.
func WithCredentialsOptional(optional bool) Option {
	return func(c *Core) error {
		c.credentialsOptional = optional
		return nil
	}
}

// WithLogger sets an optional logger for the Core.
//
// Example:
//
//	logger := slog.Default()
//	core, _ := core.New(
//	    core.WithValidator(v),
//	    core.WithKeyStore(store),
//	    core.WithLogger(logger),
//	)
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithKeyRefresher sets the callback used to fetch a new JWKS document when a
// token names a kid the key store does not know.
func WithKeyRefresher(refresher KeyRefresher) Option {
	return func(c *Core) error {
		if refresher == nil {
			return errors.New("key refresher cannot be nil")
		}
		c.refresher = refresher
		return nil
	}
}

// WithRefreshInterval sets the minimum time between two key refreshes.
// Tokens with unknown kids arriving faster than this do not trigger a refresh.
//
// Default: 1 minute
func WithRefreshInterval(interval time.Duration) Option {
	return func(c *Core) error {
		if interval <= 0 {
			return errors.New("refresh interval must be positive")
		}
		c.refreshInterval = interval
		return nil
	}
}
