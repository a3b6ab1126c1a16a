package jwks

import "errors"

// Option is how options for the KeyStore are set up.
// Options return errors to enable validation during construction.
type Option func(*KeyStore) error

// WithLogger sets an optional logger for the KeyStore.
//
// The store logs builds, rotations, rejected documents and duplicate key IDs.
// Any *slog.Logger satisfies the interface.
func WithLogger(logger Logger) Option {
	return func(ks *KeyStore) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		ks.logger = logger
		return nil
	}
}

// WithMetrics sets an optional recorder for build and rotation outcomes.
func WithMetrics(metrics Metrics) Option {
	return func(ks *KeyStore) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		ks.metrics = metrics
		return nil
	}
}
