package validator

import (
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithAllowedClockSkew sets the allowed clock skew for time-based claims.
//
// This allows for some tolerance when validating the exp claim, and nbf when
// WithNotBefore is set, to account for clock differences between systems. If not set, the default
// is 0 (no clock skew allowed).
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithClock sets the time source used for exp and nbf checks.
// Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(v *Validator) error {
		if clock == nil {
			return errors.New("clock cannot be nil")
		}
		v.clock = clock
		return nil
	}
}

// WithExpiryOptional accepts tokens that carry no exp claim.
// An exp claim that is present is still enforced.
func WithExpiryOptional() Option {
	return func(v *Validator) error {
		v.requireExpiry = false
		return nil
	}
}

// WithNotBefore rejects tokens whose nbf claim is still in the future.
// By default nbf is not read.
func WithNotBefore() Option {
	return func(v *Validator) error {
		v.checkNotBefore = true
		return nil
	}
}

// WithLogger sets an optional logger for the Validator.
func WithLogger(logger Logger) Option {
	return func(v *Validator) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		v.logger = logger
		return nil
	}
}

// WithMetrics sets an optional recorder for validation outcomes.
func WithMetrics(metrics Metrics) Option {
	return func(v *Validator) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		v.metrics = metrics
		return nil
	}
}

// WithTracer sets the OpenTelemetry tracer used for validation spans.
// Defaults to the tracer of the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(v *Validator) error {
		if tracer == nil {
			return errors.New("tracer cannot be nil")
		}
		v.tracer = tracer
		return nil
	}
}
