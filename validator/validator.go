package validator

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/auth0/go-jwks-validator/jwks"
)

// SignatureAlgorithm is the only algorithm tokens are verified with.
// It is never taken from the token header.
const SignatureAlgorithm = jwa.RS256

const tracerName = "github.com/auth0/go-jwks-validator/validator"

// KeyResolver resolves a key ID to its key material.
// *jwks.KeyStore satisfies this interface.
type KeyResolver interface {
	Lookup(keyID string) (*jwks.JSONWebKey, bool)
}

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Metrics receives the outcome of each validation. code is "" on success
// and one of the ErrorCode constants otherwise.
type Metrics interface {
	ObserveValidation(code string, duration time.Duration)
}

// Validator verifies RS256 signed tokens against the keys of a KeyResolver.
// A Validator holds no per-token state and is safe for concurrent use.
type Validator struct {
	allowedClockSkew time.Duration
	clock            func() time.Time
	requireExpiry    bool
	checkNotBefore   bool
	logger           Logger
	metrics          Metrics
	tracer           trace.Tracer
}

// New sets up a new Validator with the given options.
//
// Example:
//
//	v, err := validator.New(
//	    validator.WithAllowedClockSkew(30*time.Second),
//	    validator.WithLogger(slog.Default()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		clock:         time.Now,
		requireExpiry: true,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if v.tracer == nil {
		v.tracer = otel.Tracer(tracerName)
	}

	return v, nil
}

// Validate verifies token with the key its kid header selects from keys and
// returns the decoded claims.
//
// The steps run in order and the first failure is returned:
//   - the header cannot be decoded: ErrInvalidToken
//   - the header has no kid: ErrTokenMissingKeyID
//   - keys has no entry for the kid: ErrNoMatchKey
//   - the signature or algorithm does not verify: ErrInvalidToken
//   - exp is missing, malformed or in the past: ErrInvalidToken
//
// Only exp is checked by default. Other registered claims pass through
// untouched whatever their type; see WithNotBefore.
func (v *Validator) Validate(ctx context.Context, token string, keys KeyResolver) (Claims, error) {
	_, span := v.tracer.Start(ctx, "validator.Validate")
	defer span.End()

	start := time.Now()
	claims, kid, err := v.validate(token, keys)
	duration := time.Since(start)

	span.SetAttributes(attribute.String("jwt.kid", kid))

	if err != nil {
		code := errorCode(err)
		span.SetAttributes(attribute.String("jwt.result", code))
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, code)

		if v.metrics != nil {
			v.metrics.ObserveValidation(code, duration)
		}
		if v.logger != nil {
			v.logger.Warn("token validation failed",
				"code", code,
				"kid", kid,
				"error", err,
				"duration", duration)
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("jwt.result", "ok"))
	if v.metrics != nil {
		v.metrics.ObserveValidation("", duration)
	}
	if v.logger != nil {
		v.logger.Debug("token validated successfully",
			"kid", kid,
			"duration", duration)
	}

	return claims, nil
}

func (v *Validator) validate(token string, keys KeyResolver) (Claims, string, error) {
	if err := validateTokenFormat(token); err != nil {
		return nil, "", NewValidationError(ErrorCodeInvalidToken, "could not decode the token header", err)
	}

	msg, err := jws.Parse([]byte(token))
	if err != nil {
		return nil, "", NewValidationError(ErrorCodeInvalidToken, "could not decode the token header", err)
	}

	signatures := msg.Signatures()
	if len(signatures) != 1 {
		return nil, "", NewValidationError(
			ErrorCodeInvalidToken,
			"could not decode the token header",
			fmt.Errorf("expected exactly one signature, got %d", len(signatures)),
		)
	}
	headers := signatures[0].ProtectedHeaders()

	kid := headers.KeyID()
	if kid == "" {
		return nil, "", NewValidationError(ErrorCodeTokenMissingKeyID, "token header has no kid", nil)
	}

	if keys == nil {
		return nil, kid, NewValidationError(ErrorCodeNoMatchKey, "no key store to resolve kid", nil)
	}
	key, ok := keys.Lookup(kid)
	if !ok {
		return nil, kid, NewValidationError(
			ErrorCodeNoMatchKey,
			"no key matches kid",
			fmt.Errorf("kid %q is not in the key store", kid),
		)
	}

	publicKey, err := rsaPublicKey(key)
	if err != nil {
		return nil, kid, NewValidationError(ErrorCodeInvalidToken, "could not build the verification key", err)
	}

	if err := validateSigningMethod(SignatureAlgorithm, headers.Algorithm()); err != nil {
		return nil, kid, NewValidationError(ErrorCodeInvalidToken, "signing method is invalid", err)
	}

	payload, err := jws.Verify([]byte(token), jws.WithKey(SignatureAlgorithm, publicKey))
	if err != nil {
		return nil, kid, NewValidationError(ErrorCodeInvalidToken, "token signature could not be verified", err)
	}

	claims, err := decodeClaims(payload)
	if err != nil {
		return nil, kid, NewValidationError(ErrorCodeInvalidToken, "could not decode the token claims", err)
	}

	if err := v.validateTimes(claims); err != nil {
		return nil, kid, NewValidationError(ErrorCodeInvalidToken, "token time claims are invalid", err)
	}

	return claims, kid, nil
}

// rsaPublicKey reconstructs the public key from the modulus and exponent of
// the entry. The key family is pinned to RSA whatever kty the entry declares.
func rsaPublicKey(key *jwks.JSONWebKey) (*rsa.PublicKey, error) {
	raw, err := json.Marshal(map[string]string{
		"kty": "RSA",
		"n":   key.Modulus,
		"e":   key.Exponent,
	})
	if err != nil {
		return nil, err
	}

	parsed, err := jwk.ParseKey(raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse rsa components: %w", err)
	}

	var publicKey rsa.PublicKey
	if err := parsed.Raw(&publicKey); err != nil {
		return nil, fmt.Errorf("could not export rsa public key: %w", err)
	}

	return &publicKey, nil
}

// validateTimes enforces exp and, when enabled, nbf against the clock
// truncated to whole seconds. A token expiring at the current second is
// still valid.
func (v *Validator) validateTimes(claims Claims) error {
	now := v.clock().Truncate(time.Second)

	exp, ok, err := claims.lookupNumericDate("exp")
	switch {
	case err != nil:
		return err
	case !ok && v.requireExpiry:
		return errors.New(`required "exp" claim is missing`)
	case ok && now.After(exp.Add(v.allowedClockSkew)):
		return fmt.Errorf("token expired at %s", exp.Format(time.RFC3339))
	}

	if !v.checkNotBefore {
		return nil
	}

	nbf, ok, err := claims.lookupNumericDate("nbf")
	switch {
	case err != nil:
		return err
	case ok && now.Add(v.allowedClockSkew).Before(nbf):
		return fmt.Errorf("token is not valid before %s", nbf.Format(time.RFC3339))
	}

	return nil
}

func validateSigningMethod(validAlg, tokenAlg jwa.SignatureAlgorithm) error {
	if validAlg != tokenAlg {
		return fmt.Errorf("expected %q signing algorithm but token specified %q", validAlg, tokenAlg)
	}
	return nil
}

func decodeClaims(payload []byte) (Claims, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var claims Claims
	if err := decoder.Decode(&claims); err != nil {
		return nil, err
	}
	if claims == nil {
		return nil, errors.New("token claims are not a JSON object")
	}

	return claims, nil
}

func errorCode(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Code
	}
	return ErrorCodeInvalidToken
}
