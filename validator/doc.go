/*
Package validator verifies RS256 signed JWTs against a JWKS key store using
the lestrrat-go/jwx v2 library.

# Pipeline

Validate runs these steps in order; each failure is terminal:

 1. Decode the token header without verifying it. Failure: ErrInvalidToken.
 2. Read the kid header. Missing: ErrTokenMissingKeyID. Tokens without a kid
    are never tried against every key.
 3. Look the kid up in the key store. Unknown: ErrNoMatchKey.
 4. Rebuild the RSA public key from the entry's n and e.
 5. Verify the signature with RS256, then require exp and check it against
    the clock. Any failure: ErrInvalidToken.
 6. Return the payload as Claims.

No other claim is read or type checked: iss, sub, aud, iat and the rest pass
through as the token carries them. WithNotBefore adds an nbf check.

The algorithm is pinned to RS256. The alg header of the token must say RS256
and is never used to pick the verification algorithm.

# Basic Usage

	store, err := jwks.NewKeyStore(jwksText)
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New()
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := v.Validate(ctx, token, store)
	switch {
	case errors.Is(err, validator.ErrNoMatchKey):
	    // Keys may have rotated: refresh the JWKS and retry once.
	case err != nil:
	    // Reject the request.
	default:
	    fmt.Println(claims.Subject(), claims.Audience())
	}

# Errors

All validation failures are *ValidationError values. Branch on the sentinel
errors with errors.Is; Details holds the underlying jwx error for logging and
never changes which sentinel matches.

# Observability

WithLogger, WithMetrics and WithTracer are optional. Every call produces one
OpenTelemetry span named "validator.Validate" carrying the jwt.kid and
jwt.result attributes.
*/
package validator
