/*
Package core provides framework-agnostic JWT validation logic that can be used
across different transport layers (HTTP, gRPC, etc.).

The Core type ties a token validator to a JWKS key store. Transport adapters
extract the token and call CheckToken; the Core decides what an absent token
means and when the key store may be refreshed.

# Architecture

	┌─────────────────────────────────────────────┐
	│         Transport Adapters                  │
	│  (net/http, gRPC, Gin, Echo)                │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Core Engine (THIS PACKAGE)         │
	│  • Credentials Optional Logic               │
	│  • Refresh on Unknown Key ID                │
	│  • Error Classification                     │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│     validator.Validator + jwks.KeyStore     │
	│  (RS256 Verification & Key Index)           │
	└─────────────────────────────────────────────┘

# Basic Usage

	store, err := jwks.NewKeyStore(jwksText)
	if err != nil {
	    log.Fatal(err)
	}

	val, err := validator.New(validator.WithAllowedClockSkew(30 * time.Second))
	if err != nil {
	    log.Fatal(err)
	}

	c, err := core.New(
	    core.WithValidator(val),
	    core.WithKeyStore(store),
	)
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := c.CheckToken(ctx, tokenString)

# Key Refresh

The Core never fetches keys. A caller that can obtain a fresh JWKS document
registers a KeyRefresher:

	c, err := core.New(
	    core.WithValidator(val),
	    core.WithKeyStore(store),
	    core.WithKeyRefresher(func(ctx context.Context) (string, error) {
	        return loadJWKS(ctx)
	    }),
	    core.WithRefreshInterval(5 * time.Minute),
	)

When a token names a kid the store does not hold, the refresher is called, the
store is rotated and the token is validated once more. Concurrent requests
share a single refresh, and at most one refresh runs per interval. If the
refresh fails or is throttled the original ErrNoMatchKey is returned.

# Type-Safe Context Helpers

	ctx = core.SetClaims(ctx, claims)

	claims, err := core.GetClaims[validator.Claims](ctx)
	if err != nil {
	    // Claims not found
	}

	if core.HasClaims(ctx) {
	    // Claims are present
	}

# Error Handling

KindOf maps any error returned by CheckToken onto a closed set:

	switch core.KindOf(err) {
	case core.KindMissing:
	    // No token was presented
	case core.KindNoMatchKey:
	    // Unknown kid, even after a refresh
	case core.KindInvalidToken, core.KindTokenMissingKeyID:
	    // Reject the token
	}
*/
package core
