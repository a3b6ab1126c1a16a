/*
Package jwtmiddleware provides net/http middleware that authenticates requests
with RS256 JWTs verified against a JSON Web Key Set.

The module is split into layers:

  - jwks: parses a JWKS document into an immutable, atomically swapped key store
  - validator: verifies a token against a key store and returns its claims
  - core: transport agnostic engine that ties a validator to a key store and
    refreshes the keys once when a token names an unknown kid
  - jwtmiddleware (this package), framework/gin, framework/echo and
    integrations/grpc: transport adapters around a core.Core

# Quick Start

	store, err := jwks.NewKeyStore(jwksText)
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New(validator.WithAllowedClockSkew(30 * time.Second))
	if err != nil {
	    log.Fatal(err)
	}

	c, err := core.New(
	    core.WithValidator(v),
	    core.WithKeyStore(store),
	    core.WithKeyRefresher(fetchJWKS),
	)
	if err != nil {
	    log.Fatal(err)
	}

	middleware, err := jwtmiddleware.New(jwtmiddleware.WithCore(c))
	if err != nil {
	    log.Fatal(err)
	}

	http.Handle("/api/", middleware.CheckJWT(apiHandler))

fetchJWKS is any func(context.Context) (string, error) returning a fresh JWKS
document. Refreshes are shared between concurrent callers and rate limited
(see core.WithRefreshInterval).

# Accessing Claims

	func apiHandler(w http.ResponseWriter, r *http.Request) {
	    claims, err := jwtmiddleware.GetClaims[validator.Claims](r.Context())
	    if err != nil {
	        http.Error(w, "Unauthorized", http.StatusUnauthorized)
	        return
	    }
	    fmt.Fprintf(w, "Hello, %s", claims.Subject())
	}

MustGetClaims panics when no claims are present. HasClaims reports whether
the request was authenticated, which matters when
core.WithCredentialsOptional lets requests without a token through.

# Token Extraction

AuthHeaderTokenExtractor is the default and reads "Authorization: Bearer".
CookieTokenExtractor, ParameterTokenExtractor and HeaderTokenExtractor read
other sources, and MultiTokenExtractor tries several in order:

	jwtmiddleware.WithTokenExtractor(jwtmiddleware.MultiTokenExtractor(
	    jwtmiddleware.AuthHeaderTokenExtractor,
	    jwtmiddleware.CookieTokenExtractor("access_token"),
	))

# Error Handling

DefaultErrorHandler writes a JSON ErrorResponse and, for 4xx responses, an
RFC 6750 WWW-Authenticate header:

  - missing token: 400 invalid_request
  - malformed token, token without kid, unknown kid: 401 invalid_token
  - anything else: 500 server_error

Use errors.Is with ErrJWTMissing, ErrJWTInvalid or the validator sentinels,
or core.KindOf, to branch inside a custom ErrorHandler.

# Excluding Routes

WithExclusionUrls skips validation for exact paths or full URLs, and
WithValidateOnOptions(false) lets CORS preflight requests through.

# Observability

WithLogger accepts any slog compatible logger. NewZapLogger, NewLogrusLogger
and NewZerologLogger adapt zap, logrus and zerolog loggers to the same
interface.

NewPrometheusMetrics returns a recorder, backed by its own registry, that can
be passed to validator.WithMetrics and jwks.WithMetrics:

	metrics := jwtmiddleware.NewPrometheusMetrics()
	http.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

CheckJWT starts an OpenTelemetry span named "jwtmiddleware.CheckJWT" per
request. WithTracer overrides the tracer of the global provider.
*/
package jwtmiddleware
