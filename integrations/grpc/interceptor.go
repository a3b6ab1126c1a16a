package grpc

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"

	"github.com/auth0/go-jwks-validator/core"
	"github.com/auth0/go-jwks-validator/validator"
)

// JWTInterceptor authenticates gRPC calls with the bearer token found in
// their metadata.
type JWTInterceptor struct {
	core            *core.Core
	tokenExtractor  TokenExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          Logger
}

// New creates a gRPC JWT interceptor. WithCore is required.
func New(opts ...Option) (*JWTInterceptor, error) {
	interceptor := &JWTInterceptor{
		tokenExtractor:  MetadataTokenExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
		logger:          nopLogger{},
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	if interceptor.core == nil {
		return nil, errors.New("core is required, use WithCore option")
	}

	return interceptor, nil
}

// UnaryServerInterceptor authenticates unary calls before they reach the
// handler. Verified claims are available through GetClaims.
func (i *JWTInterceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, err := i.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor authenticates a stream once when it opens.
// The handler sees the claims through the Context of the stream.
func (i *JWTInterceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := i.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &authenticatedStream{ServerStream: ss, ctx: ctx})
	}
}

// authenticate returns ctx with the verified claims of the call attached.
// Excluded methods, and calls without a token when the Core allows them,
// get ctx back without claims. Failures are already converted by the
// error handler.
func (i *JWTInterceptor) authenticate(ctx context.Context, method string) (context.Context, error) {
	if i.excludedMethods[method] {
		i.logger.Debug("skipping JWT validation for excluded method", "method", method)
		return ctx, nil
	}

	claims, err := i.verify(ctx)
	if err != nil {
		i.logger.Warn("call rejected",
			"method", method,
			"kind", core.KindOf(err).String(),
			"error", err)
		return ctx, i.errorHandler(err)
	}

	if claims == nil {
		i.logger.Debug("anonymous call allowed, credentials are optional", "method", method)
		return ctx, nil
	}

	i.logger.Debug("call authenticated", "method", method, "sub", claims.Subject())
	return core.SetClaims(ctx, claims), nil
}

func (i *JWTInterceptor) verify(ctx context.Context) (validator.Claims, error) {
	token, err := i.tokenExtractor(ctx)
	if err != nil {
		return nil, fmt.Errorf("error extracting token: %w", err)
	}
	return i.core.CheckToken(ctx, token)
}

type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context {
	return s.ctx
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
