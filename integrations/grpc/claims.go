package grpc

import (
	"context"

	"github.com/auth0/go-jwks-validator/core"
	"github.com/auth0/go-jwks-validator/validator"
)

// GetClaims returns the verified claims the interceptor stored in ctx.
//
// Example:
//
//	claims, err := jwtgrpc.GetClaims(ctx)
//	if err != nil {
//	    return nil, status.Error(codes.Internal, "failed to get claims")
//	}
//	fmt.Println(claims.Subject())
func GetClaims(ctx context.Context) (validator.Claims, error) {
	return core.GetClaims[validator.Claims](ctx)
}

// MustGetClaims retrieves claims from the context or panics.
// Use only when you are certain claims exist (e.g., after interceptor has run).
func MustGetClaims(ctx context.Context) validator.Claims {
	claims, err := GetClaims(ctx)
	if err != nil {
		panic(err)
	}
	return claims
}

// HasClaims checks if claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}
