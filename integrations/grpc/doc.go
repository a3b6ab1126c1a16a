// Package grpc provides gRPC server interceptors for JWT authentication.
//
// This package offers both unary and streaming interceptors that validate
// bearer tokens from gRPC metadata against a JWKS key store and make the
// verified claims available in the request context.
//
// # Basic Usage
//
//	import (
//	    "log"
//	    "net"
//
//	    "github.com/auth0/go-jwks-validator/core"
//	    jwtgrpc "github.com/auth0/go-jwks-validator/integrations/grpc"
//	    "github.com/auth0/go-jwks-validator/jwks"
//	    "github.com/auth0/go-jwks-validator/validator"
//	    "google.golang.org/grpc"
//	)
//
//	func main() {
//	    store, err := jwks.NewKeyStore(jwksText)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    v, err := validator.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    c, err := core.New(core.WithValidator(v), core.WithKeyStore(store))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    interceptor, err := jwtgrpc.New(
//	        jwtgrpc.WithCore(c),
//	        jwtgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    server := grpc.NewServer(
//	        grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	        grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	    )
//
//	    listener, _ := net.Listen("tcp", ":50051")
//	    server.Serve(listener)
//	}
//
// # Status Codes
//
// DefaultErrorHandler returns InvalidArgument for malformed authorization
// metadata, Unauthenticated for missing or rejected tokens, and Internal for
// anything else.
//
// # Claims Retrieval
//
//	func (s *server) GetUser(ctx context.Context, req *pb.GetUserRequest) (*pb.User, error) {
//	    claims, err := jwtgrpc.GetClaims(ctx)
//	    if err != nil {
//	        return nil, status.Error(codes.Internal, "failed to get claims")
//	    }
//	    return &pb.User{ID: claims.Subject()}, nil
//	}
package grpc
