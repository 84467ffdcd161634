// Package client talks to the photofeed server.
//
// Client is the transport-agnostic contract used by the CLI. GRPCClient
// implements it over gRPC with the JSON codec of internal/api: it keeps the
// token pair returned by Login, attaches the access token to every call and
// transparently refreshes it once when the server reports it as expired.
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound,
// ErrAlreadyExists and ErrInvalidInput.
package client
