// Package client is the dailyquote client's view of the backend.
//
// # Overview
//
// The package provides:
//  1. The contracts the rest of the client depends on: Auth (session and
//     profile), TableStore (generic select/insert/delete over the remote
//     tables) and ObjectStore (avatar uploads), bundled as Client.
//  2. GRPCClient, the gRPC implementation. It attaches the access token to
//     every call, refreshes it once when the server reports it expired, and
//     maps gRPC status codes to the sentinel errors below.
//  3. InitDatabase, which opens the local SQLite cache and applies the
//     embedded goose migrations.
//
// # Error Handling
//
// Transport failures surface as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrForbidden, ErrNotFound,
// ErrAlreadyExists and ErrInvalidArgument. An empty result with a nil error
// always means "no data", never "fetch failed".
package client
