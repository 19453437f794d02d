// Package wire is the RPC contract between the dailyquote client and
// server.
//
// Four gRPC services are described by hand (Auth, Tables, Storage, Health).
// Every request and response travels as a google.protobuf.Struct; the Go
// payload types in this package are mapped onto it through their json
// tags by Encode and Decode. The Tables service is a generic row store:
// Select/Insert/Delete over a whitelisted set of tables, with eq/ilike
// filters, one OR group, single-column ordering and an optional limit.
package wire
