// Package remote is the brewsim client for a brewstack-server Simulator
// endpoint.
//
// Dial opens a gRPC connection. Client.Simulate and Client.Defaults attach
// the API key as outgoing metadata when one is configured, and retry
// transient failures (Unavailable, DeadlineExceeded, ...) with truncated
// exponential backoff and jitter. Permanent failures (InvalidArgument,
// Unauthenticated, PermissionDenied) are returned at once.
package remote
