// Package receiver implements brewrpc.SimulatorServer, the gRPC endpoint the
// brewsim CLI calls with --server.
//
// Receiver.Simulate overlays the request's partial parameters on the store's
// current defaults, resolves the locale and runs the shared flavor engine.
// Out-of-range or unknown values return codes.InvalidArgument. Authentication
// is enforced upstream by the gRPC server interceptor (see package auth).
package receiver
