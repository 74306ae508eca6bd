// Package brewrpc defines the brewstack.v1.Simulator gRPC service shared by
// brewstack-server and the brewsim CLI.
//
// Messages are plain Go structs carried by a JSON codec registered under the
// "json" content-subtype (codec.go), so no generated protobuf code is needed.
// service.go holds the hand-written grpc.ServiceDesc, the SimulatorServer
// interface and a thin client.
package brewrpc
