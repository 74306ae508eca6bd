// Package auth provides API key authentication for brewstack-server.
//
// APIKeyInterceptor(mode, header, key) guards the Simulator gRPC service;
// HTTPMiddleware(mode, header, key) guards the REST API and WebSocket hub.
// Both pass everything through when mode != "apikey" or key == "", which is
// how local development runs with auth disabled.
package auth
