// Package ws implements live re-simulation over WebSocket for brewstack-server.
//
// The hub is mounted at /ws/simulate. A client connects with
// ?session={id} to drive an existing session, or without it to get a fresh
// one (?locale= picks its language). The current simulation is sent
// immediately on connect.
//
// Each inbound text frame is a Request: any ParamPatch fields, plus optional
// "reset" and "locale". It is applied to the session and answered with
//
//	{
//	  "event": "simulation",
//	  "data":  { /* same schema as GET /api/v1/sessions/{id} */ }
//	}
//
// A rejected frame leaves the session unchanged and is answered with
//
//	{"event": "error", "error": "...", "field": "temperature"}
//
// Hub.Run(ctx) blocks until ctx is cancelled, then closes all connections.
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level.
package ws
