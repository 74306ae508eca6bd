// Package store holds the server's brewing sessions in memory. Each session is
// a parameter set under a random UUID, created from the configured defaults,
// patched through the REST and WebSocket surfaces, and evicted after sitting
// idle for the configured TTL.
package store
