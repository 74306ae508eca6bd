// Package config loads the brewstack-server configuration from the `server:`
// section of config.yaml.
//
// Config fields:
//   - GRPCPort    port for the Simulator gRPC service (default 50051)
//   - HTTPPort    port for the REST API, /metrics and the WebSocket hub (default 8080)
//   - LogLevel    debug | info | warn | error (default info)
//   - Locale      en | zh-TW, used when a request names none (default en)
//   - Auth.Mode   "apikey" or "none"
//   - Auth.KeyEnv environment variable holding the expected API key
//   - Auth.Header gRPC metadata/HTTP header name (default "x-api-key")
//   - Session.TTL idle time before a session is evicted (default 30m)
//   - Cache.Size  simulation cache entries (default 1024)
//   - Defaults    the parameter set sessions start from
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) reloads on write; the server applies LogLevel,
// Locale and Defaults live and ignores changes to ports, auth and cache.
package config
