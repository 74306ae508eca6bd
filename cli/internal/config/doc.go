// Package config resolves brewsim's settings from the environment.
//
// Values come from, in order of precedence: the process environment, an
// optional dotenv file (default ".env") and built-in defaults. Command-line
// flags override all of them in cmd/brewsim.
//
//	BREWSIM_SERVER      host:port of a brewstack-server gRPC endpoint; empty
//	                    means simulate locally
//	BREWSIM_API_KEY     API key sent as gRPC metadata
//	BREWSIM_API_HEADER  metadata key for the API key (default "x-api-key")
//	BREWSIM_LOCALE      en | zh-TW (default: the server's locale, en locally)
//	BREWSIM_OUTPUT      text | json | markdown (default text)
//	BREWSIM_TIMEOUT     per-call timeout for remote simulation (default 10s)
package config
