// Package types defines the value types shared by the simulator core, the
// server and the CLI: brewing parameters, their enums, the flavor profile and
// the boundary validation error.
//
// Every type here is a plain value. Nothing holds identity or lifecycle beyond
// a single simulation call; callers copy freely.
package types
