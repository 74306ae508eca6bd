// Package mcptools exposes the simulator to MCP clients (assistants, IDEs)
// over stdio.
//
// Each tool follows the same shape:
//   - a struct with its dependencies injected via constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() processes the request and returns a result
//
// Tools: brew_simulate, brew_defaults, brew_guide. Parameter errors are
// reported as tool error results, never as protocol errors.
package mcptools
