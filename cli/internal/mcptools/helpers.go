package mcptools

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/brewstack/brewstack/cli/internal/render"
	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
)

// Simulator is the backend the tools run against: the local engine or a
// remote brewstack-server.
type Simulator interface {
	Simulate(ctx context.Context, patch types.ParamPatch, locale string) (flavor.Simulation, error)
	Defaults(ctx context.Context) (types.BrewParameters, error)
}

// NewServer builds an MCP server with every brewsim tool registered.
func NewServer(sim Simulator, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"brewsim",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	simulate := NewSimulateTool(sim)
	s.AddTool(simulate.Definition(), simulate.Handle)

	defaults := NewDefaultsTool(sim)
	s.AddTool(defaults.Definition(), defaults.Handle)

	guide := NewGuideTool()
	s.AddTool(guide.Definition(), guide.Handle)

	return s
}

const instructions = `brewsim predicts the flavor of a pour-over coffee from its brewing parameters.
Call brew_defaults first to see the baseline recipe and the allowed ranges, then
brew_simulate with only the parameters you want to change. brew_guide explains
the underlying brewing concepts.`

// numberArg returns the argument key and whether it was present.
// JSON numbers arrive as float64.
func numberArg(req mcp.CallToolRequest, key string) (float64, bool, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	v, ok := raw.(float64)
	if !ok {
		return 0, false, fmt.Errorf("'%s' must be a number", key)
	}
	return v, true, nil
}

// intArg is numberArg for whole-number parameters.
func intArg(req mcp.CallToolRequest, key string) (*int, error) {
	v, ok, err := numberArg(req, key)
	if err != nil || !ok {
		return nil, err
	}
	if v != math.Trunc(v) {
		return nil, fmt.Errorf("'%s' must be a whole number, got %v", key, v)
	}
	n := int(v)
	return &n, nil
}

func floatArg(req mcp.CallToolRequest, key string) (*float64, error) {
	v, ok, err := numberArg(req, key)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

// markdown renders through fn into a text result.
func markdown(fn func(*bytes.Buffer) error) (*mcp.CallToolResult, error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// outputFormat reads the optional "format" argument.
func outputFormat(req mcp.CallToolRequest) (render.Format, error) {
	f, err := render.ParseFormat(req.GetString("format", "markdown"))
	if err != nil {
		return "", err
	}
	if f == render.FormatText {
		// Styled terminal text is not useful to a model.
		f = render.FormatMarkdown
	}
	return f, nil
}

func names[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}
