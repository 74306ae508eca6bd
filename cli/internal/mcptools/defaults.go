package mcptools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/brewstack/brewstack/pkg/types"
)

// DefaultsTool handles the brew_defaults MCP tool.
type DefaultsTool struct {
	sim Simulator
}

// NewDefaultsTool creates a DefaultsTool backed by sim.
func NewDefaultsTool(sim Simulator) *DefaultsTool {
	return &DefaultsTool{sim: sim}
}

// Definition returns the MCP tool definition for brew_defaults.
func (t *DefaultsTool) Definition() mcp.Tool {
	return mcp.NewTool("brew_defaults",
		mcp.WithDescription(
			"Show the default brewing parameters that brew_simulate starts from, and the allowed range of every parameter.",
		),
	)
}

// Handle processes the brew_defaults tool call.
func (t *DefaultsTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := t.sim.Defaults(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get defaults: %v", err)), nil
	}

	return markdown(func(b *bytes.Buffer) error {
		b.WriteString("## Default parameters\n\n```json\n")
		raw, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		b.Write(raw)
		b.WriteString("\n```\n\n## Ranges\n\n")
		for _, r := range types.Ranges() {
			unit := ""
			if r.Unit != "" {
				unit = " (" + r.Unit + ")"
			}
			fmt.Fprintf(b, "- **%s**%s: %g to %g, step %g\n", r.Field, unit, r.Min, r.Max, r.Step)
		}
		fmt.Fprintf(b, "- **grind_size**: %s\n", strings.Join(names(types.GrindSizes), ", "))
		fmt.Fprintf(b, "- **process_method**: %s\n", strings.Join(names(types.ProcessMethods), ", "))
		fmt.Fprintf(b, "- **roast_level**: %s\n", strings.Join(names(types.RoastLevels), ", "))
		return nil
	})
}
