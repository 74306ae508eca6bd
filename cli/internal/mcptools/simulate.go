package mcptools

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/brewstack/brewstack/cli/internal/render"
	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
)

// SimulateTool handles the brew_simulate MCP tool.
type SimulateTool struct {
	sim Simulator
}

// NewSimulateTool creates a SimulateTool backed by sim.
func NewSimulateTool(sim Simulator) *SimulateTool {
	return &SimulateTool{sim: sim}
}

// Definition returns the MCP tool definition for brew_simulate.
func (t *SimulateTool) Definition() mcp.Tool {
	return mcp.NewTool("brew_simulate",
		mcp.WithDescription(
			"Predict the flavor profile (acidity, sweetness, bitterness, body on a 0-5 scale) of a pour-over "+
				"coffee, with tasting notes and adjustment tips. Omitted parameters keep their default value.",
		),
		mcp.WithNumber("ratio",
			mcp.Description("Water to coffee ratio, 1:x (10-20)"),
			mcp.Min(types.MinRatio), mcp.Max(types.MaxRatio),
		),
		mcp.WithNumber("brew_time",
			mcp.Description("Total brew time in seconds (60-240)"),
			mcp.Min(types.MinBrewTime), mcp.Max(types.MaxBrewTime),
		),
		mcp.WithNumber("temperature",
			mcp.Description("Water temperature in °C (80-100)"),
			mcp.Min(types.MinTemperature), mcp.Max(types.MaxTemperature),
		),
		mcp.WithString("grind_size",
			mcp.Description("Grind size"),
			mcp.Enum(names(types.GrindSizes)...),
		),
		mcp.WithString("process_method",
			mcp.Description("Green coffee processing method"),
			mcp.Enum(names(types.ProcessMethods)...),
		),
		mcp.WithString("roast_level",
			mcp.Description("Roast level"),
			mcp.Enum(names(types.RoastLevels)...),
		),
		mcp.WithNumber("bloom_time",
			mcp.Description("Bloom time in seconds; 0 skips the bloom (0-60)"),
			mcp.Min(types.MinBloomTime), mcp.Max(types.MaxBloomTime),
		),
		mcp.WithNumber("bloom_ratio",
			mcp.Description("Bloom water as a multiple of the coffee weight (1.5-3.5)"),
			mcp.Min(types.MinBloomRatio), mcp.Max(types.MaxBloomRatio),
		),
		mcp.WithNumber("pour_count",
			mcp.Description("Number of pulse pours after the bloom (0-5)"),
			mcp.Min(types.MinPourCount), mcp.Max(types.MaxPourCount),
		),
		mcp.WithString("locale",
			mcp.Description("Language of the notes and tips"),
			mcp.Enum(names(flavor.Locales)...),
		),
		mcp.WithString("format",
			mcp.Description("Result format (default: markdown)"),
			mcp.DefaultString("markdown"),
			mcp.Enum("markdown", "json"),
		),
	)
}

// Handle processes the brew_simulate tool call.
func (t *SimulateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patch, err := patchFromArgs(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := outputFormat(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sim, err := t.sim.Simulate(ctx, patch, req.GetString("locale", ""))
	if err != nil {
		if errors.Is(err, types.ErrInvalidParameter) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("simulation failed: %v", err)), nil
	}

	return markdown(func(b *bytes.Buffer) error {
		return render.Simulation(b, sim, format)
	})
}

// patchFromArgs collects every supplied parameter into a patch.
func patchFromArgs(req mcp.CallToolRequest) (types.ParamPatch, error) {
	var (
		pp  types.ParamPatch
		err error
	)
	if pp.Ratio, err = floatArg(req, "ratio"); err != nil {
		return pp, err
	}
	if pp.BrewTime, err = intArg(req, "brew_time"); err != nil {
		return pp, err
	}
	if pp.Temperature, err = intArg(req, "temperature"); err != nil {
		return pp, err
	}
	if pp.BloomTime, err = intArg(req, "bloom_time"); err != nil {
		return pp, err
	}
	if pp.BloomRatio, err = floatArg(req, "bloom_ratio"); err != nil {
		return pp, err
	}
	if pp.PourCount, err = intArg(req, "pour_count"); err != nil {
		return pp, err
	}

	if s := req.GetString("grind_size", ""); s != "" {
		g, err := types.ParseGrindSize(s)
		if err != nil {
			return pp, err
		}
		pp.GrindSize = &g
	}
	if s := req.GetString("process_method", ""); s != "" {
		m, err := types.ParseProcessMethod(s)
		if err != nil {
			return pp, err
		}
		pp.ProcessMethod = &m
	}
	if s := req.GetString("roast_level", ""); s != "" {
		r, err := types.ParseRoastLevel(s)
		if err != nil {
			return pp, err
		}
		pp.RoastLevel = &r
	}
	return pp, nil
}
