package mcptools

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/brewstack/brewstack/cli/internal/render"
	"github.com/brewstack/brewstack/pkg/flavor"
)

// GuideTool handles the brew_guide MCP tool.
type GuideTool struct{}

// NewGuideTool creates a GuideTool.
func NewGuideTool() *GuideTool {
	return &GuideTool{}
}

// Definition returns the MCP tool definition for brew_guide.
func (t *GuideTool) Definition() mcp.Tool {
	ids := make([]string, 0)
	for _, tp := range flavor.Guide(flavor.LocaleEN) {
		ids = append(ids, tp.ID)
	}
	return mcp.NewTool("brew_guide",
		mcp.WithDescription(
			"Explain pour-over brewing basics: the four brewing variables, bloom, pulse pouring, processing methods and roast levels.",
		),
		mcp.WithString("topic",
			mcp.Description("Topic id: "+strings.Join(ids, ", ")+". Omit for every topic."),
		),
		mcp.WithString("locale",
			mcp.Description("Language of the guide"),
			mcp.Enum(names(flavor.Locales)...),
		),
	)
}

// Handle processes the brew_guide tool call.
func (t *GuideTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	loc := flavor.ParseLocale(req.GetString("locale", ""))

	topics := flavor.Guide(loc)
	if id := req.GetString("topic", ""); id != "" {
		tp, ok := flavor.FindTopic(loc, id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown topic %q", id)), nil
		}
		topics = []flavor.Topic{tp}
	}

	return markdown(func(b *bytes.Buffer) error {
		return render.Topics(b, loc, topics, render.FormatMarkdown)
	})
}
