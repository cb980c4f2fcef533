package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"dash/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

// registerPluginTools iterates all registered widget plugins and auto-registers
// MCP tools for them. If a plugin implements MCPCapablePlugin, its custom
// tools are registered. Otherwise, a generic create tool is created.
func (s *Server) registerPluginTools() {
	if s.plugins == nil {
		return
	}

	s.plugins.ForEach(func(p service.WidgetPlugin) {
		widgetType := p.WidgetType()

		// Check if plugin declares custom MCP tools
		if mcpPlugin, ok := p.(service.MCPCapablePlugin); ok {
			for _, toolDef := range mcpPlugin.MCPTools() {
				def := toolDef // capture for closure
				tool := buildPluginTool(def)
				s.mcp.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					if def.Destructive {
						approved, err := s.approval.Request(def.Name, def.Description)
						if err != nil || !approved {
							return textResult("Action rejected by user"), nil
						}
					}
					result, err := def.Handler(req.GetArguments())
					if err != nil {
						return nil, err
					}
					return jsonResult(result)
				})
			}
			return
		}

		// Generic fallback: create_{type}_widget for any plugin widget type
		s.mcp.AddTool(mcp.NewTool(
			fmt.Sprintf("create_%s_widget", widgetType),
			mcp.WithDescription(fmt.Sprintf("Create a %s widget on the canvas", widgetType)),
			mcp.WithString("dashboardId", mcp.Description("Dashboard ID (optional, defaults to active dashboard)")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := req.GetArguments()
			dashboardID, err := s.resolveDashboardID(args)
			if err != nil {
				return nil, err
			}
			existing, _ := s.widgets.ListWidgets(dashboardID)
			x, y := s.layout.NextPosition(existing, 540, 420)
			widget, err := s.widgets.CreateWidget(dashboardID, widgetType, x, y, 540, 420)
			if err != nil {
				return nil, err
			}
			_ = s.plugins.OnCreate(widget.ID, dashboardID, widgetType)
			widget, _ = s.widgets.GetWidget(widget.ID)
			s.emitWidgetsChanged(ctx, dashboardID)
			return jsonResult(widget)
		})
	})
}

// buildPluginTool constructs the MCP tool definition for a plugin tool,
// honoring its input schema and destructive flag.
func buildPluginTool(def service.MCPToolDef) mcp.Tool {
	desc := def.Description
	if def.Destructive {
		desc = "🛑 DESTRUCTIVE: " + desc
	}
	if def.InputSchema != nil {
		schema, _ := json.Marshal(def.InputSchema)
		return mcp.NewToolWithRawSchema(def.Name, desc, schema)
	}
	if def.Destructive {
		return mcp.NewTool(def.Name,
			mcp.WithDescription(desc),
			mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
		)
	}
	return mcp.NewTool(def.Name, mcp.WithDescription(desc))
}
