package mcpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"dash/internal/domain"
	"dash/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for the Dash app.
// It exposes tools, resources, and prompts so AI agents can build dashboards.
type Server struct {
	mcp      *server.MCPServer
	emitter  EventEmitter
	approval *ApprovalQueue
	layout   *LayoutEngine

	// Services (injected from app layer)
	dashboards *service.DashboardService
	widgets    *service.WidgetService
	datasets   *service.DatasetService
	render     *service.RenderService
	etl        *service.ETLService
	database   *service.DatabaseService
	plugins    *service.WidgetPluginRegistry

	// Active dashboard context (set by set_active_dashboard tool)
	activeDashboardID string
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Emitter    EventEmitter
	Dashboards *service.DashboardService
	Widgets    *service.WidgetService
	Datasets   *service.DatasetService
	Render     *service.RenderService
	ETL        *service.ETLService
	Database   *service.DatabaseService
	Plugins    *service.WidgetPluginRegistry
	ApprovalDB *sql.DB // When set, use SQLite-based approval (standalone mode)
}

// New creates and configures a new MCP server with all tools and resources.
func New(ctx context.Context, deps Deps) *Server {
	approval := NewApprovalQueue(ctx, deps.Emitter)
	if deps.ApprovalDB != nil {
		approval.SetDB(deps.ApprovalDB)
	}
	s := &Server{
		emitter:    deps.Emitter,
		approval:   approval,
		layout:     NewLayoutEngine(),
		dashboards: deps.Dashboards,
		widgets:    deps.Widgets,
		datasets:   deps.Datasets,
		render:     deps.Render,
		etl:        deps.ETL,
		database:   deps.Database,
		plugins:    deps.Plugins,
	}

	s.mcp = server.NewMCPServer(
		"dash-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	// Core
	s.registerNavigationTools()
	s.registerWidgetTools()
	s.registerResources()

	// Content tools
	s.registerChartTools()
	s.registerDatasetTools()

	// Integration tools
	s.registerDatabaseTools()
	s.registerETLTools()
	s.registerPrompts()

	// Plugin-extensible tools (auto-discovered)
	s.registerPluginTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// Approve forwards a user approval to the approval queue.
func (s *Server) Approve(actionID string) {
	s.approval.Approve(actionID)
}

// Reject forwards a user rejection to the approval queue.
func (s *Server) Reject(actionID string) {
	s.approval.Reject(actionID)
}

// ── Helpers ────────────────────────────────────────────────

// emitWidgetsChanged notifies the frontend that widgets changed on a dashboard.
func (s *Server) emitWidgetsChanged(ctx context.Context, dashboardID string) {
	s.emitter.Emit(ctx, "mcp:widgets-changed", map[string]string{"dashboardId": dashboardID})
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// resolveDashboardID returns the dashboardId from tool args or falls back
// to the active dashboard.
func (s *Server) resolveDashboardID(args map[string]any) (string, error) {
	if did, ok := args["dashboardId"].(string); ok && did != "" {
		return did, nil
	}
	if s.activeDashboardID != "" {
		return s.activeDashboardID, nil
	}
	return "", fmt.Errorf("no dashboardId provided and no active dashboard set (use set_active_dashboard first)")
}

// getWidgetForTool retrieves a widget and validates it exists.
func (s *Server) getWidgetForTool(args map[string]any) (*domain.Widget, error) {
	widgetID, ok := args["widgetId"].(string)
	if !ok || widgetID == "" {
		return nil, fmt.Errorf("widgetId is required")
	}
	return s.widgets.GetWidget(widgetID)
}
