package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerNavigationTools() {
	// ── list_dashboards ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_dashboards",
		mcp.WithDescription("List all dashboards in the workspace"),
	), s.handleListDashboards)

	// ── create_dashboard ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_dashboard",
		mcp.WithDescription("Create a new dashboard"),
		mcp.WithString("name",
			mcp.Description("Name of the new dashboard"),
			mcp.Required(),
		),
	), s.handleCreateDashboard)

	// ── set_active_dashboard ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_active_dashboard",
		mcp.WithDescription("Set the active dashboard for subsequent tool calls. Tools that accept dashboardId will default to this."),
		mcp.WithString("dashboardId",
			mcp.Description("ID of the dashboard to make active"),
			mcp.Required(),
		),
	), s.handleSetActiveDashboard)

	// ── get_dashboard_state ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_dashboard_state",
		mcp.WithDescription("Get the full state of a dashboard: metadata, widgets, and widget links"),
		mcp.WithString("dashboardId", mcp.Description("Dashboard ID (optional, defaults to active dashboard)")),
	), s.handleGetDashboardState)
}

func (s *Server) handleListDashboards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dashboards, err := s.dashboards.ListDashboards()
	if err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}
	return jsonResult(dashboards)
}

func (s *Server) handleCreateDashboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	board, err := s.dashboards.CreateDashboard(name)
	if err != nil {
		return nil, fmt.Errorf("create dashboard: %w", err)
	}
	// Auto-set as active dashboard
	s.activeDashboardID = board.ID
	return jsonResult(board)
}

func (s *Server) handleSetActiveDashboard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dashboardID := req.GetString("dashboardId", "")
	if dashboardID == "" {
		return nil, fmt.Errorf("dashboardId is required")
	}
	if _, err := s.dashboards.GetDashboardState(dashboardID); err != nil {
		return nil, fmt.Errorf("dashboard %s: %w", dashboardID, err)
	}
	s.activeDashboardID = dashboardID
	return textResult(fmt.Sprintf("Active dashboard set to %s", dashboardID)), nil
}

func (s *Server) handleGetDashboardState(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dashboardID, err := s.resolveDashboardID(req.GetArguments())
	if err != nil {
		return nil, err
	}
	state, err := s.dashboards.GetDashboardState(dashboardID)
	if err != nil {
		return nil, fmt.Errorf("get dashboard state: %w", err)
	}
	return jsonResult(state)
}
