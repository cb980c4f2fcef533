package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dash/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerWidgetTools() {
	// ── create_widget ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_widget",
		mcp.WithDescription("Create a new widget on the canvas. Position is auto-calculated if not provided. Use list_chart_types to see valid types."),
		mcp.WithString("type",
			mcp.Description("Widget type: bar, line, area, scatter, pie, donut, table, slicer (aliases like column or doughnut also work)"),
			mcp.Required(),
		),
		mcp.WithString("dashboardId",
			mcp.Description("Dashboard ID (optional, defaults to active dashboard)"),
		),
		mcp.WithNumber("x", mcp.Description("X position (optional, auto-layout if omitted)")),
		mcp.WithNumber("y", mcp.Description("Y position (optional, auto-layout if omitted)")),
		mcp.WithNumber("width", mcp.Description("Width (optional, default 540)")),
		mcp.WithNumber("height", mcp.Description("Height (optional, default 420)")),
		mcp.WithString("configJson", mcp.Description("Initial widget config JSON (optional): {title, datasetId, binding}")),
	), s.handleCreateWidget)

	// ── list_widgets ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_widgets",
		mcp.WithDescription("List all widgets on a dashboard, optionally filtered by type"),
		mcp.WithString("dashboardId", mcp.Description("Dashboard ID (optional, defaults to active dashboard)")),
		mcp.WithString("type", mcp.Description("Filter by widget type (optional)")),
	), s.handleListWidgets)

	// ── update_widget_config ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("update_widget_config",
		mcp.WithDescription("Replace the config of a widget. Config JSON shape: {title, datasetId, binding: {axisField, valueField, legendField?, aggregation?}}"),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithString("configJson", mcp.Description("New config JSON"), mcp.Required()),
	), s.handleUpdateWidgetConfig)

	// ── change_widget_type ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("change_widget_type",
		mcp.WithDescription("Change the chart type of an existing widget, keeping its config and data bindings"),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithString("type", mcp.Description("New widget type"), mcp.Required()),
	), s.handleChangeWidgetType)

	// ── delete_widget (destructive) ────────────────────
	s.mcp.AddTool(mcp.NewTool("delete_widget",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a widget. Requires user approval."),
		mcp.WithString("widgetId", mcp.Description("Widget ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteWidget)

	// ── move_widget ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("move_widget",
		mcp.WithDescription("Move a widget to a new position on the canvas"),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
	), s.handleMoveWidget)

	// ── resize_widget ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("resize_widget",
		mcp.WithDescription("Resize a widget"),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
	), s.handleResizeWidget)

	// ── batch_move_widgets ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("batch_move_widgets",
		mcp.WithDescription("Move multiple widgets by a relative offset (dx, dy)"),
		mcp.WithString("widgetIds",
			mcp.Description("Comma-separated widget IDs"),
			mcp.Required(),
		),
		mcp.WithNumber("dx", mcp.Description("Horizontal offset"), mcp.Required()),
		mcp.WithNumber("dy", mcp.Description("Vertical offset"), mcp.Required()),
	), s.handleBatchMoveWidgets)

	// ── batch_update_widgets ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("batch_update_widgets",
		mcp.WithDescription("Update multiple widgets at once (move and/or resize). Pass a JSON array of patch objects with widgetId and optional x, y, width, height."),
		mcp.WithString("patches",
			mcp.Description("JSON array of patch objects [{widgetId, x?, y?, width?, height?}, ...]"),
			mcp.Required(),
		),
	), s.handleBatchUpdateWidgets)

	// ── batch_delete_widgets ───────────────────────────
	s.mcp.AddTool(mcp.NewTool("batch_delete_widgets",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete multiple widgets at once with a single approval. Requires user approval."),
		mcp.WithString("widgetIds",
			mcp.Description("Comma-separated widget IDs to delete"),
			mcp.Required(),
		),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleBatchDeleteWidgets)

	// ── arrange_widgets ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("arrange_widgets",
		mcp.WithDescription("Auto-arrange all widgets on a dashboard using a grid layout"),
		mcp.WithString("dashboardId", mcp.Description("Dashboard ID (optional, defaults to active dashboard)")),
		mcp.WithNumber("startX", mcp.Description("Starting X position (default 0)")),
		mcp.WithNumber("startY", mcp.Description("Starting Y position (default 0)")),
	), s.handleArrangeWidgets)

	// ── swap_widgets ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("swap_widgets",
		mcp.WithDescription("Swap positions of two widgets"),
		mcp.WithString("widgetIdA", mcp.Description("First widget ID"), mcp.Required()),
		mcp.WithString("widgetIdB", mcp.Description("Second widget ID"), mcp.Required()),
	), s.handleSwapWidgets)

	// ── link_widgets ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("link_widgets",
		mcp.WithDescription("Link a slicer widget to a target widget so the slicer's selection filters the target by a dataset field"),
		mcp.WithString("fromWidgetId", mcp.Description("Source widget ID (the slicer)"), mcp.Required()),
		mcp.WithString("toWidgetId", mcp.Description("Target widget ID to be filtered"), mcp.Required()),
		mcp.WithString("field", mcp.Description("Dataset field the link filters on"), mcp.Required()),
	), s.handleLinkWidgets)
}

func boolPtr(v bool) *bool { return &v }

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleCreateWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widgetType, _ := args["type"].(string)
	if widgetType == "" {
		return nil, fmt.Errorf("type is required")
	}

	dashboardID, err := s.resolveDashboardID(args)
	if err != nil {
		return nil, err
	}

	w := getFloat(args, "width", 540)
	h := getFloat(args, "height", 420)

	// Auto-layout if position not provided
	x, hasX := args["x"].(float64)
	y, hasY := args["y"].(float64)
	if !hasX || !hasY {
		existing, _ := s.widgets.ListWidgets(dashboardID)
		x, y = s.layout.NextPosition(existing, w, h)
	}

	widget, err := s.widgets.CreateWidget(dashboardID, widgetType, x, y, w, h)
	if err != nil {
		return nil, fmt.Errorf("create widget: %w", err)
	}

	// Plugin lifecycle (table widgets get a backing dataset, etc.)
	if s.plugins != nil {
		_ = s.plugins.OnCreate(widget.ID, dashboardID, widget.Type)
	}

	// Set initial config if provided
	if cfg, ok := args["configJson"].(string); ok && cfg != "" {
		if err := s.widgets.UpdateWidgetConfig(widget.ID, cfg); err != nil {
			return nil, fmt.Errorf("set config: %w", err)
		}
	}

	// Re-read so plugin- or config-written state is reflected
	widget, err = s.widgets.GetWidget(widget.ID)
	if err != nil {
		return nil, fmt.Errorf("reload widget: %w", err)
	}

	s.emitWidgetsChanged(ctx, dashboardID)
	return jsonResult(widget)
}

func (s *Server) handleListWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	dashboardID, err := s.resolveDashboardID(args)
	if err != nil {
		return nil, err
	}

	widgets, err := s.widgets.ListWidgets(dashboardID)
	if err != nil {
		return nil, fmt.Errorf("list widgets: %w", err)
	}

	// Filter by type if provided
	if filterType, ok := args["type"].(string); ok && filterType != "" {
		var filtered []widgetSummary
		for _, w := range widgets {
			if w.Type == filterType {
				filtered = append(filtered, summarizeWidget(w))
			}
		}
		return jsonResult(filtered)
	}

	summaries := make([]widgetSummary, len(widgets))
	for i, w := range widgets {
		summaries[i] = summarizeWidget(w)
	}
	return jsonResult(summaries)
}

func (s *Server) handleUpdateWidgetConfig(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widget, err := s.getWidgetForTool(args)
	if err != nil {
		return nil, err
	}

	cfg, _ := args["configJson"].(string)
	if !json.Valid([]byte(cfg)) {
		return nil, fmt.Errorf("configJson is not valid JSON")
	}
	if err := s.widgets.UpdateWidgetConfig(widget.ID, cfg); err != nil {
		return nil, fmt.Errorf("update config: %w", err)
	}

	// Report binding problems so the agent can self-correct
	problems, _ := s.widgets.ValidateWidget(widget.ID)

	s.emitWidgetsChanged(ctx, widget.DashboardID)
	if len(problems) > 0 {
		return textResult(fmt.Sprintf("Widget %s config updated with warnings: %s",
			widget.ID, strings.Join(problems, "; "))), nil
	}
	return textResult(fmt.Sprintf("Widget %s config updated", widget.ID)), nil
}

func (s *Server) handleChangeWidgetType(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widget, err := s.getWidgetForTool(args)
	if err != nil {
		return nil, err
	}

	newType, _ := args["type"].(string)
	if newType == "" {
		return nil, fmt.Errorf("type is required")
	}

	updated, err := s.widgets.ChangeWidgetType(widget.ID, newType)
	if err != nil {
		return nil, fmt.Errorf("change widget type: %w", err)
	}

	s.emitWidgetsChanged(ctx, widget.DashboardID)
	return jsonResult(updated)
}

func (s *Server) handleDeleteWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widget, err := s.getWidgetForTool(args)
	if err != nil {
		return nil, err
	}

	// Require approval (with metadata for frontend highlight)
	meta := fmt.Sprintf(`{"widgetIds":["%s"]}`, widget.ID)
	approved, err := s.approval.Request("delete_widget",
		fmt.Sprintf("Delete %s widget %s", widget.Type, widget.ID), meta)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	// Plugin lifecycle
	if s.plugins != nil {
		_ = s.plugins.OnDelete(widget.ID, widget.Type)
	}

	if err := s.widgets.DeleteWidget(widget.ID); err != nil {
		return nil, fmt.Errorf("delete widget: %w", err)
	}

	s.emitWidgetsChanged(ctx, widget.DashboardID)
	return textResult(fmt.Sprintf("Widget %s deleted", widget.ID)), nil
}

func (s *Server) handleMoveWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widget, err := s.getWidgetForTool(args)
	if err != nil {
		return nil, err
	}

	x := getFloat(args, "x", widget.X)
	y := getFloat(args, "y", widget.Y)

	if err := s.widgets.UpdateWidgetPosition(widget.ID, x, y, widget.Width, widget.Height); err != nil {
		return nil, fmt.Errorf("move widget: %w", err)
	}

	s.emitWidgetsChanged(ctx, widget.DashboardID)
	return textResult(fmt.Sprintf("Widget %s moved to (%.0f, %.0f)", widget.ID, x, y)), nil
}

func (s *Server) handleResizeWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widget, err := s.getWidgetForTool(args)
	if err != nil {
		return nil, err
	}

	w := getFloat(args, "width", widget.Width)
	h := getFloat(args, "height", widget.Height)

	if err := s.widgets.UpdateWidgetPosition(widget.ID, widget.X, widget.Y, w, h); err != nil {
		return nil, fmt.Errorf("resize widget: %w", err)
	}

	s.emitWidgetsChanged(ctx, widget.DashboardID)
	return textResult(fmt.Sprintf("Widget %s resized to (%.0f × %.0f)", widget.ID, w, h)), nil
}

func (s *Server) handleBatchMoveWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	idsStr, _ := args["widgetIds"].(string)
	dx := getFloat(args, "dx", 0)
	dy := getFloat(args, "dy", 0)

	ids := splitIDs(idsStr)
	if len(ids) == 0 {
		return nil, fmt.Errorf("widgetIds is required")
	}

	var dashboardID string
	for _, id := range ids {
		widget, err := s.widgets.GetWidget(id)
		if err != nil {
			return nil, fmt.Errorf("get widget %s: %w", id, err)
		}
		if dashboardID == "" {
			dashboardID = widget.DashboardID
		}
		newX := widget.X + dx
		newY := widget.Y + dy
		if err := s.widgets.UpdateWidgetPosition(widget.ID, newX, newY, widget.Width, widget.Height); err != nil {
			return nil, fmt.Errorf("move widget %s: %w", id, err)
		}
	}

	if dashboardID != "" {
		s.emitWidgetsChanged(ctx, dashboardID)
	}
	return textResult(fmt.Sprintf("Moved %d widgets by (%.0f, %.0f)", len(ids), dx, dy)), nil
}

func (s *Server) handleBatchUpdateWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	patchesJSON, _ := args["patches"].(string)

	var patches []struct {
		WidgetID string   `json:"widgetId"`
		X        *float64 `json:"x"`
		Y        *float64 `json:"y"`
		Width    *float64 `json:"width"`
		Height   *float64 `json:"height"`
	}
	if err := json.Unmarshal([]byte(patchesJSON), &patches); err != nil {
		return nil, fmt.Errorf("parse patches JSON: %w", err)
	}
	if len(patches) == 0 {
		return nil, fmt.Errorf("patches array is empty")
	}

	var dashboardID string
	for _, p := range patches {
		widget, err := s.widgets.GetWidget(p.WidgetID)
		if err != nil {
			return nil, fmt.Errorf("get widget %s: %w", p.WidgetID, err)
		}
		if dashboardID == "" {
			dashboardID = widget.DashboardID
		}
		x, y, w, h := widget.X, widget.Y, widget.Width, widget.Height
		if p.X != nil {
			x = *p.X
		}
		if p.Y != nil {
			y = *p.Y
		}
		if p.Width != nil {
			w = *p.Width
		}
		if p.Height != nil {
			h = *p.Height
		}
		if err := s.widgets.UpdateWidgetPosition(widget.ID, x, y, w, h); err != nil {
			return nil, fmt.Errorf("update widget %s: %w", p.WidgetID, err)
		}
	}

	if dashboardID != "" {
		s.emitWidgetsChanged(ctx, dashboardID)
	}
	return textResult(fmt.Sprintf("Updated %d widgets", len(patches))), nil
}

func (s *Server) handleBatchDeleteWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	idsStr, _ := args["widgetIds"].(string)
	ids := splitIDs(idsStr)
	if len(ids) == 0 {
		return nil, fmt.Errorf("widgetIds is required")
	}

	// Single approval for all (with metadata for frontend highlight)
	quotedIDs := make([]string, len(ids))
	for i, id := range ids {
		quotedIDs[i] = `"` + id + `"`
	}
	meta := fmt.Sprintf(`{"widgetIds":[%s]}`, strings.Join(quotedIDs, ","))
	approved, err := s.approval.Request("batch_delete_widgets",
		fmt.Sprintf("Delete %d widgets: %s", len(ids), idsStr), meta)
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	var dashboardID string
	deleted := 0
	for _, id := range ids {
		widget, err := s.widgets.GetWidget(id)
		if err != nil {
			continue // skip missing widgets
		}
		if dashboardID == "" {
			dashboardID = widget.DashboardID
		}
		if s.plugins != nil {
			_ = s.plugins.OnDelete(widget.ID, widget.Type)
		}
		if err := s.widgets.DeleteWidget(widget.ID); err != nil {
			return nil, fmt.Errorf("delete widget %s: %w", id, err)
		}
		deleted++
	}

	if dashboardID != "" {
		s.emitWidgetsChanged(ctx, dashboardID)
	}
	return textResult(fmt.Sprintf("Deleted %d widgets", deleted)), nil
}

func (s *Server) handleArrangeWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	dashboardID, err := s.resolveDashboardID(args)
	if err != nil {
		return nil, err
	}

	widgets, err := s.widgets.ListWidgets(dashboardID)
	if err != nil {
		return nil, fmt.Errorf("list widgets: %w", err)
	}

	startX := getFloat(args, "startX", 0)
	startY := getFloat(args, "startY", 0)

	arranged := s.layout.ArrangeGroup(widgets, startX, startY)
	for _, w := range arranged {
		if err := s.widgets.UpdateWidgetPosition(w.ID, w.X, w.Y, w.Width, w.Height); err != nil {
			return nil, fmt.Errorf("update position %s: %w", w.ID, err)
		}
	}

	s.emitWidgetsChanged(ctx, dashboardID)
	return textResult(fmt.Sprintf("Arranged %d widgets", len(arranged))), nil
}

func (s *Server) handleSwapWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	idA, _ := args["widgetIdA"].(string)
	idB, _ := args["widgetIdB"].(string)
	if idA == "" || idB == "" {
		return nil, fmt.Errorf("widgetIdA and widgetIdB are required")
	}

	a, err := s.widgets.GetWidget(idA)
	if err != nil {
		return nil, fmt.Errorf("get widget %s: %w", idA, err)
	}
	b, err := s.widgets.GetWidget(idB)
	if err != nil {
		return nil, fmt.Errorf("get widget %s: %w", idB, err)
	}

	// Swap positions
	if err := s.widgets.UpdateWidgetPosition(a.ID, b.X, b.Y, a.Width, a.Height); err != nil {
		return nil, err
	}
	if err := s.widgets.UpdateWidgetPosition(b.ID, a.X, a.Y, b.Width, b.Height); err != nil {
		return nil, err
	}

	s.emitWidgetsChanged(ctx, a.DashboardID)
	return textResult(fmt.Sprintf("Swapped positions of widgets %s and %s", idA, idB)), nil
}

func (s *Server) handleLinkWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	fromID, _ := args["fromWidgetId"].(string)
	toID, _ := args["toWidgetId"].(string)
	field, _ := args["field"].(string)
	if fromID == "" || toID == "" || field == "" {
		return nil, fmt.Errorf("fromWidgetId, toWidgetId, and field are required")
	}

	from, err := s.widgets.GetWidget(fromID)
	if err != nil {
		return nil, fmt.Errorf("get widget %s: %w", fromID, err)
	}
	if _, err := s.widgets.GetWidget(toID); err != nil {
		return nil, fmt.Errorf("get widget %s: %w", toID, err)
	}

	link, err := s.widgets.CreateLink(from.DashboardID, fromID, toID, field)
	if err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}

	s.emitWidgetsChanged(ctx, from.DashboardID)
	return jsonResult(link)
}

// ── Helper types ───────────────────────────────────────────

type widgetSummary struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Config string  `json:"config"` // first 200 chars of config JSON
}

func summarizeWidget(w domain.Widget) widgetSummary {
	cfg := w.ConfigJSON
	if len(cfg) > 200 {
		cfg = cfg[:200] + "..."
	}
	return widgetSummary{
		ID:     w.ID,
		Type:   w.Type,
		X:      w.X,
		Y:      w.Y,
		Width:  w.Width,
		Height: w.Height,
		Config: cfg,
	}
}

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
