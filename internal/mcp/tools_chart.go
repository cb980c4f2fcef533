package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"dash/internal/chart"

	"github.com/mark3labs/mcp-go/mcp"
)

var bindingDescription = `Field binding that maps dataset fields onto chart roles:
- axisField: dataset field for the category axis (bar, line, area, scatter)
- valueField: dataset field holding the numeric values
- field: single-field shorthand for pie/donut/kpi (value and label come from one field pair)
- legendField: optional field that splits values into legend series (pivoted output)
- filterField: the field a slicer widget filters on
- aggregation: ` + aggregationKinds() + ` (sum is the default; "percentage" averages the group)
Example: {"axisField":"region","valueField":"revenue","legendField":"quarter","aggregation":"sum"}`

// aggregationKinds renders the engine's aggregation set for tool text.
func aggregationKinds() string {
	kinds := chart.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func (s *Server) registerChartTools() {
	s.mcp.AddTool(mcp.NewTool("create_chart",
		mcp.WithDescription("Create a chart widget bound to a dataset. Combines create_widget + config in one step. "+bindingDescription),
		mcp.WithString("dashboardId", mcp.Description("Dashboard ID (optional, defaults to active dashboard)")),
		mcp.WithString("datasetId", mcp.Description("ID of the dataset feeding the chart"), mcp.Required()),
		mcp.WithString("chartType", mcp.Description("Chart type: bar, line, area, scatter, pie, donut, kpi, etc."), mcp.Required()),
		mcp.WithString("axisField", mcp.Description("Dataset field for the category axis")),
		mcp.WithString("valueField", mcp.Description("Dataset field holding numeric values")),
		mcp.WithString("field", mcp.Description("Single-field shorthand for pie/donut/kpi")),
		mcp.WithString("legendField", mcp.Description("Optional legend field for pivoted series")),
		mcp.WithString("aggregation", mcp.Description("Aggregation: "+aggregationKinds()+" (default sum)")),
		mcp.WithString("title", mcp.Description("Chart title (optional)")),
	), s.handleCreateChart)

	s.mcp.AddTool(mcp.NewTool("batch_create_charts",
		mcp.WithDescription("Create multiple chart widgets at once. Pass a JSON array of chart objects."),
		mcp.WithString("dashboardId", mcp.Description("Dashboard ID (optional, defaults to active dashboard)")),
		mcp.WithString("charts",
			mcp.Description("JSON array of chart objects [{datasetId, chartType, axisField?, valueField?, field?, legendField?, aggregation?, title?, x?, y?, width?, height?}, ...]"),
			mcp.Required(),
		),
	), s.handleBatchCreateCharts)

	s.mcp.AddTool(mcp.NewTool("list_chart_types",
		mcp.WithDescription("List all registered chart types with their required and optional field roles"),
	), s.handleListChartTypes)

	s.mcp.AddTool(mcp.NewTool("validate_widget",
		mcp.WithDescription("Validate a widget's field binding against its chart type. Returns a list of problems; empty means valid."),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
	), s.handleValidateWidget)

	s.mcp.AddTool(mcp.NewTool("render_widget",
		mcp.WithDescription("Render a widget's chart data: aggregated series, pivoted rows, or pie slices. Renders best-effort — data problems are reported, never fatal."),
		mcp.WithString("widgetId", mcp.Description("Widget ID"), mcp.Required()),
		mcp.WithString("filters", mcp.Description("Optional JSON object of field=value equality filters, e.g. {\"region\":\"north\"}")),
	), s.handleRenderWidget)
}

// chartConfigJSON builds the widget config payload for a chart widget.
func chartConfigJSON(title, datasetID string, binding chart.WidgetBinding) string {
	cfg := map[string]any{
		"title":     title,
		"datasetId": datasetID,
		"binding":   binding,
	}
	data, _ := json.Marshal(cfg)
	return string(data)
}

func (s *Server) handleCreateChart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	dashboardID, err := s.resolveDashboardID(args)
	if err != nil {
		return nil, err
	}

	datasetID, _ := args["datasetId"].(string)
	chartType, _ := args["chartType"].(string)
	if datasetID == "" || chartType == "" {
		return nil, fmt.Errorf("datasetId and chartType are required")
	}
	if _, err := s.datasets.GetDataset(datasetID); err != nil {
		return nil, fmt.Errorf("resolve dataset: %w", err)
	}

	title, _ := args["title"].(string)
	binding := chart.WidgetBinding{
		AxisField:   req.GetString("axisField", ""),
		ValueField:  req.GetString("valueField", ""),
		Field:       req.GetString("field", ""),
		LegendField: req.GetString("legendField", ""),
		Aggregation: chart.AggregationKind(req.GetString("aggregation", "")),
	}

	existing, _ := s.widgets.ListWidgets(dashboardID)
	x, y := s.layout.NextPosition(existing, 540, 420)

	widget, err := s.widgets.CreateWidget(dashboardID, chartType, x, y, 540, 420)
	if err != nil {
		return nil, fmt.Errorf("create chart widget: %w", err)
	}
	if s.plugins != nil {
		_ = s.plugins.OnCreate(widget.ID, dashboardID, widget.Type)
	}

	if err := s.widgets.UpdateWidgetConfig(widget.ID, chartConfigJSON(title, datasetID, binding)); err != nil {
		return nil, fmt.Errorf("set chart config: %w", err)
	}

	// Report binding problems so the agent can self-correct immediately
	problems, _ := s.widgets.ValidateWidget(widget.ID)
	widget, _ = s.widgets.GetWidget(widget.ID)

	s.emitWidgetsChanged(ctx, dashboardID)
	return jsonResult(map[string]any{
		"widget":   widget,
		"problems": problems,
	})
}

func (s *Server) handleBatchCreateCharts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	dashboardID, err := s.resolveDashboardID(args)
	if err != nil {
		return nil, err
	}

	chartsJSON, _ := args["charts"].(string)
	var charts []struct {
		DatasetID   string   `json:"datasetId"`
		ChartType   string   `json:"chartType"`
		AxisField   string   `json:"axisField"`
		ValueField  string   `json:"valueField"`
		Field       string   `json:"field"`
		LegendField string   `json:"legendField"`
		Aggregation string   `json:"aggregation"`
		Title       string   `json:"title"`
		X           *float64 `json:"x"`
		Y           *float64 `json:"y"`
		Width       *float64 `json:"width"`
		Height      *float64 `json:"height"`
	}
	if err := json.Unmarshal([]byte(chartsJSON), &charts); err != nil {
		return nil, fmt.Errorf("parse charts JSON: %w", err)
	}
	if len(charts) == 0 {
		return nil, fmt.Errorf("charts array is empty")
	}

	var created []string
	for _, c := range charts {
		if _, err := s.datasets.GetDataset(c.DatasetID); err != nil {
			return nil, fmt.Errorf("resolve dataset %s: %w", c.DatasetID, err)
		}

		w, h := 540.0, 420.0
		if c.Width != nil {
			w = *c.Width
		}
		if c.Height != nil {
			h = *c.Height
		}

		var x, y float64
		if c.X != nil && c.Y != nil {
			x, y = *c.X, *c.Y
		} else {
			existing, _ := s.widgets.ListWidgets(dashboardID)
			x, y = s.layout.NextPosition(existing, w, h)
		}

		widget, err := s.widgets.CreateWidget(dashboardID, c.ChartType, x, y, w, h)
		if err != nil {
			return nil, fmt.Errorf("create chart widget: %w", err)
		}
		if s.plugins != nil {
			_ = s.plugins.OnCreate(widget.ID, dashboardID, widget.Type)
		}

		binding := chart.WidgetBinding{
			AxisField:   c.AxisField,
			ValueField:  c.ValueField,
			Field:       c.Field,
			LegendField: c.LegendField,
			Aggregation: chart.AggregationKind(c.Aggregation),
		}
		if err := s.widgets.UpdateWidgetConfig(widget.ID, chartConfigJSON(c.Title, c.DatasetID, binding)); err != nil {
			return nil, fmt.Errorf("set chart config: %w", err)
		}
		created = append(created, widget.ID)
	}

	s.emitWidgetsChanged(ctx, dashboardID)
	return jsonResult(map[string]any{"count": len(created), "created": created})
}

func (s *Server) handleListChartTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(chart.ListAll())
}

func (s *Server) handleValidateWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	widget, err := s.getWidgetForTool(req.GetArguments())
	if err != nil {
		return nil, err
	}
	problems, err := s.widgets.ValidateWidget(widget.ID)
	if err != nil {
		return nil, fmt.Errorf("validate widget: %w", err)
	}
	return jsonResult(map[string]any{
		"widgetId": widget.ID,
		"type":     widget.Type,
		"valid":    len(problems) == 0,
		"problems": problems,
	})
}

func (s *Server) handleRenderWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	widget, err := s.getWidgetForTool(args)
	if err != nil {
		return nil, err
	}

	var filters map[string]string
	if raw, ok := args["filters"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &filters); err != nil {
			return nil, fmt.Errorf("parse filters JSON: %w", err)
		}
	}

	data, err := s.render.RenderWidget(widget.ID, filters)
	if err != nil {
		return nil, fmt.Errorf("render widget: %w", err)
	}
	return jsonResult(data)
}
