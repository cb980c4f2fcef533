package app

import (
	"dash/internal/chart"
	"dash/internal/service"
)

// ============================================================
// Chart Rendering
// ============================================================

// ListChartTypes returns every registered chart type descriptor
// (canonical tags only — aliases resolve on create).
func (a *App) ListChartTypes() []chart.Descriptor {
	return chart.ListAll()
}

// ValidateWidget reports binding problems for a widget. An empty
// slice means the widget has everything its chart type requires.
func (a *App) ValidateWidget(widgetID string) ([]string, error) {
	return a.widgets.ValidateWidget(widgetID)
}

// RenderWidget computes the chart payload for one widget, applying
// slicer filter values if provided.
func (a *App) RenderWidget(widgetID string, filters map[string]string) (*service.WidgetData, error) {
	return a.render.RenderWidget(widgetID, filters)
}

// RenderDashboard computes chart payloads for every widget on a dashboard.
func (a *App) RenderDashboard(dashboardID string, filters map[string]string) ([]service.WidgetData, error) {
	return a.render.RenderDashboard(dashboardID, filters)
}
