package service

import (
	"fmt"

	"dash/internal/chart"
	"dash/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Render Service — turns widget configs into chart-ready data
// ─────────────────────────────────────────────────────────────
// One code path feeds both the editor and the read-only viewer:
// load the widget, pull its dataset rows, and run them through the
// chart engine. Data problems never fail a render — the widget shows
// whatever could be computed, and validation is a separate call.

// RenderService resolves widgets to renderable series data.
type RenderService struct {
	widgets  *WidgetService
	datasets *DatasetService
}

// NewRenderService creates a RenderService.
func NewRenderService(widgets *WidgetService, datasets *DatasetService) *RenderService {
	return &RenderService{widgets: widgets, datasets: datasets}
}

// WidgetData is the render payload for a single widget.
// Exactly one of Series/Pie is populated for data-driven chart types;
// both stay empty for types with no data binding (text, slicer).
type WidgetData struct {
	WidgetID string               `json:"widgetId"`
	Type     string               `json:"type"`
	Title    string               `json:"title,omitempty"`
	Series   *chart.SeriesResult  `json:"series,omitempty"`
	Pie      []chart.PieDonutItem `json:"pie,omitempty"`
	Problems []string             `json:"problems,omitempty"` // validation notes, non-blocking
}

// RenderWidget computes the chart data for one widget.
// Filters are extra equality predicates applied to the dataset rows
// before aggregation — the slicer link path feeds these in.
func (s *RenderService) RenderWidget(widgetID string, filters map[string]string) (*WidgetData, error) {
	w, err := s.widgets.GetWidget(widgetID)
	if err != nil {
		return nil, fmt.Errorf("render widget: %w", err)
	}
	return s.renderLoaded(w, filters)
}

// RenderDashboard computes chart data for every widget on a dashboard.
// A widget that fails to load its dataset renders empty rather than
// failing the whole surface.
func (s *RenderService) RenderDashboard(dashboardID string, filters map[string]string) ([]WidgetData, error) {
	widgets, err := s.widgets.ListWidgets(dashboardID)
	if err != nil {
		return nil, fmt.Errorf("render dashboard: %w", err)
	}

	out := make([]WidgetData, 0, len(widgets))
	for i := range widgets {
		wd, err := s.renderLoaded(&widgets[i], filters)
		if err != nil {
			out = append(out, WidgetData{WidgetID: widgets[i].ID, Type: widgets[i].Type})
			continue
		}
		out = append(out, *wd)
	}
	return out, nil
}

func (s *RenderService) renderLoaded(w *domain.Widget, filters map[string]string) (*WidgetData, error) {
	cfg := w.Config()
	data := &WidgetData{
		WidgetID: w.ID,
		Type:     w.Type,
		Title:    cfg.Title,
		Problems: chart.Validate(w.Type, cfg.Binding),
	}

	if cfg.DatasetID == "" {
		return data, nil
	}

	rows, err := s.datasets.Rows(cfg.DatasetID)
	if err != nil {
		return nil, err
	}
	rows = applyFilters(rows, filters)

	if isPieTag(w.Type) {
		data.Pie = chart.PieDonutData(rows, cfg.Binding)
		return data, nil
	}

	result := chart.BuildAggregatedSeries(rows, cfg.Binding)
	data.Series = &result
	return data, nil
}

// isPieTag reports whether a (possibly aliased) tag renders via the
// pie/donut reducer instead of the series pipeline.
func isPieTag(tag string) bool {
	d, ok := chart.Lookup(tag)
	if !ok {
		return false
	}
	return d.Tag == "pie" || d.Tag == "donut"
}

// applyFilters keeps rows whose stringified field values match every
// filter entry. Rows missing a filtered field are dropped.
func applyFilters(rows []chart.Row, filters map[string]string) []chart.Row {
	if len(filters) == 0 {
		return rows
	}
	var kept []chart.Row
	for _, row := range rows {
		match := true
		for field, want := range filters {
			v, ok := row[field]
			if !ok || fmt.Sprint(v) != want {
				match = false
				break
			}
		}
		if match {
			kept = append(kept, row)
		}
	}
	return kept
}
