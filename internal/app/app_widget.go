package app

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"dash/internal/domain"
)

// ============================================================
// Widgets
// ============================================================

func (a *App) CreateWidget(dashboardID, chartType string, x, y, w, h float64) (*domain.Widget, error) {
	widget, err := a.widgets.CreateWidget(dashboardID, chartType, x, y, w, h)
	if err != nil {
		return nil, err
	}
	// Plugin hook: e.g. the table plugin creates a backing dataset.
	if err := a.registry.OnCreate(widget.ID, dashboardID, widget.Type); err != nil {
		wailsRuntime.LogErrorf(a.ctx, "[plugin] OnCreate for %s: %v", widget.Type, err)
	}
	// Re-read: a plugin may have written config during OnCreate.
	return a.widgets.GetWidget(widget.ID)
}

func (a *App) UpdateWidgetPosition(widgetID string, x, y, w, h float64) error {
	return a.widgets.UpdateWidgetPosition(widgetID, x, y, w, h)
}

func (a *App) UpdateWidgetConfig(widgetID, configJSON string) error {
	return a.widgets.UpdateWidgetConfig(widgetID, configJSON)
}

func (a *App) UpdateWidgetStyle(widgetID, styleJSON string) error {
	return a.widgets.UpdateWidgetStyle(widgetID, styleJSON)
}

func (a *App) ChangeWidgetType(widgetID, chartType string) (*domain.Widget, error) {
	return a.widgets.ChangeWidgetType(widgetID, chartType)
}

func (a *App) DeleteWidget(widgetID string) error {
	w, err := a.widgets.GetWidget(widgetID)
	if err == nil {
		if perr := a.registry.OnDelete(widgetID, w.Type); perr != nil {
			wailsRuntime.LogErrorf(a.ctx, "[plugin] OnDelete for %s: %v", w.Type, perr)
		}
	}
	return a.widgets.DeleteWidget(widgetID)
}

// ============================================================
// Widget Links (slicer → target filtering)
// ============================================================

func (a *App) CreateWidgetLink(dashboardID, fromWidgetID, toWidgetID, field string) (*domain.WidgetLink, error) {
	return a.widgets.CreateLink(dashboardID, fromWidgetID, toWidgetID, field)
}

func (a *App) ListWidgetLinks(dashboardID string) ([]domain.WidgetLink, error) {
	return a.widgets.ListLinks(dashboardID)
}

func (a *App) DeleteWidgetLink(id string) error {
	return a.links.DeleteLink(id)
}
