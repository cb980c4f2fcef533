package plugins

import (
	"encoding/json"
	"fmt"

	"dash/internal/service"
	"dash/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Table Widget Plugin (Go-side)
// ─────────────────────────────────────────────────────────────

// tablePlugin implements service.WidgetPlugin for the "table" chart type.
// A fresh table widget gets a backing dataset created automatically, so
// the user can start typing rows without a separate setup step.
type tablePlugin struct {
	datasets *service.DatasetService
	widgets  *service.WidgetService
}

// NewTablePlugin creates the table widget plugin.
func NewTablePlugin(datasets *service.DatasetService, widgets *service.WidgetService) service.WidgetPlugin {
	return &tablePlugin{datasets: datasets, widgets: widgets}
}

func (p *tablePlugin) WidgetType() string { return "table" }

func (p *tablePlugin) OnCreate(widgetID, _ string) error {
	ds, err := p.datasets.CreateDataset("New Table")
	if err != nil {
		return fmt.Errorf("table plugin: OnCreate: %w", err)
	}
	cfg, _ := json.Marshal(map[string]any{"datasetId": ds.ID})
	if err := p.widgets.UpdateWidgetConfig(widgetID, string(cfg)); err != nil {
		return fmt.Errorf("table plugin: link dataset: %w", err)
	}
	return nil
}

func (p *tablePlugin) OnDelete(widgetID string) error {
	w, err := p.widgets.GetWidget(widgetID)
	if err != nil {
		// Widget may already be gone, treat as success
		return nil
	}
	cfg := w.Config()
	if cfg.DatasetID == "" {
		return nil
	}
	return p.datasets.DeleteDataset(cfg.DatasetID)
}

// ─────────────────────────────────────────────────────────────
// Slicer Widget Plugin (link cleanup only)
// ─────────────────────────────────────────────────────────────

type slicerPlugin struct {
	links *storage.WidgetLinkStore
}

// NewSlicerPlugin creates the slicer widget plugin.
func NewSlicerPlugin(links *storage.WidgetLinkStore) service.WidgetPlugin {
	return &slicerPlugin{links: links}
}

func (p *slicerPlugin) WidgetType() string { return "slicer" }

func (p *slicerPlugin) OnCreate(widgetID, _ string) error {
	// Slicers have no server-side initialization; the filter field lives in config.
	return nil
}

func (p *slicerPlugin) OnDelete(widgetID string) error {
	return p.links.DeleteLinksByWidget(widgetID)
}
