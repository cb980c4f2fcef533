package domain

import (
	"encoding/json"
	"time"

	"dash/internal/chart"
)

type Widget struct {
	ID          string    `json:"id"`
	DashboardID string    `json:"dashboardId"`
	Type        string    `json:"type"` // chart type tag, resolved via chart.Lookup
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	ConfigJSON  string    `json:"configJson"` // WidgetConfig
	StyleJSON   string    `json:"styleJson"`  // colors, borders, etc.
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WidgetConfig is the persisted configuration of a widget: which dataset
// it reads and how its fields map onto chart roles.
type WidgetConfig struct {
	Title     string              `json:"title,omitempty"`
	DatasetID string              `json:"datasetId,omitempty"`
	Binding   chart.WidgetBinding `json:"binding"`
	Options   map[string]any      `json:"options,omitempty"` // renderer hints (palette, axis labels)
}

// Config decodes the widget's ConfigJSON. A malformed or empty config
// decodes to the zero config — widgets render best-effort, never fail.
func (w *Widget) Config() WidgetConfig {
	var cfg WidgetConfig
	if w.ConfigJSON != "" {
		_ = json.Unmarshal([]byte(w.ConfigJSON), &cfg)
	}
	return cfg
}

type WidgetStore interface {
	CreateWidget(w *Widget) error
	GetWidget(id string) (*Widget, error)
	ListWidgets(dashboardID string) ([]Widget, error)
	UpdateWidget(w *Widget) error
	DeleteWidget(id string) error
	DeleteWidgetsByDashboard(dashboardID string) error
}
