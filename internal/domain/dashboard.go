package domain

import "time"

type Dashboard struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Icon         string    `json:"icon"`
	ViewportX    float64   `json:"viewportX"`
	ViewportY    float64   `json:"viewportY"`
	ViewportZoom float64   `json:"viewportZoom"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type DashboardStore interface {
	CreateDashboard(d *Dashboard) error
	GetDashboard(id string) (*Dashboard, error)
	ListDashboards() ([]Dashboard, error)
	UpdateDashboard(d *Dashboard) error
	DeleteDashboard(id string) error
}

// DashboardState is the complete state of a dashboard for rendering.
// Returned to the frontend to draw the full surface — the editor and the
// read-only viewer both consume this shape.
type DashboardState struct {
	Dashboard Dashboard    `json:"dashboard"`
	Widgets   []Widget     `json:"widgets"`
	Links     []WidgetLink `json:"links"`
}
