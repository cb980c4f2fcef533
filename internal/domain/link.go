package domain

import "time"

// WidgetLink wires one widget's selection to another widget's data.
// The canonical use is a slicer filtering its target widgets by a field.
type WidgetLink struct {
	ID           string    `json:"id"`
	DashboardID  string    `json:"dashboardId"`
	FromWidgetID string    `json:"fromWidgetId"` // the slicer (or source) widget
	ToWidgetID   string    `json:"toWidgetId"`
	Field        string    `json:"field"` // dataset field the link filters on
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type WidgetLinkStore interface {
	CreateLink(l *WidgetLink) error
	GetLink(id string) (*WidgetLink, error)
	ListLinks(dashboardID string) ([]WidgetLink, error)
	DeleteLink(id string) error
	DeleteLinksByDashboard(dashboardID string) error
	DeleteLinksByWidget(widgetID string) error
}
