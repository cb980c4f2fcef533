package service

import (
	"fmt"

	"github.com/google/uuid"

	"dash/internal/chart"
	"dash/internal/domain"
	"dash/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Widget Service — business logic for dashboard widgets
// ─────────────────────────────────────────────────────────────

// WidgetService manages the lifecycle of dashboard widgets.
type WidgetService struct {
	store   *storage.WidgetStore
	links   *storage.WidgetLinkStore
	emitter EventEmitter
}

// NewWidgetService creates a WidgetService.
func NewWidgetService(store *storage.WidgetStore, links *storage.WidgetLinkStore, emitter EventEmitter) *WidgetService {
	return &WidgetService{store: store, links: links, emitter: emitter}
}

// CreateWidget creates a new widget on a dashboard.
// Unknown chart types are rejected; alias tags resolve to their canonical type.
func (s *WidgetService) CreateWidget(dashboardID, chartType string, x, y, width, height float64) (*domain.Widget, error) {
	desc, ok := chart.Lookup(chartType)
	if !ok {
		return nil, fmt.Errorf("unknown chart type: %q", chartType)
	}
	w := &domain.Widget{
		ID:          uuid.New().String(),
		DashboardID: dashboardID,
		Type:        desc.Tag,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		ConfigJSON:  "{}",
		StyleJSON:   "{}",
	}
	if err := s.store.CreateWidget(w); err != nil {
		return nil, fmt.Errorf("create widget: %w", err)
	}
	return w, nil
}

// GetWidget returns a widget by ID.
func (s *WidgetService) GetWidget(id string) (*domain.Widget, error) {
	return s.store.GetWidget(id)
}

// ListWidgets returns all widgets for a dashboard.
func (s *WidgetService) ListWidgets(dashboardID string) ([]domain.Widget, error) {
	return s.store.ListWidgets(dashboardID)
}

// UpdateWidgetPosition updates the position and size of a widget.
func (s *WidgetService) UpdateWidgetPosition(id string, x, y, width, height float64) error {
	w, err := s.store.GetWidget(id)
	if err != nil {
		return err
	}
	w.X, w.Y, w.Width, w.Height = x, y, width, height
	return s.store.UpdateWidget(w)
}

// UpdateWidgetConfig replaces the widget's config JSON.
// The config is stored as given — rendering degrades gracefully on bad
// bindings, and ValidateWidget reports problems without blocking saves.
func (s *WidgetService) UpdateWidgetConfig(id, configJSON string) error {
	w, err := s.store.GetWidget(id)
	if err != nil {
		return err
	}
	w.ConfigJSON = configJSON
	return s.store.UpdateWidget(w)
}

// UpdateWidgetStyle replaces the widget's style JSON.
func (s *WidgetService) UpdateWidgetStyle(id, styleJSON string) error {
	w, err := s.store.GetWidget(id)
	if err != nil {
		return err
	}
	w.StyleJSON = styleJSON
	return s.store.UpdateWidget(w)
}

// ChangeWidgetType switches a widget to another chart type, keeping its
// config. Fields that don't fit the new type simply stop mattering;
// ValidateWidget reports what the new type is missing.
func (s *WidgetService) ChangeWidgetType(id, chartType string) (*domain.Widget, error) {
	desc, ok := chart.Lookup(chartType)
	if !ok {
		return nil, fmt.Errorf("unknown chart type: %q", chartType)
	}
	w, err := s.store.GetWidget(id)
	if err != nil {
		return nil, err
	}
	w.Type = desc.Tag
	if err := s.store.UpdateWidget(w); err != nil {
		return nil, err
	}
	return w, nil
}

// ValidateWidget checks the widget's binding against its chart type's
// role requirements. Returns human-readable problems; empty means valid.
func (s *WidgetService) ValidateWidget(id string) ([]string, error) {
	w, err := s.store.GetWidget(id)
	if err != nil {
		return nil, err
	}
	cfg := w.Config()
	return chart.Validate(w.Type, cfg.Binding), nil
}

// CreateLink links two widgets so the source (a slicer) filters the
// target by a dataset field.
func (s *WidgetService) CreateLink(dashboardID, fromWidgetID, toWidgetID, field string) (*domain.WidgetLink, error) {
	l := &domain.WidgetLink{
		ID:           uuid.New().String(),
		DashboardID:  dashboardID,
		FromWidgetID: fromWidgetID,
		ToWidgetID:   toWidgetID,
		Field:        field,
	}
	if err := s.links.CreateLink(l); err != nil {
		return nil, fmt.Errorf("create widget link: %w", err)
	}
	return l, nil
}

// ListLinks returns all widget links on a dashboard.
func (s *WidgetService) ListLinks(dashboardID string) ([]domain.WidgetLink, error) {
	return s.links.ListLinks(dashboardID)
}

// DeleteWidget removes a widget and any links touching it.
func (s *WidgetService) DeleteWidget(id string) error {
	if err := s.links.DeleteLinksByWidget(id); err != nil {
		return fmt.Errorf("delete widget links: %w", err)
	}
	return s.store.DeleteWidget(id)
}

// DeleteWidgetsByDashboard removes all widgets for a dashboard.
func (s *WidgetService) DeleteWidgetsByDashboard(dashboardID string) error {
	return s.store.DeleteWidgetsByDashboard(dashboardID)
}

// ReplaceDashboardWidgets atomically replaces all widgets on a dashboard.
// Used by undo/redo to fully sync the DB with a snapshot.
func (s *WidgetService) ReplaceDashboardWidgets(dashboardID string, widgets []domain.Widget) error {
	return s.store.ReplaceDashboardWidgets(dashboardID, widgets)
}
