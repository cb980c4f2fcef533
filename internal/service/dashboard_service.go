package service

import (
	"fmt"

	"github.com/google/uuid"

	"dash/internal/domain"
	"dash/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Dashboard Service — business logic for dashboards
// ─────────────────────────────────────────────────────────────

// DashboardService manages dashboards and their full render state.
type DashboardService struct {
	store   *storage.DashboardStore
	widgets *WidgetService
	links   *storage.WidgetLinkStore
	emitter EventEmitter
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(
	store *storage.DashboardStore,
	widgets *WidgetService,
	links *storage.WidgetLinkStore,
	emitter EventEmitter,
) *DashboardService {
	return &DashboardService{
		store:   store,
		widgets: widgets,
		links:   links,
		emitter: emitter,
	}
}

func (s *DashboardService) ListDashboards() ([]domain.Dashboard, error) {
	return s.store.ListDashboards()
}

func (s *DashboardService) CreateDashboard(name string) (*domain.Dashboard, error) {
	d := &domain.Dashboard{
		ID:           uuid.New().String(),
		Name:         name,
		Icon:         "📊",
		ViewportZoom: 1.0,
	}
	if err := s.store.CreateDashboard(d); err != nil {
		return nil, fmt.Errorf("create dashboard: %w", err)
	}
	return d, nil
}

func (s *DashboardService) RenameDashboard(id, name string) error {
	d, err := s.store.GetDashboard(id)
	if err != nil {
		return err
	}
	d.Name = name
	return s.store.UpdateDashboard(d)
}

func (s *DashboardService) DeleteDashboard(id string) error {
	s.links.DeleteLinksByDashboard(id)
	s.widgets.DeleteWidgetsByDashboard(id)
	return s.store.DeleteDashboard(id)
}

// GetDashboardState returns the dashboard plus all widgets and links.
// Both the editor and the read-only viewer consume this shape.
func (s *DashboardService) GetDashboardState(id string) (*domain.DashboardState, error) {
	d, err := s.store.GetDashboard(id)
	if err != nil {
		return nil, err
	}
	widgets, err := s.widgets.ListWidgets(id)
	if err != nil {
		return nil, err
	}
	links, err := s.links.ListLinks(id)
	if err != nil {
		return nil, err
	}
	if widgets == nil {
		widgets = []domain.Widget{}
	}
	if links == nil {
		links = []domain.WidgetLink{}
	}
	return &domain.DashboardState{
		Dashboard: *d,
		Widgets:   widgets,
		Links:     links,
	}, nil
}

func (s *DashboardService) UpdateViewport(id string, x, y, zoom float64) error {
	d, err := s.store.GetDashboard(id)
	if err != nil {
		return err
	}
	d.ViewportX = x
	d.ViewportY = y
	d.ViewportZoom = zoom
	return s.store.UpdateDashboard(d)
}
