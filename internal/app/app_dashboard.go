package app

import (
	"dash/internal/domain"
)

// ============================================================
// Dashboards
// ============================================================

func (a *App) ListDashboards() ([]domain.Dashboard, error) {
	return a.dashboards.ListDashboards()
}

func (a *App) CreateDashboard(name string) (*domain.Dashboard, error) {
	return a.dashboards.CreateDashboard(name)
}

func (a *App) RenameDashboard(id, name string) error {
	return a.dashboards.RenameDashboard(id, name)
}

func (a *App) DeleteDashboard(id string) error {
	a.undos.ClearDashboard(id)
	return a.dashboards.DeleteDashboard(id)
}

// GetDashboardState returns the dashboard plus all widgets and links.
// Both the editor and the read-only viewer load through this call.
func (a *App) GetDashboardState(id string) (*domain.DashboardState, error) {
	if a.watcher != nil {
		a.watcher.SetDashboard(id)
	}
	return a.dashboards.GetDashboardState(id)
}

func (a *App) UpdateViewport(dashboardID string, x, y, zoom float64) error {
	return a.dashboards.UpdateViewport(dashboardID, x, y, zoom)
}
