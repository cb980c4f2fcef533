package app

import (
	"dash/internal/domain"
	"dash/internal/storage"
)

// ============================================================
// Undo Tree
// ============================================================

func (a *App) LoadUndoTree(dashboardID string) (*storage.UndoTree, error) {
	return a.undos.LoadTree(dashboardID)
}

func (a *App) PushUndoNode(dashboardID, nodeID, parentID, label, snapshotJSON string) (*storage.UndoNode, error) {
	return a.undos.PushNode(dashboardID, nodeID, parentID, label, snapshotJSON)
}

func (a *App) GoToUndoNode(dashboardID, nodeID string) error {
	return a.undos.GoTo(dashboardID, nodeID)
}

// RestoreDashboardWidgets fully replaces all widgets on a dashboard
// (used by undo/redo to sync the DB with a snapshot).
func (a *App) RestoreDashboardWidgets(dashboardID string, widgets []domain.Widget) error {
	return a.widgets.ReplaceDashboardWidgets(dashboardID, widgets)
}
