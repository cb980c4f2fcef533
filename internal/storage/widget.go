package storage

import (
	"fmt"
	"time"

	"dash/internal/domain"
)

// WidgetStore implements domain.WidgetStore using SQLite.
type WidgetStore struct {
	db *DB
}

func NewWidgetStore(db *DB) *WidgetStore {
	return &WidgetStore{db: db}
}

func (s *WidgetStore) CreateWidget(w *domain.Widget) error {
	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now
	_, err := s.db.conn.Exec(
		`INSERT INTO widgets (id, dashboard_id, type, x, y, width, height, config_json, style_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.DashboardID, w.Type, w.X, w.Y, w.Width, w.Height, w.ConfigJSON, w.StyleJSON, w.CreatedAt, w.UpdatedAt,
	)
	return err
}

func (s *WidgetStore) GetWidget(id string) (*domain.Widget, error) {
	w := &domain.Widget{}
	err := s.db.conn.QueryRow(
		`SELECT id, dashboard_id, type, x, y, width, height, config_json, style_json, created_at, updated_at FROM widgets WHERE id = ?`, id,
	).Scan(&w.ID, &w.DashboardID, &w.Type, &w.X, &w.Y, &w.Width, &w.Height, &w.ConfigJSON, &w.StyleJSON, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get widget: %w", err)
	}
	return w, nil
}

func (s *WidgetStore) ListWidgets(dashboardID string) ([]domain.Widget, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, dashboard_id, type, x, y, width, height, config_json, style_json, created_at, updated_at FROM widgets WHERE dashboard_id = ? ORDER BY created_at ASC`,
		dashboardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var widgets []domain.Widget
	for rows.Next() {
		var w domain.Widget
		if err := rows.Scan(&w.ID, &w.DashboardID, &w.Type, &w.X, &w.Y, &w.Width, &w.Height, &w.ConfigJSON, &w.StyleJSON, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		widgets = append(widgets, w)
	}
	return widgets, rows.Err()
}

func (s *WidgetStore) UpdateWidget(w *domain.Widget) error {
	w.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE widgets SET type = ?, x = ?, y = ?, width = ?, height = ?, config_json = ?, style_json = ?, updated_at = ? WHERE id = ?`,
		w.Type, w.X, w.Y, w.Width, w.Height, w.ConfigJSON, w.StyleJSON, w.UpdatedAt, w.ID,
	)
	return err
}

func (s *WidgetStore) DeleteWidget(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM widgets WHERE id = ?`, id)
	return err
}

func (s *WidgetStore) DeleteWidgetsByDashboard(dashboardID string) error {
	_, err := s.db.conn.Exec(`DELETE FROM widgets WHERE dashboard_id = ?`, dashboardID)
	return err
}

// ReplaceDashboardWidgets atomically replaces all widgets on a dashboard.
// Used by undo/redo to fully sync DB with a snapshot.
func (s *WidgetStore) ReplaceDashboardWidgets(dashboardID string, widgets []domain.Widget) error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM widgets WHERE dashboard_id = ?`, dashboardID); err != nil {
		return fmt.Errorf("delete widgets: %w", err)
	}

	// Links reference widgets, so they go too
	if _, err := tx.Exec(`DELETE FROM widget_links WHERE dashboard_id = ?`, dashboardID); err != nil {
		return fmt.Errorf("delete links: %w", err)
	}

	now := time.Now()
	for _, w := range widgets {
		_, err := tx.Exec(
			`INSERT INTO widgets (id, dashboard_id, type, x, y, width, height, config_json, style_json, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			w.ID, dashboardID, w.Type, w.X, w.Y, w.Width, w.Height, w.ConfigJSON, w.StyleJSON, now, now,
		)
		if err != nil {
			return fmt.Errorf("insert widget %s: %w", w.ID, err)
		}
	}

	return tx.Commit()
}
