package storage

import (
	"fmt"
	"time"

	"dash/internal/domain"
)

// DashboardStore implements domain.DashboardStore using SQLite.
type DashboardStore struct {
	db *DB
}

func NewDashboardStore(db *DB) *DashboardStore {
	return &DashboardStore{db: db}
}

func (s *DashboardStore) CreateDashboard(d *domain.Dashboard) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	_, err := s.db.conn.Exec(
		`INSERT INTO dashboards (id, name, icon, viewport_x, viewport_y, viewport_zoom, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Icon, d.ViewportX, d.ViewportY, d.ViewportZoom, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (s *DashboardStore) GetDashboard(id string) (*domain.Dashboard, error) {
	d := &domain.Dashboard{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, icon, viewport_x, viewport_y, viewport_zoom, created_at, updated_at FROM dashboards WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.Icon, &d.ViewportX, &d.ViewportY, &d.ViewportZoom, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	return d, nil
}

func (s *DashboardStore) ListDashboards() ([]domain.Dashboard, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, name, icon, viewport_x, viewport_y, viewport_zoom, created_at, updated_at FROM dashboards ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dashboards []domain.Dashboard
	for rows.Next() {
		var d domain.Dashboard
		if err := rows.Scan(&d.ID, &d.Name, &d.Icon, &d.ViewportX, &d.ViewportY, &d.ViewportZoom, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		dashboards = append(dashboards, d)
	}
	return dashboards, rows.Err()
}

func (s *DashboardStore) UpdateDashboard(d *domain.Dashboard) error {
	d.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE dashboards SET name = ?, icon = ?, viewport_x = ?, viewport_y = ?, viewport_zoom = ?, updated_at = ? WHERE id = ?`,
		d.Name, d.Icon, d.ViewportX, d.ViewportY, d.ViewportZoom, d.UpdatedAt, d.ID,
	)
	return err
}

func (s *DashboardStore) DeleteDashboard(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM dashboards WHERE id = ?`, id)
	return err
}
