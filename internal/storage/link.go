package storage

import (
	"fmt"
	"time"

	"dash/internal/domain"
)

// WidgetLinkStore implements domain.WidgetLinkStore using SQLite.
type WidgetLinkStore struct {
	db *DB
}

func NewWidgetLinkStore(db *DB) *WidgetLinkStore {
	return &WidgetLinkStore{db: db}
}

func (s *WidgetLinkStore) CreateLink(l *domain.WidgetLink) error {
	now := time.Now()
	l.CreatedAt = now
	l.UpdatedAt = now
	_, err := s.db.conn.Exec(
		`INSERT INTO widget_links (id, dashboard_id, from_widget_id, to_widget_id, field, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.DashboardID, l.FromWidgetID, l.ToWidgetID, l.Field, l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func (s *WidgetLinkStore) GetLink(id string) (*domain.WidgetLink, error) {
	l := &domain.WidgetLink{}
	err := s.db.conn.QueryRow(
		`SELECT id, dashboard_id, from_widget_id, to_widget_id, field, created_at, updated_at FROM widget_links WHERE id = ?`, id,
	).Scan(&l.ID, &l.DashboardID, &l.FromWidgetID, &l.ToWidgetID, &l.Field, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	return l, nil
}

func (s *WidgetLinkStore) ListLinks(dashboardID string) ([]domain.WidgetLink, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, dashboard_id, from_widget_id, to_widget_id, field, created_at, updated_at FROM widget_links WHERE dashboard_id = ? ORDER BY created_at ASC`,
		dashboardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.WidgetLink
	for rows.Next() {
		var l domain.WidgetLink
		if err := rows.Scan(&l.ID, &l.DashboardID, &l.FromWidgetID, &l.ToWidgetID, &l.Field, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (s *WidgetLinkStore) DeleteLink(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM widget_links WHERE id = ?`, id)
	return err
}

func (s *WidgetLinkStore) DeleteLinksByDashboard(dashboardID string) error {
	_, err := s.db.conn.Exec(`DELETE FROM widget_links WHERE dashboard_id = ?`, dashboardID)
	return err
}

func (s *WidgetLinkStore) DeleteLinksByWidget(widgetID string) error {
	_, err := s.db.conn.Exec(
		`DELETE FROM widget_links WHERE from_widget_id = ? OR to_widget_id = ?`,
		widgetID, widgetID,
	)
	return err
}
