package storage

import (
	"database/sql"
	"fmt"
	"time"

	"dash/internal/domain"
)

// DatasetStore implements domain.DatasetStore using SQLite.
type DatasetStore struct {
	db *DB
}

func NewDatasetStore(db *DB) *DatasetStore {
	return &DatasetStore{db: db}
}

// ── Dataset CRUD ───────────────────────────────────────────

func (s *DatasetStore) CreateDataset(d *domain.Dataset) error {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	_, err := s.db.conn.Exec(
		`INSERT INTO datasets (id, name, config_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.ConfigJSON, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (s *DatasetStore) GetDataset(id string) (*domain.Dataset, error) {
	d := &domain.Dataset{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, config_json, created_at, updated_at
		 FROM datasets WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.ConfigJSON, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("dataset not found: %s", id)
	}
	return d, err
}

func (s *DatasetStore) ListDatasets() ([]domain.Dataset, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, name, config_json, created_at, updated_at
		 FROM datasets ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Dataset
	for rows.Next() {
		d := domain.Dataset{}
		if err := rows.Scan(&d.ID, &d.Name, &d.ConfigJSON, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (s *DatasetStore) UpdateDataset(d *domain.Dataset) error {
	d.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE datasets SET name = ?, config_json = ?, updated_at = ?
		 WHERE id = ?`,
		d.Name, d.ConfigJSON, d.UpdatedAt, d.ID,
	)
	return err
}

func (s *DatasetStore) DeleteDataset(id string) error {
	// Delete all rows first, then the dataset
	if _, err := s.db.conn.Exec(`DELETE FROM dataset_rows WHERE dataset_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.conn.Exec(`DELETE FROM datasets WHERE id = ?`, id)
	return err
}

// ── Row CRUD ───────────────────────────────────────────────

func (s *DatasetStore) CreateRow(r *domain.DatasetRow) error {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now

	// Auto-assign sort_order to end
	if r.SortOrder == 0 {
		var maxOrder sql.NullInt64
		s.db.conn.QueryRow(
			`SELECT MAX(sort_order) FROM dataset_rows WHERE dataset_id = ?`, r.DatasetID,
		).Scan(&maxOrder)
		if maxOrder.Valid {
			r.SortOrder = int(maxOrder.Int64) + 1
		} else {
			r.SortOrder = 1
		}
	}

	_, err := s.db.conn.Exec(
		`INSERT INTO dataset_rows (id, dataset_id, data_json, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.DatasetID, r.DataJSON, r.SortOrder, r.CreatedAt, r.UpdatedAt,
	)
	return err
}

func (s *DatasetStore) GetRow(id string) (*domain.DatasetRow, error) {
	r := &domain.DatasetRow{}
	err := s.db.conn.QueryRow(
		`SELECT id, dataset_id, data_json, sort_order, created_at, updated_at
		 FROM dataset_rows WHERE id = ?`, id,
	).Scan(&r.ID, &r.DatasetID, &r.DataJSON, &r.SortOrder, &r.CreatedAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("row not found: %s", id)
	}
	return r, err
}

func (s *DatasetStore) ListRows(datasetID string) ([]domain.DatasetRow, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, dataset_id, data_json, sort_order, created_at, updated_at
		 FROM dataset_rows WHERE dataset_id = ? ORDER BY sort_order ASC`, datasetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DatasetRow
	for rows.Next() {
		r := domain.DatasetRow{}
		if err := rows.Scan(&r.ID, &r.DatasetID, &r.DataJSON, &r.SortOrder, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

func (s *DatasetStore) UpdateRow(r *domain.DatasetRow) error {
	r.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE dataset_rows SET data_json = ?, sort_order = ?, updated_at = ?
		 WHERE id = ?`,
		r.DataJSON, r.SortOrder, r.UpdatedAt, r.ID,
	)
	return err
}

func (s *DatasetStore) DeleteRow(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM dataset_rows WHERE id = ?`, id)
	return err
}

func (s *DatasetStore) DeleteRowsByDataset(datasetID string) error {
	_, err := s.db.conn.Exec(`DELETE FROM dataset_rows WHERE dataset_id = ?`, datasetID)
	return err
}

// GetDatasetStats returns row count and last update time for a dataset.
func (s *DatasetStore) GetDatasetStats(datasetID string) (int, time.Time, error) {
	var count int
	var lastUpdated sql.NullTime

	err := s.db.conn.QueryRow(
		`SELECT COUNT(*), MAX(updated_at) FROM dataset_rows WHERE dataset_id = ?`, datasetID,
	).Scan(&count, &lastUpdated)
	if err != nil {
		return 0, time.Time{}, err
	}

	t := time.Time{}
	if lastUpdated.Valid {
		t = lastUpdated.Time
	}
	return count, t, nil
}

var _ domain.DatasetStore = (*DatasetStore)(nil)
