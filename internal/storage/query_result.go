package storage

import (
	"database/sql"
	"fmt"
	"time"

	"dash/internal/domain"
)

// QueryResultStore manages cached query previews in SQLite.
type QueryResultStore struct {
	db *DB
}

// NewQueryResultStore creates a new QueryResultStore.
func NewQueryResultStore(db *DB) *QueryResultStore {
	return &QueryResultStore{db: db}
}

// UpsertResult inserts or replaces the cached preview for a dataset.
func (s *QueryResultStore) UpsertResult(r *domain.QueryResult) error {
	if r.ExecutedAt.IsZero() {
		r.ExecutedAt = time.Now()
	}

	hasMore := 0
	if r.HasMore {
		hasMore = 1
	}

	_, err := s.db.Conn().Exec(
		`INSERT INTO query_results (id, dataset_id, query, columns_json, rows_json, total_rows, has_more, executed_at, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   query=excluded.query, columns_json=excluded.columns_json, rows_json=excluded.rows_json,
		   total_rows=excluded.total_rows, has_more=excluded.has_more, executed_at=excluded.executed_at,
		   duration_ms=excluded.duration_ms, error=excluded.error`,
		r.ID, r.DatasetID, r.Query, r.ColumnsJSON, r.RowsJSON, r.TotalRows, hasMore,
		r.ExecutedAt, r.DurationMs, r.Error,
	)
	return err
}

// GetResultByDataset retrieves the latest cached preview for a dataset.
func (s *QueryResultStore) GetResultByDataset(datasetID string) (*domain.QueryResult, error) {
	row := s.db.Conn().QueryRow(
		`SELECT id, dataset_id, query, columns_json, rows_json, total_rows, has_more,
		        executed_at, duration_ms, error
		 FROM query_results WHERE dataset_id = ? ORDER BY executed_at DESC LIMIT 1`, datasetID,
	)

	r := &domain.QueryResult{}
	var hasMore int
	err := row.Scan(&r.ID, &r.DatasetID, &r.Query, &r.ColumnsJSON, &r.RowsJSON, &r.TotalRows,
		&hasMore, &r.ExecutedAt, &r.DurationMs, &r.Error)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan query result: %w", err)
	}
	r.HasMore = hasMore == 1
	return r, nil
}

// DeleteResultsByDataset removes all cached previews for a dataset.
func (s *QueryResultStore) DeleteResultsByDataset(datasetID string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM query_results WHERE dataset_id = ?`, datasetID)
	return err
}
