package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dash/internal/chart"
	"dash/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// Dataset Service — business logic for datasets and their rows
// ─────────────────────────────────────────────────────────────

// DatasetService manages datasets, the tables widgets bind to.
type DatasetService struct {
	store domain.DatasetStore
}

// NewDatasetService creates a DatasetService.
func NewDatasetService(store domain.DatasetStore) *DatasetService {
	return &DatasetService{store: store}
}

// DatasetStats holds summary statistics for a dataset.
type DatasetStats struct {
	RowCount    int       `json:"rowCount"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// StatsProvider is the optional store capability behind GetDatasetStats.
type StatsProvider interface {
	GetDatasetStats(datasetID string) (int, time.Time, error)
}

// ── Dataset CRUD ───────────────────────────────────────────

func (s *DatasetService) CreateDataset(name string) (*domain.Dataset, error) {
	d := &domain.Dataset{
		ID:         uuid.New().String(),
		Name:       name,
		ConfigJSON: "{}",
	}
	if err := s.store.CreateDataset(d); err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}
	return d, nil
}

func (s *DatasetService) GetDataset(id string) (*domain.Dataset, error) {
	return s.store.GetDataset(id)
}

func (s *DatasetService) UpdateConfig(id, configJSON string) error {
	d, err := s.store.GetDataset(id)
	if err != nil {
		return err
	}
	d.ConfigJSON = configJSON
	return s.store.UpdateDataset(d)
}

func (s *DatasetService) RenameDataset(id, name string) error {
	d, err := s.store.GetDataset(id)
	if err != nil {
		return err
	}
	d.Name = name
	return s.store.UpdateDataset(d)
}

func (s *DatasetService) DeleteDataset(id string) error {
	return s.store.DeleteDataset(id)
}

func (s *DatasetService) ListDatasets() ([]domain.Dataset, error) {
	return s.store.ListDatasets()
}

func (s *DatasetService) GetDatasetStats(id string) (*DatasetStats, error) {
	sp, ok := s.store.(StatsProvider)
	if !ok {
		return nil, fmt.Errorf("dataset store does not provide stats")
	}
	count, lastUpdated, err := sp.GetDatasetStats(id)
	if err != nil {
		return nil, err
	}
	return &DatasetStats{RowCount: count, LastUpdated: lastUpdated}, nil
}

// ── Row CRUD ───────────────────────────────────────────────

func (s *DatasetService) CreateRow(datasetID, dataJSON string) (*domain.DatasetRow, error) {
	row := &domain.DatasetRow{
		ID:        uuid.New().String(),
		DatasetID: datasetID,
		DataJSON:  dataJSON,
	}
	if err := s.store.CreateRow(row); err != nil {
		return nil, fmt.Errorf("create row: %w", err)
	}
	return row, nil
}

func (s *DatasetService) ListRows(datasetID string) ([]domain.DatasetRow, error) {
	return s.store.ListRows(datasetID)
}

func (s *DatasetService) UpdateRow(rowID, dataJSON string) error {
	row, err := s.store.GetRow(rowID)
	if err != nil {
		return err
	}
	row.DataJSON = dataJSON
	return s.store.UpdateRow(row)
}

func (s *DatasetService) DeleteRow(rowID string) error {
	return s.store.DeleteRow(rowID)
}

func (s *DatasetService) DuplicateRow(rowID string) (*domain.DatasetRow, error) {
	original, err := s.store.GetRow(rowID)
	if err != nil {
		return nil, err
	}
	dup := &domain.DatasetRow{
		ID:        uuid.New().String(),
		DatasetID: original.DatasetID,
		DataJSON:  original.DataJSON,
		SortOrder: original.SortOrder + 1,
	}
	if err := s.store.CreateRow(dup); err != nil {
		return nil, fmt.Errorf("duplicate row: %w", err)
	}
	return dup, nil
}

// ── Chart feed ─────────────────────────────────────────────

// Rows decodes a dataset's rows into the generic form the chart engine
// consumes. Rows with malformed JSON are skipped, not surfaced: a widget
// renders whatever its dataset yields.
func (s *DatasetService) Rows(datasetID string) ([]chart.Row, error) {
	stored, err := s.store.ListRows(datasetID)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}

	rows := make([]chart.Row, 0, len(stored))
	for _, r := range stored {
		var data map[string]any
		if err := json.Unmarshal([]byte(r.DataJSON), &data); err != nil {
			continue
		}
		rows = append(rows, chart.Row(data))
	}
	return rows, nil
}
