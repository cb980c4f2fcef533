package domain

import "time"

// ColumnType defines the data type of a dataset column.
type ColumnType string

const (
	ColTypeText     ColumnType = "text"
	ColTypeNumber   ColumnType = "number"
	ColTypeBoolean  ColumnType = "boolean"
	ColTypeDate     ColumnType = "date"
	ColTypeDatetime ColumnType = "datetime"
)

// Dataset is a named table of rows that widgets bind to.
// ConfigJSON holds column definitions and view settings.
type Dataset struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ConfigJSON string    `json:"configJson"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DatasetRow is a single row in a dataset.
// DataJSON stores column values as { "field_name": value }.
type DatasetRow struct {
	ID        string    `json:"id"`
	DatasetID string    `json:"datasetId"`
	DataJSON  string    `json:"dataJson"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DatasetStore manages CRUD for datasets and their rows.
type DatasetStore interface {
	CreateDataset(d *Dataset) error
	GetDataset(id string) (*Dataset, error)
	ListDatasets() ([]Dataset, error)
	UpdateDataset(d *Dataset) error
	DeleteDataset(id string) error

	CreateRow(r *DatasetRow) error
	GetRow(id string) (*DatasetRow, error)
	ListRows(datasetID string) ([]DatasetRow, error)
	UpdateRow(r *DatasetRow) error
	DeleteRow(id string) error
	DeleteRowsByDataset(datasetID string) error
}
