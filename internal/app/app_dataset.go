package app

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"dash/internal/domain"
	"dash/internal/service"
)

// ============================================================
// Datasets
// ============================================================

func (a *App) ListDatasets() ([]domain.Dataset, error) {
	return a.datasets.ListDatasets()
}

func (a *App) CreateDataset(name string) (*domain.Dataset, error) {
	return a.datasets.CreateDataset(name)
}

func (a *App) GetDataset(id string) (*domain.Dataset, error) {
	return a.datasets.GetDataset(id)
}

func (a *App) RenameDataset(id, name string) error {
	return a.datasets.RenameDataset(id, name)
}

// UpdateDatasetConfig replaces the dataset's column config JSON.
func (a *App) UpdateDatasetConfig(id, configJSON string) error {
	return a.datasets.UpdateConfig(id, configJSON)
}

func (a *App) DeleteDataset(id string) error {
	return a.datasets.DeleteDataset(id)
}

func (a *App) GetDatasetStats(id string) (*service.DatasetStats, error) {
	return a.datasets.GetDatasetStats(id)
}

// ============================================================
// Dataset Rows
// ============================================================

func (a *App) ListDatasetRows(datasetID string) ([]domain.DatasetRow, error) {
	return a.datasets.ListRows(datasetID)
}

func (a *App) CreateDatasetRow(datasetID, dataJSON string) (*domain.DatasetRow, error) {
	return a.datasets.CreateRow(datasetID, dataJSON)
}

func (a *App) UpdateDatasetRow(rowID, dataJSON string) error {
	return a.datasets.UpdateRow(rowID, dataJSON)
}

func (a *App) DeleteDatasetRow(rowID string) error {
	return a.datasets.DeleteRow(rowID)
}

func (a *App) DuplicateDatasetRow(rowID string) (*domain.DatasetRow, error) {
	return a.datasets.DuplicateRow(rowID)
}

// ============================================================
// File Pickers
// ============================================================

// PickDataFile opens a native file dialog for selecting data files (CSV, JSON).
func (a *App) PickDataFile() (string, error) {
	return wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Select Data File",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "CSV Files", Pattern: "*.csv;*.tsv"},
			{DisplayName: "JSON Files", Pattern: "*.json;*.jsonl"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
}

// PickDatabaseFile opens a native file picker for selecting a SQLite file.
func (a *App) PickDatabaseFile() (string, error) {
	return wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Select Database File",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Database Files", Pattern: "*.db;*.sqlite;*.sqlite3;*.s3db"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
}
