package app

import (
	"context"

	"dash/internal/etl"
	_ "dash/internal/etl/sources" // register all sources via init()
	"dash/internal/service"
)

// ============================================================
// ETL Sync Jobs
// ============================================================

func (a *App) CreateETLJob(input service.CreateETLJobInput) (*etl.SyncJob, error) {
	return a.etls.CreateJob(a.ctx, input)
}

func (a *App) GetETLJob(id string) (*etl.SyncJob, error) {
	return a.etls.GetJob(id)
}

func (a *App) ListETLJobs() ([]etl.SyncJob, error) {
	return a.etls.ListJobs()
}

func (a *App) UpdateETLJob(id string, input service.CreateETLJobInput) error {
	return a.etls.UpdateJob(a.ctx, id, input)
}

func (a *App) DeleteETLJob(id string) error {
	return a.etls.DeleteJob(a.ctx, id)
}

func (a *App) RunETLJob(id string) (*etl.SyncResult, error) {
	return a.etls.RunJob(a.ctx, id)
}

func (a *App) ListETLRunLogs(jobID string) ([]etl.SyncRunLog, error) {
	return a.etls.ListRunLogs(jobID)
}

func (a *App) ListETLSources() []etl.SourceSpec {
	return a.etls.ListSources()
}

// PreviewETLSource reads the first rows from a source without writing
// anything, so the pipeline editor can show a live sample.
func (a *App) PreviewETLSource(sourceType, sourceConfigJSON string) (*service.PreviewResult, error) {
	return a.etls.PreviewSource(context.Background(), sourceType, sourceConfigJSON)
}

// DiscoverETLSchema returns the source schema (column names + types)
// without reading data. Used for column autocomplete in the editor.
func (a *App) DiscoverETLSchema(sourceType, sourceConfigJSON string) (*etl.Schema, error) {
	return a.etls.DiscoverSchema(context.Background(), sourceType, sourceConfigJSON)
}
