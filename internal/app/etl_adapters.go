package app

// ─────────────────────────────────────────────────────────────
// ETL Adapter Bridge
// ─────────────────────────────────────────────────────────────
//
// The ETL sources package reaches app infrastructure through the
// DBProvider interface to avoid a circular dependency. This file
// provides the concrete adapter backed by the database service's
// connector pool.

import (
	"context"

	"dash/internal/etl/sources"
)

// setupETLAdapters wires the ETL source adapters using the App's services.
func setupETLAdapters(a *App) {
	sources.SetDBProvider(&appDBProvider{app: a})
}

type appDBProvider struct{ app *App }

func (p *appDBProvider) ExecuteETLQuery(ctx context.Context, connID, query string, fetchSize int) (*sources.QueryPage, error) {
	// "__etl__" keeps ETL previews out of any real dataset's result cache.
	result, err := p.app.database.ExecuteQuery(ctx, "__etl__", connID, query, fetchSize)
	if err != nil {
		return nil, err
	}
	return &sources.QueryPage{Columns: result.Columns, Rows: result.Rows, HasMore: result.HasMore}, nil
}

func (p *appDBProvider) FetchMoreETLRows(ctx context.Context, connID string, fetchSize int) (*sources.QueryPage, error) {
	result, err := p.app.database.FetchMoreRows(ctx, connID, fetchSize)
	if err != nil {
		return nil, err
	}
	return &sources.QueryPage{Columns: result.Columns, Rows: result.Rows, HasMore: result.HasMore}, nil
}
