package app

import (
	"context"
	"encoding/json"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"dash/internal/dbclient"
	"dash/internal/service"
)

// ============================================================
// External Database Connections
// ============================================================

func (a *App) ListDatabaseConnections() ([]DBConnView, error) {
	conns, err := a.database.ListConnections()
	if err != nil {
		return nil, err
	}
	views := make([]DBConnView, len(conns))
	for i, c := range conns {
		views[i] = DBConnView{
			ID: c.ID, Name: c.Name, Driver: string(c.Driver),
			Host: c.Host, Port: c.Port, Database: c.Database,
			Username: c.Username, SSLMode: c.SSLMode,
		}
	}
	return views, nil
}

func (a *App) CreateDatabaseConnection(input service.CreateDBConnInput) (*DBConnView, error) {
	conn, err := a.database.CreateConnection(input)
	if err != nil {
		return nil, err
	}
	return &DBConnView{
		ID: conn.ID, Name: conn.Name, Driver: string(conn.Driver),
		Host: conn.Host, Port: conn.Port, Database: conn.Database,
		Username: conn.Username, SSLMode: conn.SSLMode,
	}, nil
}

func (a *App) UpdateDatabaseConnection(id string, input service.CreateDBConnInput) error {
	return a.database.UpdateConnection(id, input)
}

func (a *App) DeleteDatabaseConnection(id string) error {
	return a.database.DeleteConnection(id)
}

func (a *App) TestDatabaseConnection(id string) error {
	return a.database.TestConnection(context.Background(), id)
}

func (a *App) IntrospectDatabase(connectionID string) (*dbclient.SchemaInfo, error) {
	return a.database.Introspect(context.Background(), connectionID)
}

// ============================================================
// Query Execution (read-only)
// ============================================================

// ExecuteQuery runs a read query for the dataset builder and caches the
// preview against datasetID. Query errors come back in the view, not as
// a Go error, so the frontend can show them inline.
func (a *App) ExecuteQuery(datasetID, connectionID, query string, fetchSize int) (*QueryResultView, error) {
	wailsRuntime.LogDebugf(a.ctx, "[DB] ExecuteQuery datasetID=%s connID=%s fetchSize=%d", datasetID, connectionID, fetchSize)

	if fetchSize <= 0 {
		fetchSize = 50
	}

	page, err := a.database.ExecuteQuery(context.Background(), datasetID, connectionID, query, fetchSize)
	if err != nil {
		wailsRuntime.LogErrorf(a.ctx, "[DB] Execute error: %v", err)
		return &QueryResultView{Error: err.Error(), Query: query}, nil
	}

	return &QueryResultView{
		Columns:   page.Columns,
		Rows:      page.Rows,
		TotalRows: page.TotalFetched,
		HasMore:   page.HasMore,
		Query:     query,
	}, nil
}

func (a *App) FetchMoreRows(connectionID string, fetchSize int) (*QueryResultView, error) {
	page, err := a.database.FetchMoreRows(context.Background(), connectionID, fetchSize)
	if err != nil {
		return &QueryResultView{Error: err.Error()}, nil
	}
	return &QueryResultView{
		Columns:   page.Columns,
		Rows:      page.Rows,
		TotalRows: page.TotalFetched,
		HasMore:   page.HasMore,
	}, nil
}

// GetCachedResult returns the last stored query preview for a dataset,
// so the builder survives app restarts without re-running the query.
func (a *App) GetCachedResult(datasetID string) (*QueryResultView, error) {
	result, err := a.database.GetPersistedResult(datasetID)
	if err != nil || result == nil {
		return nil, err
	}

	var columns []string
	var rows [][]any
	json.Unmarshal([]byte(result.ColumnsJSON), &columns)
	json.Unmarshal([]byte(result.RowsJSON), &rows)

	return &QueryResultView{
		Columns:    columns,
		Rows:       rows,
		TotalRows:  result.TotalRows,
		HasMore:    result.HasMore,
		DurationMs: result.DurationMs,
		Error:      result.Error,
		Query:      result.Query,
	}, nil
}

func (a *App) ClearCachedResult(datasetID string) {
	a.database.ClearCachedResult(datasetID)
}
