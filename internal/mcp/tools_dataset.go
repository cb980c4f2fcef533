package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDatasetTools() {
	s.mcp.AddTool(mcp.NewTool("create_dataset",
		mcp.WithDescription("Create a dataset that widgets can bind to"),
		mcp.WithString("name", mcp.Description("Dataset name"), mcp.Required()),
		mcp.WithString("configJSON", mcp.Description("Optional dataset config JSON (field definitions, import hints)")),
	), s.handleCreateDataset)

	s.mcp.AddTool(mcp.NewTool("list_datasets",
		mcp.WithDescription("List all datasets in the workspace"),
	), s.handleListDatasets)

	s.mcp.AddTool(mcp.NewTool("get_dataset_stats",
		mcp.WithDescription("Get row count and field summary for a dataset"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
	), s.handleGetDatasetStats)

	s.mcp.AddTool(mcp.NewTool("add_dataset_rows",
		mcp.WithDescription("Insert one or more rows into a dataset. Each row is a JSON object keyed by field name."),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
		mcp.WithString("rows", mcp.Description("JSON array of row objects [{field: value, ...}, ...]"), mcp.Required()),
	), s.handleAddDatasetRows)

	s.mcp.AddTool(mcp.NewTool("list_dataset_rows",
		mcp.WithDescription("List all rows in a dataset"),
		mcp.WithString("datasetId", mcp.Description("Dataset ID"), mcp.Required()),
	), s.handleListDatasetRows)

	s.mcp.AddTool(mcp.NewTool("update_dataset_row",
		mcp.WithDescription("Update a row in a dataset"),
		mcp.WithString("rowId", mcp.Description("Row ID"), mcp.Required()),
		mcp.WithString("dataJSON", mcp.Description("New row data as JSON object {field: value, ...}"), mcp.Required()),
	), s.handleUpdateDatasetRow)

	s.mcp.AddTool(mcp.NewTool("delete_dataset_row",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete a row from a dataset. Requires user approval."),
		mcp.WithString("rowId", mcp.Description("Row ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteDatasetRow)
}

func (s *Server) handleCreateDataset(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	name, _ := args["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	ds, err := s.datasets.CreateDataset(name)
	if err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}

	if configJSON, ok := args["configJSON"].(string); ok && configJSON != "" {
		if err := s.datasets.UpdateConfig(ds.ID, configJSON); err != nil {
			return nil, fmt.Errorf("set config: %w", err)
		}
	}

	return jsonResult(ds)
}

func (s *Server) handleListDatasets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	datasets, err := s.datasets.ListDatasets()
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return jsonResult(datasets)
}

func (s *Server) handleGetDatasetStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	datasetID := req.GetString("datasetId", "")
	if datasetID == "" {
		return nil, fmt.Errorf("datasetId is required")
	}
	stats, err := s.datasets.GetDatasetStats(datasetID)
	if err != nil {
		return nil, fmt.Errorf("get dataset stats: %w", err)
	}
	return jsonResult(stats)
}

func (s *Server) handleAddDatasetRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	datasetID, _ := args["datasetId"].(string)
	rowsJSON, _ := args["rows"].(string)

	if datasetID == "" || rowsJSON == "" {
		return nil, fmt.Errorf("datasetId and rows are required")
	}

	ds, err := s.datasets.GetDataset(datasetID)
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}

	var rows []map[string]any
	if err := parseJSON(rowsJSON, &rows); err != nil {
		return nil, fmt.Errorf("parse rows JSON: %w", err)
	}

	count := 0
	for _, row := range rows {
		rowData, _ := marshalJSON(row)
		if _, err := s.datasets.CreateRow(ds.ID, string(rowData)); err != nil {
			return nil, fmt.Errorf("insert row %d: %w", count, err)
		}
		count++
	}

	return textResult(fmt.Sprintf("Inserted %d rows into dataset %s", count, ds.Name)), nil
}

func (s *Server) handleListDatasetRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	datasetID := req.GetString("datasetId", "")
	if datasetID == "" {
		return nil, fmt.Errorf("datasetId is required")
	}
	rows, err := s.datasets.ListRows(datasetID)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	return jsonResult(rows)
}

func (s *Server) handleUpdateDatasetRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	rowID, _ := args["rowId"].(string)
	dataJSON, _ := args["dataJSON"].(string)

	if rowID == "" || dataJSON == "" {
		return nil, fmt.Errorf("rowId and dataJSON are required")
	}
	if err := s.datasets.UpdateRow(rowID, dataJSON); err != nil {
		return nil, fmt.Errorf("update row: %w", err)
	}
	return textResult(fmt.Sprintf("Row %s updated", rowID)), nil
}

func (s *Server) handleDeleteDatasetRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rowID := req.GetString("rowId", "")
	if rowID == "" {
		return nil, fmt.Errorf("rowId is required")
	}

	approved, err := s.approval.Request("delete_dataset_row",
		fmt.Sprintf("Delete row %s from dataset", rowID))
	if err != nil || !approved {
		return textResult("Action rejected by user"), nil
	}

	if err := s.datasets.DeleteRow(rowID); err != nil {
		return nil, fmt.Errorf("delete row: %w", err)
	}
	return textResult(fmt.Sprintf("Row %s deleted", rowID)), nil
}
