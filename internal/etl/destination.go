package etl

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dash/internal/domain"
)

// ── Destination ────────────────────────────────────────────
// A Destination writes records into a target system.
// For now, the only destination is the internal dataset store.
//
// Pattern: Singer target protocol.

// SyncMode determines how records are written to the destination.
type SyncMode string

const (
	SyncReplace SyncMode = "replace" // delete all existing rows, insert fresh
	SyncAppend  SyncMode = "append"  // add rows without deleting existing
)

// Destination writes records to a target system.
type Destination interface {
	Write(ctx context.Context, targetID string, schema *Schema, records []Record, mode SyncMode) (int, error)
}

// ── Dataset Destination ────────────────────────────────────
// Writes records into a Dataset (the rows charts are built from).

// DatasetWriter implements Destination for the internal dataset store.
type DatasetWriter struct {
	Store domain.DatasetStore
}

func (w *DatasetWriter) Write(ctx context.Context, targetID string, schema *Schema, records []Record, mode SyncMode) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	// On replace mode, delete all existing rows first.
	if mode == SyncReplace {
		if err := w.Store.DeleteRowsByDataset(targetID); err != nil {
			return 0, fmt.Errorf("clear target: %w", err)
		}
		// Reset columns to exactly match the output schema.
		if err := w.resetColumns(targetID, schema); err != nil {
			return 0, fmt.Errorf("reset columns: %w", err)
		}
	} else {
		// Append mode: add any missing columns.
		if err := w.ensureColumns(targetID, schema); err != nil {
			return 0, fmt.Errorf("ensure columns: %w", err)
		}
	}

	// Bulk insert records. Row data is keyed by field name, matching
	// what the chart engine expects when it decodes dataset rows.
	written := 0
	for i, rec := range records {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		dataJSON, _ := json.Marshal(rec.Data)
		row := &domain.DatasetRow{
			ID:        uuid.New().String(),
			DatasetID: targetID,
			DataJSON:  string(dataJSON),
			SortOrder: i + 1,
		}
		if err := w.Store.CreateRow(row); err != nil {
			return written, fmt.Errorf("create row %d: %w", i, err)
		}
		written++
	}

	return written, nil
}

// resetColumns replaces all columns in the dataset config to exactly match the schema.
// Used in replace mode so the target structure matches the transformed output.
func (w *DatasetWriter) resetColumns(datasetID string, schema *Schema) error {
	ds, err := w.Store.GetDataset(datasetID)
	if err != nil {
		return err
	}

	// Parse existing config to preserve non-column fields.
	var raw map[string]any
	if err := json.Unmarshal([]byte(ds.ConfigJSON), &raw); err != nil {
		raw = make(map[string]any)
	}

	cols := make([]map[string]any, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		cols = append(cols, map[string]any{
			"name":  f.Name,
			"type":  mapFieldType(f.Type),
			"width": 150,
		})
	}
	raw["columns"] = cols

	configBytes, _ := json.Marshal(raw)
	ds.ConfigJSON = string(configBytes)
	ds.UpdatedAt = time.Now()
	return w.Store.UpdateDataset(ds)
}

// ensureColumns adds any missing columns to the dataset config.
func (w *DatasetWriter) ensureColumns(datasetID string, schema *Schema) error {
	ds, err := w.Store.GetDataset(datasetID)
	if err != nil {
		return err
	}

	var cfg struct {
		Columns []map[string]any `json:"columns"`
	}
	if err := json.Unmarshal([]byte(ds.ConfigJSON), &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	existing := make(map[string]bool)
	for _, col := range cfg.Columns {
		if name, ok := col["name"].(string); ok {
			existing[name] = true
		}
	}

	added := false
	for _, f := range schema.Fields {
		if existing[f.Name] {
			continue
		}
		cfg.Columns = append(cfg.Columns, map[string]any{
			"name":  f.Name,
			"type":  mapFieldType(f.Type),
			"width": 150,
		})
		added = true
	}
	if !added {
		return nil
	}

	// Merge back without dropping unknown config keys.
	var raw map[string]any
	if err := json.Unmarshal([]byte(ds.ConfigJSON), &raw); err != nil {
		raw = make(map[string]any)
	}
	raw["columns"] = cfg.Columns

	configBytes, _ := json.Marshal(raw)
	ds.ConfigJSON = string(configBytes)
	ds.UpdatedAt = time.Now()
	return w.Store.UpdateDataset(ds)
}

// mapFieldType converts ETL field types to dataset column types.
func mapFieldType(t string) domain.ColumnType {
	switch t {
	case "number":
		return domain.ColTypeNumber
	case "boolean":
		return domain.ColTypeBoolean
	case "datetime":
		return domain.ColTypeDatetime
	default:
		return domain.ColTypeText
	}
}
