package service_test

import (
	"testing"

	"dash/internal/service"
	"dash/internal/storage"
)

func newDatasetFixture(t *testing.T) *service.DatasetService {
	t.Helper()
	db := newTestDB(t)
	return service.NewDatasetService(storage.NewDatasetStore(db))
}

func TestDatasetService_CRUD(t *testing.T) {
	svc := newDatasetFixture(t)

	ds, err := svc.CreateDataset("metrics")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ds.ID == "" {
		t.Fatal("expected generated dataset id")
	}

	if err := svc.RenameDataset(ds.ID, "metrics-v2"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, err := svc.GetDataset(ds.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "metrics-v2" {
		t.Errorf("expected renamed dataset, got %q", got.Name)
	}

	all, err := svc.ListDatasets()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 dataset, got %d", len(all))
	}

	if err := svc.DeleteDataset(ds.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetDataset(ds.ID); err == nil {
		t.Fatal("expected error getting deleted dataset")
	}
}

func TestDatasetService_RowLifecycle(t *testing.T) {
	svc := newDatasetFixture(t)

	ds, _ := svc.CreateDataset("rows")
	row, err := svc.CreateRow(ds.ID, `{"name":"a","count":1}`)
	if err != nil {
		t.Fatalf("create row: %v", err)
	}

	if err := svc.UpdateRow(row.ID, `{"name":"a","count":2}`); err != nil {
		t.Fatalf("update row: %v", err)
	}

	dup, err := svc.DuplicateRow(row.ID)
	if err != nil {
		t.Fatalf("duplicate row: %v", err)
	}
	if dup.DataJSON != `{"name":"a","count":2}` {
		t.Errorf("duplicate should copy updated data, got %q", dup.DataJSON)
	}

	rows, err := svc.ListRows(ds.ID)
	if err != nil {
		t.Fatalf("list rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if err := svc.DeleteRow(dup.ID); err != nil {
		t.Fatalf("delete row: %v", err)
	}
	rows, _ = svc.ListRows(ds.ID)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after delete, got %d", len(rows))
	}
}

func TestDatasetService_RowsSkipsMalformed(t *testing.T) {
	svc := newDatasetFixture(t)

	ds, _ := svc.CreateDataset("dirty")
	if _, err := svc.CreateRow(ds.ID, `{"ok":true}`); err != nil {
		t.Fatalf("create row: %v", err)
	}
	if _, err := svc.CreateRow(ds.ID, `{not json`); err != nil {
		t.Fatalf("create row: %v", err)
	}

	rows, err := svc.Rows(ds.ID)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("malformed row should be skipped, got %d rows", len(rows))
	}
	if rows[0]["ok"] != true {
		t.Errorf("unexpected row payload: %v", rows[0])
	}
}
