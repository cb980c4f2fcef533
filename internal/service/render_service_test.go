package service_test

import (
	"path/filepath"
	"testing"

	"dash/internal/service"
	"dash/internal/storage"
)

// newTestDB opens a throwaway SQLite database for service tests.
func newTestDB(t *testing.T) *storage.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "test.db"), filepath.Join(dir, "data"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newRenderFixture(t *testing.T) (*service.RenderService, *service.WidgetService, *service.DatasetService) {
	t.Helper()
	db := newTestDB(t)
	emitter := &service.MockEmitter{}
	widgets := service.NewWidgetService(storage.NewWidgetStore(db), storage.NewWidgetLinkStore(db), emitter)
	datasets := service.NewDatasetService(storage.NewDatasetStore(db))
	return service.NewRenderService(widgets, datasets), widgets, datasets
}

func seedRows(t *testing.T, datasets *service.DatasetService, datasetID string, rows []string) {
	t.Helper()
	for _, r := range rows {
		if _, err := datasets.CreateRow(datasetID, r); err != nil {
			t.Fatalf("seed row: %v", err)
		}
	}
}

func TestRenderWidget_BarSeries(t *testing.T) {
	render, widgets, datasets := newRenderFixture(t)

	ds, err := datasets.CreateDataset("sales")
	if err != nil {
		t.Fatalf("create dataset: %v", err)
	}
	seedRows(t, datasets, ds.ID, []string{
		`{"region":"north","amount":10}`,
		`{"region":"south","amount":5}`,
		`{"region":"north","amount":3}`,
	})

	w, err := widgets.CreateWidget("dash-1", "bar", 0, 0, 540, 420)
	if err != nil {
		t.Fatalf("create widget: %v", err)
	}
	cfg := `{"datasetId":"` + ds.ID + `","binding":{"axisField":"region","valueField":"amount","aggregation":"sum"}}`
	if err := widgets.UpdateWidgetConfig(w.ID, cfg); err != nil {
		t.Fatalf("update config: %v", err)
	}

	data, err := render.RenderWidget(w.ID, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(data.Problems) != 0 {
		t.Fatalf("expected no problems, got %v", data.Problems)
	}
	if data.Series == nil {
		t.Fatal("expected series data")
	}
	if len(data.Series.Points) != 2 {
		t.Fatalf("expected 2 aggregated points, got %d", len(data.Series.Points))
	}
	if data.Series.Points[0].Label != "north" || data.Series.Points[0].Value != 13 {
		t.Errorf("expected north=13 first, got %s=%v", data.Series.Points[0].Label, data.Series.Points[0].Value)
	}
}

func TestRenderWidget_PieFirstSeenOrder(t *testing.T) {
	render, widgets, datasets := newRenderFixture(t)

	ds, _ := datasets.CreateDataset("fruit")
	seedRows(t, datasets, ds.ID, []string{
		`{"kind":"apple","n":2}`,
		`{"kind":"pear","n":1}`,
		`{"kind":"apple","n":4}`,
	})

	w, _ := widgets.CreateWidget("dash-1", "doughnut", 0, 0, 300, 300)
	if w.Type != "donut" {
		t.Fatalf("expected alias to resolve to donut, got %q", w.Type)
	}
	cfg := `{"datasetId":"` + ds.ID + `","binding":{"axisField":"kind","valueField":"n"}}`
	if err := widgets.UpdateWidgetConfig(w.ID, cfg); err != nil {
		t.Fatalf("update config: %v", err)
	}

	data, err := render.RenderWidget(w.ID, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if data.Series != nil {
		t.Error("donut should render via the pie path, not series")
	}
	if len(data.Pie) != 2 {
		t.Fatalf("expected 2 pie slices, got %d", len(data.Pie))
	}
	if data.Pie[0].Name != "apple" || data.Pie[0].Value != 6 {
		t.Errorf("expected apple=6 first, got %s=%v", data.Pie[0].Name, data.Pie[0].Value)
	}
	if data.Pie[1].Name != "pear" {
		t.Errorf("expected pear second, got %s", data.Pie[1].Name)
	}
}

func TestRenderWidget_MissingBindingStillRenders(t *testing.T) {
	render, widgets, datasets := newRenderFixture(t)

	ds, _ := datasets.CreateDataset("empty-bind")
	seedRows(t, datasets, ds.ID, []string{`{"a":1}`})
	w, _ := widgets.CreateWidget("dash-1", "line", 0, 0, 540, 420)
	cfg := `{"datasetId":"` + ds.ID + `","binding":{}}`
	if err := widgets.UpdateWidgetConfig(w.ID, cfg); err != nil {
		t.Fatalf("update config: %v", err)
	}

	data, err := render.RenderWidget(w.ID, nil)
	if err != nil {
		t.Fatalf("incomplete binding must not fail render: %v", err)
	}
	if len(data.Problems) == 0 {
		t.Error("expected validation problems for empty binding")
	}
	if data.Series == nil || len(data.Series.Raw) != 1 {
		t.Fatal("expected raw pass-through rows with empty binding")
	}
}

func TestRenderWidget_NoDataset(t *testing.T) {
	render, widgets, _ := newRenderFixture(t)

	w, _ := widgets.CreateWidget("dash-1", "kpi", 0, 0, 200, 120)
	data, err := render.RenderWidget(w.ID, nil)
	if err != nil {
		t.Fatalf("render without dataset: %v", err)
	}
	if data.Series != nil || data.Pie != nil {
		t.Error("expected empty payload when no dataset is bound")
	}
}

func TestRenderWidget_SlicerFilter(t *testing.T) {
	render, widgets, datasets := newRenderFixture(t)

	ds, _ := datasets.CreateDataset("orders")
	seedRows(t, datasets, ds.ID, []string{
		`{"region":"north","amount":10}`,
		`{"region":"south","amount":5}`,
	})

	w, _ := widgets.CreateWidget("dash-1", "bar", 0, 0, 540, 420)
	cfg := `{"datasetId":"` + ds.ID + `","binding":{"axisField":"region","valueField":"amount"}}`
	if err := widgets.UpdateWidgetConfig(w.ID, cfg); err != nil {
		t.Fatalf("update config: %v", err)
	}

	data, err := render.RenderWidget(w.ID, map[string]string{"region": "south"})
	if err != nil {
		t.Fatalf("render with filter: %v", err)
	}
	if len(data.Series.Points) != 1 {
		t.Fatalf("expected 1 point after filter, got %d", len(data.Series.Points))
	}
	if data.Series.Points[0].Label != "south" {
		t.Errorf("expected south, got %s", data.Series.Points[0].Label)
	}
}

func TestRenderDashboard_BadWidgetDegrades(t *testing.T) {
	render, widgets, datasets := newRenderFixture(t)

	ds, _ := datasets.CreateDataset("mixed")
	seedRows(t, datasets, ds.ID, []string{`{"k":"a","v":1}`})

	good, _ := widgets.CreateWidget("dash-1", "bar", 0, 0, 540, 420)
	_ = widgets.UpdateWidgetConfig(good.ID, `{"datasetId":"`+ds.ID+`","binding":{"axisField":"k","valueField":"v"}}`)

	// This one points at a dataset that doesn't exist.
	bad, _ := widgets.CreateWidget("dash-1", "bar", 600, 0, 540, 420)
	_ = widgets.UpdateWidgetConfig(bad.ID, `{"datasetId":"nope","binding":{"axisField":"k","valueField":"v"}}`)

	out, err := render.RenderDashboard("dash-1", nil)
	if err != nil {
		t.Fatalf("render dashboard: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 widget payloads, got %d", len(out))
	}
}
