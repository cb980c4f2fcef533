package service_test

import (
	"testing"

	"dash/internal/domain"
	"dash/internal/service"
	"dash/internal/storage"
)

func newWidgetFixture(t *testing.T) (*service.WidgetService, *storage.WidgetLinkStore) {
	t.Helper()
	db := newTestDB(t)
	links := storage.NewWidgetLinkStore(db)
	return service.NewWidgetService(storage.NewWidgetStore(db), links, &service.MockEmitter{}), links
}

func TestWidgetService_CreateResolvesAlias(t *testing.T) {
	svc, _ := newWidgetFixture(t)

	w, err := svc.CreateWidget("dash-1", "column", 0, 0, 540, 420)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.Type != "bar" {
		t.Errorf("expected alias 'column' to store canonical 'bar', got %q", w.Type)
	}
}

func TestWidgetService_CreateUnknownType(t *testing.T) {
	svc, _ := newWidgetFixture(t)

	if _, err := svc.CreateWidget("dash-1", "sparkle", 0, 0, 100, 100); err == nil {
		t.Fatal("expected error for unknown chart type")
	}
}

func TestWidgetService_ChangeTypeKeepsConfig(t *testing.T) {
	svc, _ := newWidgetFixture(t)

	w, _ := svc.CreateWidget("dash-1", "bar", 0, 0, 540, 420)
	cfg := `{"datasetId":"ds-1","binding":{"axisField":"k","valueField":"v"}}`
	if err := svc.UpdateWidgetConfig(w.ID, cfg); err != nil {
		t.Fatalf("update config: %v", err)
	}

	changed, err := svc.ChangeWidgetType(w.ID, "line")
	if err != nil {
		t.Fatalf("change type: %v", err)
	}
	if changed.Type != "line" {
		t.Errorf("expected type line, got %q", changed.Type)
	}
	if changed.ConfigJSON != cfg {
		t.Errorf("config should survive a type change, got %q", changed.ConfigJSON)
	}
}

func TestWidgetService_ValidateReportsMissingRoles(t *testing.T) {
	svc, _ := newWidgetFixture(t)

	w, _ := svc.CreateWidget("dash-1", "bar", 0, 0, 540, 420)
	problems, err := svc.ValidateWidget(w.ID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(problems) == 0 {
		t.Fatal("expected problems for a widget with no binding")
	}

	if err := svc.UpdateWidgetConfig(w.ID, `{"binding":{"axisField":"k","valueField":"v"}}`); err != nil {
		t.Fatalf("update config: %v", err)
	}
	problems, err = svc.ValidateWidget(w.ID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if len(problems) != 0 {
		t.Fatalf("expected no problems once roles are bound, got %v", problems)
	}
}

func TestWidgetService_DeleteRemovesLinks(t *testing.T) {
	svc, links := newWidgetFixture(t)

	slicer, _ := svc.CreateWidget("dash-1", "slicer", 0, 0, 200, 120)
	target, _ := svc.CreateWidget("dash-1", "bar", 300, 0, 540, 420)

	link := &domain.WidgetLink{
		ID:           "link-1",
		DashboardID:  "dash-1",
		FromWidgetID: slicer.ID,
		ToWidgetID:   target.ID,
		Field:        "region",
	}
	if err := links.CreateLink(link); err != nil {
		t.Fatalf("create link: %v", err)
	}

	if err := svc.DeleteWidget(slicer.ID); err != nil {
		t.Fatalf("delete widget: %v", err)
	}

	remaining, err := links.ListLinks("dash-1")
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected links to be removed with the widget, %d remain", len(remaining))
	}
}

func TestWidgetService_UpdatePosition(t *testing.T) {
	svc, _ := newWidgetFixture(t)

	w, _ := svc.CreateWidget("dash-1", "bar", 0, 0, 540, 420)
	if err := svc.UpdateWidgetPosition(w.ID, 100, 200, 600, 300); err != nil {
		t.Fatalf("update position: %v", err)
	}
	got, _ := svc.GetWidget(w.ID)
	if got.X != 100 || got.Y != 200 || got.Width != 600 || got.Height != 300 {
		t.Errorf("position not persisted: %+v", got)
	}
}
