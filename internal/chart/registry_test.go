package chart_test

import (
	"strings"
	"testing"

	"dash/internal/chart"
)

// ─────────────────────────────────────────────────────────────
// Capability registry tests
// ─────────────────────────────────────────────────────────────

func TestLookup_KnownTag(t *testing.T) {
	d, ok := chart.Lookup("bar")
	if !ok {
		t.Fatal("expected bar to be registered")
	}
	if d.Tag != "bar" {
		t.Fatalf("expected tag bar, got %q", d.Tag)
	}
}

func TestLookup_LegacyAlias(t *testing.T) {
	// "filter" is the pre-rename tag for slicer widgets.
	d, ok := chart.Lookup("filter")
	if !ok {
		t.Fatal("expected filter alias to resolve")
	}
	if d.Tag != "slicer" {
		t.Fatalf("expected alias to resolve to slicer, got %q", d.Tag)
	}

	d, ok = chart.Lookup("doughnut")
	if !ok || d.Tag != "donut" {
		t.Fatalf("expected doughnut to resolve to donut, got %v ok=%v", d, ok)
	}
}

func TestLookup_Unknown(t *testing.T) {
	for _, tag := range []string{"sankey", "", "BAR", "3d-pie"} {
		if _, ok := chart.Lookup(tag); ok {
			t.Fatalf("expected %q to be unknown", tag)
		}
	}
}

func TestValidate_UnknownTag(t *testing.T) {
	errs := chart.Validate("sankey", chart.WidgetBinding{AxisField: "x", ValueField: "y"})
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error for unknown tag, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], "sankey") {
		t.Fatalf("error should name the unknown tag: %q", errs[0])
	}
}

func TestValidate_EmptyBinding(t *testing.T) {
	// bar requires axis + values; an empty binding misses both.
	errs := chart.Validate("bar", chart.WidgetBinding{})
	if len(errs) != 2 {
		t.Fatalf("expected two errors for empty binding, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], "axis") {
		t.Fatalf("first error should name axis, got %q", errs[0])
	}
	if !strings.Contains(errs[1], "values") {
		t.Fatalf("second error should name values, got %q", errs[1])
	}
}

func TestValidate_FieldSatisfiesValues(t *testing.T) {
	// The single-field fallback counts as a values binding, so only the
	// axis complaint remains.
	errs := chart.Validate("bar", chart.WidgetBinding{Field: "revenue"})
	if len(errs) != 1 {
		t.Fatalf("expected one error, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0], "axis") {
		t.Fatalf("remaining error should name axis, got %q", errs[0])
	}
}

func TestValidate_LegendSatisfiesAxisAndCategory(t *testing.T) {
	// Axis and category are interchangeable signals; a legend field
	// satisfies both.
	errs := chart.Validate("bar", chart.WidgetBinding{LegendField: "region", ValueField: "sales"})
	if len(errs) != 0 {
		t.Fatalf("expected valid binding, got %v", errs)
	}
	errs = chart.Validate("pie", chart.WidgetBinding{LegendField: "region", ValueField: "sales"})
	if len(errs) != 0 {
		t.Fatalf("expected valid pie binding, got %v", errs)
	}
}

func TestValidate_FieldOnlyCharts(t *testing.T) {
	if errs := chart.Validate("kpi", chart.WidgetBinding{Field: "total"}); len(errs) != 0 {
		t.Fatalf("kpi with field should be valid, got %v", errs)
	}
	// An axis binding does not satisfy the field role.
	errs := chart.Validate("kpi", chart.WidgetBinding{AxisField: "month", ValueField: "total"})
	if len(errs) != 1 || !strings.Contains(errs[0], "field") {
		t.Fatalf("kpi without field should complain about field, got %v", errs)
	}
}

func TestValidate_Slicer(t *testing.T) {
	if errs := chart.Validate("slicer", chart.WidgetBinding{FilterField: "region"}); len(errs) != 0 {
		t.Fatalf("slicer with filter should be valid, got %v", errs)
	}
	// Legacy tag goes through the same checks.
	errs := chart.Validate("filter", chart.WidgetBinding{})
	if len(errs) != 1 || !strings.Contains(errs[0], "filter") {
		t.Fatalf("slicer without filter should complain, got %v", errs)
	}
}

func TestValidate_TableNeedsNothing(t *testing.T) {
	if errs := chart.Validate("table", chart.WidgetBinding{}); len(errs) != 0 {
		t.Fatalf("table has no required roles, got %v", errs)
	}
}

func TestListAll_StableOrderNoAliases(t *testing.T) {
	all := chart.ListAll()
	if len(all) != 22 {
		t.Fatalf("expected 22 chart types, got %d", len(all))
	}
	if all[0].Tag != "bar" {
		t.Fatalf("expected bar first, got %q", all[0].Tag)
	}
	for _, d := range all {
		switch d.Tag {
		case "filter", "doughnut", "number", "column", "hbar":
			t.Fatalf("pure alias %q must not be listed", d.Tag)
		}
	}
	// Two calls must agree element-for-element.
	again := chart.ListAll()
	for i := range all {
		if all[i].Tag != again[i].Tag {
			t.Fatalf("unstable order at %d: %q vs %q", i, all[i].Tag, again[i].Tag)
		}
	}
}
