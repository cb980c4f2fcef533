package chart_test

import (
	"reflect"
	"testing"

	"dash/internal/chart"
)

func TestPieDonutData_AccumulatesFirstSeenOrder(t *testing.T) {
	rows := []chart.Row{
		{"n": "A", "v": 1},
		{"n": "A", "v": 2},
		{"n": "B", "v": 5},
	}
	got := chart.PieDonutData(rows, chart.WidgetBinding{AxisField: "n", ValueField: "v"})
	want := []chart.PieDonutItem{{Name: "A", Value: 3}, {Name: "B", Value: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPieDonutData_LegendTakesPriorityOverAxis(t *testing.T) {
	rows := []chart.Row{{"region": "north", "month": "jan", "v": 2}}
	got := chart.PieDonutData(rows, chart.WidgetBinding{
		AxisField: "month", LegendField: "region", ValueField: "v",
	})
	if len(got) != 1 || got[0].Name != "north" {
		t.Fatalf("expected legend field as name, got %+v", got)
	}
}

func TestPieDonutData_FieldFallbackForValue(t *testing.T) {
	rows := []chart.Row{{"n": "A", "total": 7}}
	got := chart.PieDonutData(rows, chart.WidgetBinding{AxisField: "n", Field: "total"})
	if len(got) != 1 || got[0].Value != 7 {
		t.Fatalf("expected single-field fallback, got %+v", got)
	}
}

func TestPieDonutData_IncompleteBindingIsEmpty(t *testing.T) {
	rows := []chart.Row{{"n": "A", "v": 1}}
	if got := chart.PieDonutData(rows, chart.WidgetBinding{ValueField: "v"}); len(got) != 0 {
		t.Fatalf("missing name field should be empty, got %+v", got)
	}
	if got := chart.PieDonutData(rows, chart.WidgetBinding{AxisField: "n"}); len(got) != 0 {
		t.Fatalf("missing value field should be empty, got %+v", got)
	}
}

func TestPieDonutData_UnparsableValueCountsAsOne(t *testing.T) {
	rows := []chart.Row{
		{"n": "A", "v": "n/a"},
		{"n": "A", "v": "n/a"},
		{"n": "B", "v": 3},
	}
	got := chart.PieDonutData(rows, chart.WidgetBinding{AxisField: "n", ValueField: "v"})
	want := []chart.PieDonutItem{{Name: "A", Value: 2}, {Name: "B", Value: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPieDonutData_NilNameCoercesToEmpty(t *testing.T) {
	rows := []chart.Row{{"v": 1}, {"n": nil, "v": 2}}
	got := chart.PieDonutData(rows, chart.WidgetBinding{AxisField: "n", ValueField: "v"})
	if len(got) != 1 || got[0].Name != "" || got[0].Value != 3 {
		t.Fatalf("nil/absent names should share the empty bucket, got %+v", got)
	}
}

func TestPieDonutData_Idempotent(t *testing.T) {
	rows := []chart.Row{{"n": "A", "v": 1}, {"n": "B", "v": 2}}
	b := chart.WidgetBinding{AxisField: "n", ValueField: "v"}
	first := chart.PieDonutData(rows, b)
	second := chart.PieDonutData(rows, b)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ across calls:\n%+v\n%+v", first, second)
	}
}
