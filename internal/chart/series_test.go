package chart_test

import (
	"reflect"
	"testing"

	"dash/internal/chart"
)

// ─────────────────────────────────────────────────────────────
// Pivot engine tests
// ─────────────────────────────────────────────────────────────

func rowsFromPairs(axis []string, values []any) []chart.Row {
	rows := make([]chart.Row, len(axis))
	for i := range axis {
		rows[i] = chart.Row{"month": axis[i], "sales": values[i]}
	}
	return rows
}

func TestBuildAggregatedSeries_PassThroughWithoutBinding(t *testing.T) {
	rows := []chart.Row{{"a": 1}, {"a": 2}}

	// No axis field → pass-through.
	res := chart.BuildAggregatedSeries(rows, chart.WidgetBinding{ValueField: "a"})
	if len(res.Raw) != 2 || res.Points != nil || res.Pivoted != nil {
		t.Fatalf("expected raw pass-through, got %+v", res)
	}

	// No value field (and no single-field fallback) → pass-through.
	res = chart.BuildAggregatedSeries(rows, chart.WidgetBinding{AxisField: "a"})
	if len(res.Raw) != 2 {
		t.Fatalf("expected raw pass-through, got %+v", res)
	}
}

func TestBuildAggregatedSeries_SingleFieldFallback(t *testing.T) {
	rows := rowsFromPairs([]string{"jan", "jan"}, []any{1, 2})
	res := chart.BuildAggregatedSeries(rows, chart.WidgetBinding{AxisField: "month", Field: "sales"})
	if len(res.Points) != 1 || res.Points[0].Value != 3 {
		t.Fatalf("expected field fallback to aggregate, got %+v", res)
	}
}

func TestBuildAggregatedSeries_SumInsertionOrder(t *testing.T) {
	rows := rowsFromPairs([]string{"a", "a", "b"}, []any{1, 2, 3})
	res := chart.BuildAggregatedSeries(rows, chart.WidgetBinding{
		AxisField: "month", ValueField: "sales", Aggregation: chart.AggSum,
	})
	want := []chart.SeriesPoint{{Label: "a", Value: 3}, {Label: "b", Value: 3}}
	if !reflect.DeepEqual(res.Points, want) {
		t.Fatalf("got %+v, want %+v", res.Points, want)
	}
}

func TestBuildAggregatedSeries_DefaultAggregationIsSum(t *testing.T) {
	rows := rowsFromPairs([]string{"a", "a"}, []any{2, 3})
	res := chart.BuildAggregatedSeries(rows, chart.WidgetBinding{AxisField: "month", ValueField: "sales"})
	if res.Points[0].Value != 5 {
		t.Fatalf("expected default sum 5, got %v", res.Points[0].Value)
	}
}

func TestBuildAggregatedSeries_LabelCoercion(t *testing.T) {
	// nil axis values coerce to "", numeric axis values stringify — rows
	// whose labels stringify identically share a bucket.
	rows := []chart.Row{
		{"month": nil, "sales": 1},
		{"sales": 2}, // month absent, same bucket as nil
		{"month": 7, "sales": 3},
		{"month": "7", "sales": 4},
	}
	res := chart.BuildAggregatedSeries(rows, chart.WidgetBinding{AxisField: "month", ValueField: "sales"})
	want := []chart.SeriesPoint{{Label: "", Value: 3}, {Label: "7", Value: 7}}
	if !reflect.DeepEqual(res.Points, want) {
		t.Fatalf("got %+v, want %+v", res.Points, want)
	}
}

func TestBuildAggregatedSeries_UnparsableNumericValuesContributeZero(t *testing.T) {
	// First sampled value is numeric, so the column is numeric; a later
	// unparsable value degrades to 0, not an error.
	rows := rowsFromPairs([]string{"a", "a"}, []any{2, "oops"})
	res := chart.BuildAggregatedSeries(rows, chart.WidgetBinding{AxisField: "month", ValueField: "sales"})
	if res.Points[0].Value != 2 {
		t.Fatalf("expected 2 (bad value → 0), got %v", res.Points[0].Value)
	}
}

// The numeric check looks only at the first usable sampled value. A
// column whose first value is "N/A" aggregates by count even when every
// later value is a clean number. Documented quirk — renderers and saved
// dashboards depend on it, so it stays.
func TestBuildAggregatedSeries_FirstRowWinsInference(t *testing.T) {
	rows := rowsFromPairs([]string{"a", "a", "b"}, []any{"N/A", 10, 20})
	res := chart.BuildAggregatedSeries(rows, chart.WidgetBinding{
		AxisField: "month", ValueField: "sales", Aggregation: chart.AggSum,
	})
	// count-based: a has 2 rows, b has 1
	want := []chart.SeriesPoint{{Label: "a", Value: 2}, {Label: "b", Value: 1}}
	if !reflect.DeepEqual(res.Points, want) {
		t.Fatalf("expected count fallback %+v, got %+v", want, res.Points)
	}
}

func TestBuildAggregatedSeries_InferenceSkipsEmptyLeadingRows(t *testing.T) {
	// nil and "" rows are skipped; the first usable value ("3") decides.
	rows := rowsFromPairs([]string{"a", "a", "a"}, []any{nil, "", "3"})
	res := chart.BuildAggregatedSeries(rows, chart.WidgetBinding{AxisField: "month", ValueField: "sales"})
	if res.Points[0].Value != 3 {
		t.Fatalf("expected numeric inference to skip empties, got %v", res.Points[0].Value)
	}
}

func TestBuildAggregatedSeries_NumericStringsParse(t *testing.T) {
	rows := rowsFromPairs([]string{"a", "b"}, []any{"1.5", "2.5"})
	res := chart.BuildAggregatedSeries(rows, chart.WidgetBinding{AxisField: "month", ValueField: "sales"})
	if res.Points[0].Value != 1.5 || res.Points[1].Value != 2.5 {
		t.Fatalf("expected parsed string values, got %+v", res.Points)
	}
}

func TestBuildAggregatedSeries_LegendPivotZeroFill(t *testing.T) {
	rows := []chart.Row{
		{"month": "jan", "region": "north", "sales": 1},
		{"month": "jan", "region": "south", "sales": 2},
		{"month": "feb", "region": "west", "sales": 4},
	}
	res := chart.BuildAggregatedSeries(rows, chart.WidgetBinding{
		AxisField: "month", ValueField: "sales", LegendField: "region", Aggregation: chart.AggSum,
	})
	if len(res.Pivoted) != 2 {
		t.Fatalf("expected 2 pivoted rows, got %d", len(res.Pivoted))
	}
	// Every row carries the full legend column set, in first-seen order.
	for _, row := range res.Pivoted {
		if len(row.Columns) != 3 {
			t.Fatalf("row %q: expected 3 legend columns, got %d", row.Label, len(row.Columns))
		}
		for i, name := range []string{"north", "south", "west"} {
			if row.Columns[i].Name != name {
				t.Fatalf("row %q: column %d = %q, want %q", row.Label, i, row.Columns[i].Name, name)
			}
		}
	}
	jan, feb := res.Pivoted[0], res.Pivoted[1]
	if jan.Label != "jan" || feb.Label != "feb" {
		t.Fatalf("axis groups out of first-seen order: %q, %q", jan.Label, feb.Label)
	}
	if jan.Columns[0].Value != 1 || jan.Columns[1].Value != 2 || jan.Columns[2].Value != 0 {
		t.Fatalf("jan columns wrong: %+v", jan.Columns)
	}
	if feb.Columns[0].Value != 0 || feb.Columns[1].Value != 0 || feb.Columns[2].Value != 4 {
		t.Fatalf("feb columns wrong: %+v", feb.Columns)
	}
}

func TestBuildAggregatedSeries_Idempotent(t *testing.T) {
	rows := []chart.Row{
		{"month": "jan", "region": "north", "sales": 1},
		{"month": "feb", "region": "south", "sales": 2},
	}
	binding := chart.WidgetBinding{AxisField: "month", ValueField: "sales", LegendField: "region"}
	first := chart.BuildAggregatedSeries(rows, binding)
	second := chart.BuildAggregatedSeries(rows, binding)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ across calls:\n%+v\n%+v", first, second)
	}
}
