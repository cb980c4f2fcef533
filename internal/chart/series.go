package chart

import (
	"fmt"
	"math"
	"strconv"
)

// ─────────────────────────────────────────────────────────────
// Pivot / Grouping Engine
// ─────────────────────────────────────────────────────────────
// Turns raw dataset rows plus a widget binding into chart-ready series
// data. Pure and deterministic — the editor canvas and the read-only
// viewer call the same function and must draw the same picture.

// Row is one dataset row: field name → scalar value. A field may be
// absent; absent and nil are treated the same everywhere.
type Row map[string]any

// WidgetBinding is the user-chosen mapping from field roles to dataset
// field names for one widget. Field names are arbitrary strings and are
// not checked against the dataset schema — a binding to a nonexistent
// field simply reads as missing.
type WidgetBinding struct {
	AxisField   string          `json:"axisField,omitempty"`
	ValueField  string          `json:"valueField,omitempty"`
	Field       string          `json:"field,omitempty"` // single-field fallback for ValueField
	LegendField string          `json:"legendField,omitempty"`
	FilterField string          `json:"filterField,omitempty"`
	Aggregation AggregationKind `json:"aggregation,omitempty"` // empty = sum
}

// SeriesPoint is one long-form row: an axis group label and its
// aggregated value.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Column is one legend-derived cell of a pivoted row.
type Column struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PivotedRow is one wide-form row: an axis group label plus one column
// per distinct legend value observed across the whole dataset. Columns
// are zero-filled so every row carries the same column set — multi-series
// renderers rely on that.
type PivotedRow struct {
	Label   string   `json:"label"`
	Columns []Column `json:"columns"`
}

// SeriesResult is the output of BuildAggregatedSeries. Exactly one of
// the fields is populated: Raw when the binding is incomplete and the
// rows pass through untouched, Points for long form, Pivoted for wide
// form.
type SeriesResult struct {
	Raw     []Row        `json:"raw,omitempty"`
	Points  []SeriesPoint `json:"points,omitempty"`
	Pivoted []PivotedRow  `json:"pivoted,omitempty"`
}

// inferSampleSize caps how many leading rows the numeric-field check reads.
const inferSampleSize = 50

// BuildAggregatedSeries groups rows by the axis field (and legend field,
// if bound) and aggregates the value field per group. Missing or
// malformed data never raises an error: an incomplete binding returns
// the rows unchanged, bad values degrade to zero or count-based
// fallbacks.
func BuildAggregatedSeries(rows []Row, b WidgetBinding) SeriesResult {
	valueField := b.ValueField
	if valueField == "" {
		valueField = b.Field
	}
	if b.AxisField == "" || valueField == "" {
		return SeriesResult{Raw: rows}
	}

	numeric := isNumericField(rows, valueField)
	kind := b.Aggregation
	if !numeric {
		// Aggregating non-numeric data by anything but count is meaningless.
		kind = AggCount
	}

	// Group contributions by (axis label, legend label). Labels are
	// string coercions of the raw values — rows whose axis values
	// stringify identically share a bucket regardless of original type.
	buckets := map[string]map[string][]float64{}
	var axisOrder, legendOrder []string
	seenLegend := map[string]bool{}

	for _, row := range rows {
		axisLabel := coerceLabel(row[b.AxisField])
		legendLabel := ""
		if b.LegendField != "" {
			legendLabel = coerceLabel(row[b.LegendField])
			if !seenLegend[legendLabel] {
				seenLegend[legendLabel] = true
				legendOrder = append(legendOrder, legendLabel)
			}
		}

		byLegend, ok := buckets[axisLabel]
		if !ok {
			byLegend = map[string][]float64{}
			buckets[axisLabel] = byLegend
			axisOrder = append(axisOrder, axisLabel)
		}

		contribution := 1.0 // non-numeric columns count occurrences
		if numeric {
			contribution = 0
			if f, ok := parseNumber(row[valueField]); ok {
				contribution = f
			}
		}
		byLegend[legendLabel] = append(byLegend[legendLabel], contribution)
	}

	if b.LegendField == "" {
		points := make([]SeriesPoint, 0, len(axisOrder))
		for _, label := range axisOrder {
			points = append(points, SeriesPoint{
				Label: label,
				Value: Aggregate(buckets[label][""], kind),
			})
		}
		return SeriesResult{Points: points}
	}

	// Wide form: every distinct legend label across the whole dataset
	// becomes a column in every row, zero-filled when the (axis, legend)
	// pair was never observed.
	pivoted := make([]PivotedRow, 0, len(axisOrder))
	for _, axisLabel := range axisOrder {
		row := PivotedRow{Label: axisLabel, Columns: make([]Column, 0, len(legendOrder))}
		for _, legendLabel := range legendOrder {
			value := 0.0
			if contributions, ok := buckets[axisLabel][legendLabel]; ok {
				value = Aggregate(contributions, kind)
			}
			row.Columns = append(row.Columns, Column{Name: legendLabel, Value: value})
		}
		pivoted = append(pivoted, row)
	}
	return SeriesResult{Pivoted: pivoted}
}

// isNumericField samples the first rows and decides whether the field
// holds numbers. The first non-empty value decides for the whole column:
// if it parses as a finite number the column is numeric, otherwise it is
// not — even when every later value would parse. Callers depend on that
// first-row-wins behavior.
func isNumericField(rows []Row, field string) bool {
	limit := len(rows)
	if limit > inferSampleSize {
		limit = inferSampleSize
	}
	for i := 0; i < limit; i++ {
		v, ok := rows[i][field]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		_, numeric := parseNumber(v)
		return numeric
	}
	return false
}

// parseNumber converts a scalar to a finite float64. Native numbers pass
// through; strings go through a float parse. NaN and infinities do not
// count as numbers.
func parseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, isFinite(n)
	case float32:
		return float64(n), isFinite(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil && isFinite(f)
	default:
		return 0, false
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// coerceLabel turns a raw axis/legend value into a bucket key. Absent
// and nil coerce to the empty string.
func coerceLabel(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
