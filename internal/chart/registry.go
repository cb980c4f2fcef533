package chart

import "fmt"

// ─────────────────────────────────────────────────────────────
// Chart Capability Registry
// ─────────────────────────────────────────────────────────────
// Static table mapping each chart type tag to the field roles it
// requires/accepts and the aggregations it supports. Built once at
// package init and never mutated — safe for concurrent readers.

// FieldRole is an abstract binding slot a chart type requires or accepts.
type FieldRole string

const (
	RoleAxis     FieldRole = "axis"
	RoleValues   FieldRole = "values"
	RoleLegend   FieldRole = "legend"
	RoleTooltips FieldRole = "tooltips"
	RoleCategory FieldRole = "category"
	RoleField    FieldRole = "field"
	RoleFilter   FieldRole = "filter"
)

// Descriptor describes the capabilities of one chart type.
type Descriptor struct {
	Tag           string            `json:"tag"`
	Label         string            `json:"label"`
	RequiredRoles []FieldRole       `json:"requiredRoles"`
	OptionalRoles []FieldRole       `json:"optionalRoles,omitempty"`
	Aggregations  []AggregationKind `json:"aggregations,omitempty"`
	Extra         map[string]any    `json:"extra,omitempty"`
}

// aliases maps legacy tags kept for backward compatibility to their
// canonical tag. Resolved before table lookup, never listed.
var aliases = map[string]string{
	"filter":   "slicer",
	"doughnut": "donut",
	"number":   "kpi",
	"column":   "bar",
	"hbar":     "horizontal-bar",
}

var (
	descriptors []Descriptor          // registration order, for ListAll
	byTag       map[string]*Descriptor
)

func register(d Descriptor) {
	descriptors = append(descriptors, d)
}

var (
	allAggs   = Kinds()
	sumCount  = []AggregationKind{AggSum, AggCount}
	axisVals  = []FieldRole{RoleAxis, RoleValues}
	catVals   = []FieldRole{RoleCategory, RoleValues}
	fieldOnly = []FieldRole{RoleField}
)

func init() {
	register(Descriptor{Tag: "bar", Label: "Bar", RequiredRoles: axisVals, OptionalRoles: []FieldRole{RoleLegend, RoleTooltips}, Aggregations: allAggs})
	register(Descriptor{Tag: "stacked-bar", Label: "Stacked Bar", RequiredRoles: axisVals, OptionalRoles: []FieldRole{RoleLegend, RoleTooltips}, Aggregations: allAggs, Extra: map[string]any{"stacked": true}})
	register(Descriptor{Tag: "horizontal-bar", Label: "Horizontal Bar", RequiredRoles: axisVals, OptionalRoles: []FieldRole{RoleLegend}, Aggregations: allAggs, Extra: map[string]any{"horizontal": true}})
	register(Descriptor{Tag: "line", Label: "Line", RequiredRoles: axisVals, OptionalRoles: []FieldRole{RoleLegend, RoleTooltips}, Aggregations: allAggs})
	register(Descriptor{Tag: "area", Label: "Area", RequiredRoles: axisVals, OptionalRoles: []FieldRole{RoleLegend}, Aggregations: allAggs})
	register(Descriptor{Tag: "stacked-area", Label: "Stacked Area", RequiredRoles: axisVals, OptionalRoles: []FieldRole{RoleLegend}, Aggregations: allAggs, Extra: map[string]any{"stacked": true}})
	register(Descriptor{Tag: "combo", Label: "Combo", RequiredRoles: axisVals, OptionalRoles: []FieldRole{RoleLegend}, Aggregations: allAggs})
	register(Descriptor{Tag: "scatter", Label: "Scatter", RequiredRoles: axisVals, OptionalRoles: []FieldRole{RoleLegend, RoleTooltips}, Aggregations: allAggs})
	register(Descriptor{Tag: "bubble", Label: "Bubble", RequiredRoles: axisVals, OptionalRoles: []FieldRole{RoleLegend, RoleTooltips}, Aggregations: allAggs})
	register(Descriptor{Tag: "radar", Label: "Radar", RequiredRoles: axisVals, OptionalRoles: []FieldRole{RoleLegend}, Aggregations: allAggs})
	register(Descriptor{Tag: "heatmap", Label: "Heatmap", RequiredRoles: axisVals, OptionalRoles: []FieldRole{RoleLegend}, Aggregations: sumCount})
	register(Descriptor{Tag: "pie", Label: "Pie", RequiredRoles: catVals, OptionalRoles: []FieldRole{RoleTooltips}, Aggregations: sumCount})
	register(Descriptor{Tag: "donut", Label: "Donut", RequiredRoles: catVals, OptionalRoles: []FieldRole{RoleTooltips}, Aggregations: sumCount, Extra: map[string]any{"donut": true}})
	register(Descriptor{Tag: "funnel", Label: "Funnel", RequiredRoles: catVals, Aggregations: sumCount})
	register(Descriptor{Tag: "treemap", Label: "Treemap", RequiredRoles: catVals, Aggregations: sumCount})
	register(Descriptor{Tag: "table", Label: "Table", RequiredRoles: nil, OptionalRoles: []FieldRole{RoleValues, RoleTooltips}})
	register(Descriptor{Tag: "pivot-table", Label: "Pivot Table", RequiredRoles: axisVals, OptionalRoles: []FieldRole{RoleLegend}, Aggregations: allAggs})
	register(Descriptor{Tag: "kpi", Label: "KPI", RequiredRoles: fieldOnly, Aggregations: allAggs})
	register(Descriptor{Tag: "gauge", Label: "Gauge", RequiredRoles: fieldOnly, Aggregations: allAggs, Extra: map[string]any{"max": 100.0}})
	register(Descriptor{Tag: "progress", Label: "Progress", RequiredRoles: fieldOnly, Aggregations: allAggs, Extra: map[string]any{"max": 100.0}})
	register(Descriptor{Tag: "slicer", Label: "Slicer", RequiredRoles: []FieldRole{RoleFilter}})
	register(Descriptor{Tag: "text", Label: "Text", RequiredRoles: nil})

	// Indexed only after the table is final: pointers taken while the
	// slice is still growing would land in stale backing arrays.
	byTag = make(map[string]*Descriptor, len(descriptors))
	for i := range descriptors {
		byTag[descriptors[i].Tag] = &descriptors[i]
	}
}

// Lookup resolves a chart type tag (including legacy aliases) to its
// descriptor. A missing tag is a normal result, not a fault.
func Lookup(tag string) (*Descriptor, bool) {
	if canonical, ok := aliases[tag]; ok {
		tag = canonical
	}
	d, ok := byTag[tag]
	return d, ok
}

// ListAll returns every registered descriptor in registration order.
// Pure aliases are not included — the selection UI shows canonical types only.
func ListAll() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// roleCheckOrder fixes the order in which required roles are reported.
var roleCheckOrder = []FieldRole{RoleAxis, RoleValues, RoleCategory, RoleField, RoleFilter}

// Validate checks a widget binding against the capabilities of a chart type.
// Returns an ordered list of human-readable error strings; empty means valid.
// The caller decides whether errors block a save — rendering is never blocked.
func Validate(tag string, b WidgetBinding) []string {
	d, ok := Lookup(tag)
	if !ok {
		return []string{fmt.Sprintf("unknown chart type: %q", tag)}
	}

	// Presence flags are derived from the binding alone, independent of
	// which chart is being checked. Axis and category are deliberately
	// interchangeable signals: either an axis or a legend field counts.
	hasAxis := b.AxisField != "" || b.LegendField != ""
	hasValues := b.ValueField != "" || b.Field != ""
	hasCategory := hasAxis
	hasField := b.Field != ""
	hasFilter := b.FilterField != ""

	satisfied := map[FieldRole]bool{
		RoleAxis:     hasAxis,
		RoleValues:   hasValues,
		RoleCategory: hasCategory,
		RoleField:    hasField,
		RoleFilter:   hasFilter,
	}

	var errs []string
	for _, role := range roleCheckOrder {
		if !requiresRole(d, role) {
			continue
		}
		if !satisfied[role] {
			errs = append(errs, fmt.Sprintf("%s chart requires a %s field", d.Label, role))
		}
	}
	return errs
}

func requiresRole(d *Descriptor, role FieldRole) bool {
	for _, r := range d.RequiredRoles {
		if r == role {
			return true
		}
	}
	return false
}
