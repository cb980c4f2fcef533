package chart

// PieDonutItem is one slice of a pie or donut chart.
type PieDonutItem struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PieDonutData reduces rows to name/value pairs for pie and donut
// widgets. The name field is the legend field, falling back to the axis
// field; the value field falls back to the single field. An incomplete
// binding yields an empty result.
//
// Accumulation is a linear search over the emitted items, which keeps
// first-seen ordering of distinct names. Quadratic in distinct names —
// fine at dashboard sizes. TODO: switch to a name-keyed index once slice
// counts grow; ordering and sums must not change.
func PieDonutData(rows []Row, b WidgetBinding) []PieDonutItem {
	nameField := b.LegendField
	if nameField == "" {
		nameField = b.AxisField
	}
	valueField := b.ValueField
	if valueField == "" {
		valueField = b.Field
	}
	if nameField == "" || valueField == "" {
		return nil
	}

	var items []PieDonutItem
	for _, row := range rows {
		name := coerceLabel(row[nameField])
		value, ok := parseNumber(row[valueField])
		if !ok {
			value = 1 // unparsable values count as one occurrence
		}

		found := false
		for i := range items {
			if items[i].Name == name {
				items[i].Value += value
				found = true
				break
			}
		}
		if !found {
			items = append(items, PieDonutItem{Name: name, Value: value})
		}
	}
	return items
}
