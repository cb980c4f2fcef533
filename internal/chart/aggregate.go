package chart

// AggregationKind names a strategy for reducing a group of numbers to one.
type AggregationKind string

const (
	AggSum        AggregationKind = "sum"
	AggCount      AggregationKind = "count"
	AggFirst      AggregationKind = "first"
	AggLast       AggregationKind = "last"
	AggPercentage AggregationKind = "percentage"
)

// Kinds lists every aggregation the engine implements, in display order.
// Surfaces that advertise aggregations (tool descriptions, pickers) should
// build their lists from this rather than hand-written text.
func Kinds() []AggregationKind {
	return []AggregationKind{AggSum, AggCount, AggFirst, AggLast, AggPercentage}
}

// Aggregate reduces values to a single number under the given strategy.
// Empty input yields 0 for every kind. An unrecognized or empty kind
// falls back to sum. Pure and total — no failure mode.
//
// Note: "percentage" computes the arithmetic mean, not a share of total.
// The name is historical; renderers depend on the mean behavior.
func Aggregate(values []float64, kind AggregationKind) float64 {
	if len(values) == 0 {
		return 0
	}
	switch kind {
	case AggCount:
		return float64(len(values))
	case AggFirst:
		return values[0]
	case AggLast:
		return values[len(values)-1]
	case AggPercentage:
		return sum(values) / float64(len(values))
	default: // AggSum and any unknown kind
		return sum(values)
	}
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
