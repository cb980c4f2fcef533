package chart_test

import (
	"testing"

	"dash/internal/chart"
)

func TestAggregate_EmptyAlwaysZero(t *testing.T) {
	kinds := []chart.AggregationKind{
		chart.AggSum, chart.AggCount, chart.AggFirst, chart.AggLast,
		chart.AggPercentage, "", "median",
	}
	for _, kind := range kinds {
		if got := chart.Aggregate(nil, kind); got != 0 {
			t.Fatalf("Aggregate(nil, %q) = %v, want 0", kind, got)
		}
	}
}

func TestAggregate_SingleElement(t *testing.T) {
	single := []float64{5}
	for _, kind := range []chart.AggregationKind{chart.AggFirst, chart.AggLast, chart.AggSum, chart.AggPercentage} {
		if got := chart.Aggregate(single, kind); got != 5 {
			t.Fatalf("Aggregate([5], %q) = %v, want 5", kind, got)
		}
	}
	if got := chart.Aggregate(single, chart.AggCount); got != 1 {
		t.Fatalf("Aggregate([5], count) = %v, want 1", got)
	}
}

func TestAggregate_Kinds(t *testing.T) {
	values := []float64{2, 4, 6}
	cases := []struct {
		kind chart.AggregationKind
		want float64
	}{
		{chart.AggSum, 12},
		{chart.AggCount, 3},
		{chart.AggFirst, 2},
		{chart.AggLast, 6},
		{chart.AggPercentage, 4},
	}
	for _, c := range cases {
		if got := chart.Aggregate(values, c.kind); got != c.want {
			t.Fatalf("Aggregate(%v, %q) = %v, want %v", values, c.kind, got, c.want)
		}
	}
}

// Percentage historically computes a mean, not a share of total. The
// name stuck; downstream widgets calibrated to the mean.
func TestAggregate_PercentageIsMean(t *testing.T) {
	if got := chart.Aggregate([]float64{10, 20}, chart.AggPercentage); got != 15 {
		t.Fatalf("percentage of [10,20] = %v, want mean 15", got)
	}
}

func TestAggregate_UnknownKindFallsBackToSum(t *testing.T) {
	values := []float64{1, 2, 3}
	if got := chart.Aggregate(values, "median"); got != 6 {
		t.Fatalf("unknown kind should sum, got %v", got)
	}
	if got := chart.Aggregate(values, ""); got != 6 {
		t.Fatalf("absent kind should sum, got %v", got)
	}
}
