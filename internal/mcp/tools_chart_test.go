package mcpserver

import (
	"strings"
	"testing"

	"dash/internal/chart"
)

// The binding help text is what an agent reads before picking an
// aggregation. Advertising a kind the engine does not implement would
// hand back a silent sum, so the text must track chart.Kinds exactly.
func TestBindingDescriptionMatchesEngine(t *testing.T) {
	for _, k := range chart.Kinds() {
		if !strings.Contains(bindingDescription, string(k)) {
			t.Errorf("binding description does not advertise %q", k)
		}
	}
	for _, unimplemented := range []string{"mean", "median", "min", "max", "avg"} {
		if strings.Contains(bindingDescription, unimplemented) {
			t.Errorf("binding description advertises unimplemented kind %q", unimplemented)
		}
	}
}

func TestAggregationKindsListsEveryKind(t *testing.T) {
	list := aggregationKinds()
	want := len(chart.Kinds())
	if got := len(strings.Split(list, ", ")); got != want {
		t.Fatalf("aggregationKinds() = %q, want %d entries", list, want)
	}
}
