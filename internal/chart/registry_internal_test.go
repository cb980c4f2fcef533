package chart

import "testing"

// Lookup must hand out pointers into the live descriptor table. Pointers
// captured while the table was still being appended to would keep aiming
// at copies in abandoned backing arrays.
func TestLookupReturnsLiveTableEntries(t *testing.T) {
	for i := range descriptors {
		d, ok := Lookup(descriptors[i].Tag)
		if !ok {
			t.Fatalf("Lookup(%q): not found", descriptors[i].Tag)
		}
		if d != &descriptors[i] {
			t.Errorf("Lookup(%q) returned a stale descriptor copy", descriptors[i].Tag)
		}
	}
}

func TestAliasesResolveToLiveTableEntries(t *testing.T) {
	for alias, canonical := range aliases {
		d, ok := Lookup(alias)
		if !ok {
			t.Fatalf("Lookup(%q): alias not resolved", alias)
		}
		if d != byTag[canonical] {
			t.Errorf("Lookup(%q) != table entry for %q", alias, canonical)
		}
	}
}
