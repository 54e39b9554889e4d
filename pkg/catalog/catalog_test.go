package catalog

import (
	"strings"
	"testing"
)

func TestResolveNoUnderscore(t *testing.T) {
	c := New()
	teki, treasure, ok := c.Resolve("Chappy")
	if !ok || teki != "Chappy" || treasure != "" {
		t.Fatalf("got %q %q %v", teki, treasure, ok)
	}
}

func TestResolveUniqueSplit(t *testing.T) {
	c := New()
	c.AddTeki("Chappy")
	c.AddTreasure("LustrousElement")
	teki, treasure, ok := c.Resolve("Chappy_LustrousElement")
	if !ok || teki != "Chappy" || treasure != "LustrousElement" {
		t.Fatalf("got %q %q %v", teki, treasure, ok)
	}
}

// TestResolveAmbiguousDisambiguatesOnUniqueness exercises a combined
// identifier that only one teki/treasure pair can explain: "A_B" is a
// registered teki name in its own right, but "A_B_C" only decomposes
// uniquely as teki "A_B" + treasure "C", since "B_C" is never registered
// as a treasure.
func TestResolveAmbiguousDisambiguatesOnUniqueness(t *testing.T) {
	c := New()
	c.AddTeki("A")
	c.AddTeki("A_B")
	c.AddTreasure("B")
	c.AddTreasure("C")
	teki, treasure, ok := c.Resolve("A_B_C")
	if !ok || teki != "A_B" || treasure != "C" {
		t.Fatalf("got %q %q %v", teki, treasure, ok)
	}
}

func TestResolveNoMatchFails(t *testing.T) {
	c := New()
	c.AddTeki("Foo")
	c.AddTreasure("Bar")
	_, _, ok := c.Resolve("Baz_Qux")
	if ok {
		t.Fatal("expected Resolve to fail for unregistered names")
	}
}

func TestLoadLines(t *testing.T) {
	data := "teki\tChappy\ntreasure\tLustrousElement\n# comment\n\n"
	c, err := LoadLines(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if !c.KnownTeki("Chappy") || !c.KnownTreasure("LustrousElement") {
		t.Fatal("catalog missing expected entries")
	}
}
