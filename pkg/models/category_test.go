package models

import (
	"encoding/json"
	"testing"
)

func TestCategoryWireNames(t *testing.T) {
	for _, cat := range Categories {
		parsed, ok := ParseCategory(cat.String())
		if !ok || parsed != cat {
			t.Errorf("round trip failed for %v (%q)", cat, cat.String())
		}
	}
	if _, ok := ParseCategory("hellide"); ok {
		t.Error("parsed a misspelled category")
	}
}

func TestCategoryJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(WorldBoss)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"world_boss"` {
		t.Fatalf("marshal = %s", data)
	}
	var c Category
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatal(err)
	}
	if c != WorldBoss {
		t.Fatalf("unmarshal = %v", c)
	}
}

func TestBeepPatternRepeats(t *testing.T) {
	if BeepSingle.Repeats() != 1 || BeepDouble.Repeats() != 2 || BeepTriple.Repeats() != 3 {
		t.Fatal("wrong repeat counts")
	}
	if BeepPattern("").Repeats() != 1 {
		t.Fatal("unset pattern should fall back to one burst")
	}
}
