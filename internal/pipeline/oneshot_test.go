package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"partsclean/internal"
)

func TestExplainEntry(t *testing.T) {
	rules := NewRules(DefaultOptions())
	got, err := rules.Explain("entry", "Intel Pentium B940 Intel HM65 (N/A)")
	if err != nil {
		t.Fatal(err)
	}
	wantSegments := []internal.Segment{{Processors: []string{"Intel Pentium B940"}, Chipset: "Intel HM65", Rule: internal.RuleTrailingVendor}}
	if diff := cmp.Diff(wantSegments, got.Segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
	if got.Entries[0].Cleaned != "Intel Pentium B940 Intel HM65" {
		t.Fatalf("cleaned=%q", got.Entries[0].Cleaned)
	}
	if got.Result.ProcessorsRendered != "['Intel Pentium B940']" || got.Result.ChipsetsRendered != "['Intel HM65']" {
		t.Fatalf("result=%+v", got.Result)
	}
}

func TestExplainEntryWithQuotes(t *testing.T) {
	rules := NewRules(DefaultOptions())
	got, err := rules.Explain("entry", `Intel Core i7 10700 "K" 'box'`)
	if err != nil {
		t.Fatal(err)
	}
	if got.Result.Malformed {
		t.Fatal("entry should round trip through a list literal")
	}
}

func TestExplainCell(t *testing.T) {
	rules := NewRules(DefaultOptions())
	got, err := rules.Explain("cell", "['Intel Core i7 10700', 'AMD Athlon II X2 250 (AM3) AMD 785G']")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Entries) != 2 || len(got.Segments) != 2 {
		t.Fatalf("entries=%d segments=%d", len(got.Entries), len(got.Segments))
	}
	if got.Segments[1].Rule != internal.RuleTrailingVendor {
		t.Fatalf("rule=%s", got.Segments[1].Rule)
	}
	if got.Result.ChipsetsRendered != "['AMD 785G']" {
		t.Fatalf("chipsets=%s", got.Result.ChipsetsRendered)
	}
}

func TestExplainMissingAndUnknown(t *testing.T) {
	rules := NewRules(DefaultOptions())
	got, err := rules.Explain("missing", "ignored")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Entries) != 0 || got.Result.ProcessorsRendered != "[]" || got.Result.ChipsetsRendered != "[]" {
		t.Fatalf("got %+v", got)
	}
	if _, err := rules.Explain("pdf", "x"); err == nil {
		t.Fatal("expected error for unsupported input type")
	}
}
