package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"partsclean/internal"
)

func TestNormalize(t *testing.T) {
	rules := NewRules(DefaultOptions())
	cases := []struct {
		name string
		raw  string
		want internal.Entry
	}{
		{
			name: "quotes and spaces trimmed",
			raw:  "  'Intel Core i5 2410M'  ",
			want: internal.Entry{Original: "Intel Core i5 2410M", Cleaned: "Intel Core i5 2410M"},
		},
		{
			name: "html entity",
			raw:  "Intel Core i5&#174; 2410M",
			want: internal.Entry{Original: "Intel Core i5&#174; 2410M", Cleaned: "Intel Core i5 2410M"},
		},
		{
			name: "entity without semicolon",
			raw:  "Intel&#153 Atom N270",
			want: internal.Entry{Original: "Intel&#153 Atom N270", Cleaned: "Intel Atom N270"},
		},
		{
			name: "n/a marker",
			raw:  "VIA Nano X2 U4025 (dual-core) (N/A)",
			want: internal.Entry{Original: "VIA Nano X2 U4025 (dual-core) (N/A)", Cleaned: "VIA Nano X2 U4025 (dual-core)"},
		},
		{
			name: "dangling fragments",
			raw:  "Intel Core i5 (N A)",
			want: internal.Entry{Original: "Intel Core i5 (N A)", Cleaned: "Intel Core i5"},
		},
		{
			name: "f marker",
			raw:  "Intel Core i3 (F) 540",
			want: internal.Entry{Original: "Intel Core i3 (F) 540", Cleaned: "Intel Core i3540"},
		},
		{
			name: "empty parens",
			raw:  "Intel Core i3 ( ) 540",
			want: internal.Entry{Original: "Intel Core i3 ( ) 540", Cleaned: "Intel Core i3 540"},
		},
		{
			name: "malformed chipset citation",
			raw:  "AMD A10-7300 #12 (Beema)",
			want: internal.Entry{Original: "AMD A10-7300 #12 (Beema)", Cleaned: "AMD A10-7300 (Beema)"},
		},
		{
			name: "newline and unicode spaces",
			raw:  "Intel\u00a0Core  i5\n2520M",
			want: internal.Entry{Original: "Intel\u00a0Core  i5 2520M", Cleaned: "Intel Core i5 2520M"},
		},
		{
			name: "quote exposed by noise removal",
			raw:  "Intel Core i5 ' (F)",
			want: internal.Entry{Original: "Intel Core i5 ' (F)", Cleaned: "Intel Core i5"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := rules.Normalize(tc.raw)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Normalize(%q) mismatch (-want +got):\n%s", tc.raw, diff)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	rules := NewRules(DefaultOptions())
	for _, raw := range sampleEntries {
		once := rules.Normalize(raw).Cleaned
		twice := rules.Normalize(once).Cleaned
		if once != twice {
			t.Fatalf("not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestNormalizeEntries(t *testing.T) {
	rules := NewRules(DefaultOptions())
	got := rules.NormalizeEntries([]string{"b (F)", "a"})
	want := []internal.Entry{
		{Original: "b (F)", Cleaned: "b"},
		{Original: "a", Cleaned: "a"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

// sampleEntries mixes clean rows with the noise seen in parts exports.
var sampleEntries = []string{
	"Intel i7 + Nvidia GeForce",
	"VIA Nano X2 U4025 (dual-core) (N/A)",
	"AMD A-Series APU (FM2+) A8-7600 AMD A88X (Bolton-D4)",
	"Intel Pentium B940 Intel HM65",
	"Intel Core i5 10500(T)",
	"Intel Core i7 10700",
	"Mobile Intel Core 2 Duo Intel GM45 Chipset",
	"Intel Core 2 Duo T6600 Nvidia GeForce 9400M",
	"AMD Athlon II X2 250 (AM3) AMD 785G",
	"AMD Phenom II X4 965 (RS880)",
	"Intel Celeron 900 (Montevina)",
	"Intel Core i5 Intel HM65 Nvidia GeForce 610M",
	"Intel Atom N270 Intel 945GSE Chipset",
	"  'Intel Core i5&#174; 2410M (N/A)'  ",
	"AMD A10-7300 #12 (Beema)",
	"Intel Core i5 (N A)",
	"Intel Core i5 ' (F)",
	"(F)(F)(N/A)",
	"Intel\u00a0Core  i5\n2520M",
	"''",
	"Intel i5",
	"Intel Core i5 (",
}
