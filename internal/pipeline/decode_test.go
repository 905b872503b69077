package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"partsclean/internal"
)

func TestDecodeCell(t *testing.T) {
	cases := []struct {
		name string
		cell internal.RawCell
		want DecodedCell
	}{
		{name: "missing", cell: internal.MissingCell(), want: DecodedCell{Literal: true}},
		{name: "list", cell: internal.CellOf("['Intel Core i5', 'Intel HM65']"), want: DecodedCell{Entries: []string{"Intel Core i5", "Intel HM65"}, Literal: true}},
		{name: "empty list", cell: internal.CellOf("[]"), want: DecodedCell{Literal: true}},
		{name: "none skipped", cell: internal.CellOf("['Intel Core i5', None]"), want: DecodedCell{Entries: []string{"Intel Core i5"}, Literal: true}},
		{name: "scalar string", cell: internal.CellOf("'Intel Core i7 10700'"), want: DecodedCell{Entries: []string{"Intel Core i7 10700"}, Literal: true}},
		{name: "scalar number", cell: internal.CellOf("42"), want: DecodedCell{Entries: []string{"42"}, Literal: true}},
		{name: "float", cell: internal.CellOf("[2.0, 1e20]"), want: DecodedCell{Entries: []string{"2.0", "1e+20"}, Literal: true}},
		{name: "tuple stays whole", cell: internal.CellOf("('a', 'b')"), want: DecodedCell{Entries: []string{"('a', 'b')"}, Literal: true}},
		{name: "bare tuple", cell: internal.CellOf("'Intel Core i7', 'Intel Core i5'"), want: DecodedCell{Entries: []string{"('Intel Core i7', 'Intel Core i5')"}, Literal: true}},
		{name: "nested list stringified", cell: internal.CellOf("[['a']]"), want: DecodedCell{Entries: []string{"['a']"}, Literal: true}},
		{name: "bare text", cell: internal.CellOf("Intel Core i5 2410M"), want: DecodedCell{Entries: []string{"Intel Core i5 2410M"}}},
		{name: "broken list", cell: internal.CellOf("['Intel Core i5', 'Intel HM65'"), want: DecodedCell{Entries: []string{"['Intel Core i5', 'Intel HM65'"}}},
		{name: "set", cell: internal.CellOf("{'Intel Core i5'}"), want: DecodedCell{Entries: []string{"{'Intel Core i5'}"}}},
		{name: "none literal", cell: internal.CellOf("None"), want: DecodedCell{Literal: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodeCell(tc.cell)
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("DecodeCell mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
