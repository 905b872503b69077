package pipeline

import (
	"partsclean/internal"
	"partsclean/internal/pylit"
)

// DecodedCell is the decoder's result. Literal is false when the cell was not
// valid literal syntax and the whole string became the only entry.
type DecodedCell struct {
	Entries []string
	Literal bool
}

// DecodeCell turns one raw cell into its ordered entries. A list literal
// yields its elements, any other literal yields itself, and text that does
// not parse is kept whole so the row is never dropped. None elements are
// skipped.
func DecodeCell(cell internal.RawCell) DecodedCell {
	if cell.Missing {
		return DecodedCell{Literal: true}
	}

	v, err := pylit.Parse(cell.Value)
	if err != nil {
		return DecodedCell{Entries: []string{cell.Value}}
	}

	items := []pylit.Value{v}
	if v.Kind == pylit.KindList {
		items = v.Items
	}
	out := DecodedCell{Entries: make([]string, 0, len(items)), Literal: true}
	for _, item := range items {
		if item.IsMissing() {
			continue
		}
		out.Entries = append(out.Entries, item.String())
	}
	return out
}
