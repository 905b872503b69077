package pipeline

import (
	"fmt"

	"partsclean/internal"
	"partsclean/internal/pylit"
)

// Explanation traces one input through every stage for the parse and cell
// commands.
type Explanation struct {
	Entries  []internal.Entry
	Segments []internal.Segment
	Result   internal.RowResult
}

func (r *Rules) Explain(inputType string, input string) (Explanation, error) {
	var cell internal.RawCell
	switch inputType {
	case "entry":
		e := r.Normalize(input)
		seg := r.Segment(e)
		return Explanation{
			Entries:  []internal.Entry{e},
			Segments: []internal.Segment{seg},
			Result:   r.ProcessCell(internal.CellOf(pylit.FormatList([]string{input}))),
		}, nil
	case "cell":
		cell = internal.CellOf(input)
	case "missing":
		cell = internal.MissingCell()
	default:
		return Explanation{}, fmt.Errorf("unsupported input type: %s", inputType)
	}

	out := Explanation{Result: r.ProcessCell(cell)}
	if cell.Missing {
		return out, nil
	}
	out.Entries = r.NormalizeEntries(DecodeCell(cell).Entries)
	out.Segments = make([]internal.Segment, 0, len(out.Entries))
	for _, e := range out.Entries {
		out.Segments = append(out.Segments, r.Segment(e))
	}
	return out, nil
}
