package pipeline

import (
	"sort"

	"partsclean/internal"
	"partsclean/internal/pylit"
	"partsclean/internal/util"
)

const emptyList = "[]"

// ProcessCell runs one cell through decode, normalize and segment, then
// renders the union of processors and chipsets as sorted list literals.
func (r *Rules) ProcessCell(cell internal.RawCell) internal.RowResult {
	if cell.Missing {
		return internal.RowResult{ProcessorsRendered: emptyList, ChipsetsRendered: emptyList}
	}

	decoded := DecodeCell(cell)
	processors := map[string]struct{}{}
	chipsets := map[string]struct{}{}
	for _, entry := range r.NormalizeEntries(decoded.Entries) {
		seg := r.Segment(entry)
		for _, p := range seg.Processors {
			processors[p] = struct{}{}
		}
		if chip := util.Strip(seg.Chipset); chip != "" {
			chipsets[chip] = struct{}{}
		}
	}

	res := internal.RowResult{
		Processors: sortedKeys(processors),
		Chipsets:   sortedKeys(chipsets),
		Malformed:  !decoded.Literal,
	}
	res.ProcessorsRendered = pylit.FormatList(res.Processors)
	res.ChipsetsRendered = pylit.FormatList(res.Chipsets)
	return res
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
