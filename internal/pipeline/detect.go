package pipeline

import (
	"strings"
)

// AutoColumn asks the service to pick the processor column by content.
const AutoColumn = "auto"

const (
	detectSampleRows = 50
	detectThreshold  = 0.45
)

type DetectResult struct {
	Column string
	Index  int
	Score  float64
	Reason string
}

var (
	detectHeaderKeywords = []string{"processor", "cpu", "процессор"}
	detectVendorKeywords = []string{"intel", "amd", "nvidia", "via nano", "celeron", "pentium", "athlon", "sempron"}
)

// DetectProcessorColumn scores every column by its header and by how many of
// the first sampled values mention a known vendor or family. Index is -1 when
// no column scores at least detectThreshold.
func DetectProcessorColumn(t *Table) DetectResult {
	best := DetectResult{Index: -1, Reason: "rules_negative"}
	for col, header := range t.Header {
		score := 0.0
		h := strings.ToLower(header)
		for _, kw := range detectHeaderKeywords {
			if strings.Contains(h, kw) {
				score += 0.5
				break
			}
		}

		sampled, hits := 0, 0
		for row := 0; row < len(t.Rows) && sampled < detectSampleRows; row++ {
			cell := t.Cell(row, col)
			if cell.Missing {
				continue
			}
			sampled++
			if mentionsVendor(cell.Value) {
				hits++
			}
		}
		if sampled > 0 {
			score += 0.5 * float64(hits) / float64(sampled)
		}
		if score > 1 {
			score = 1
		}

		if score > best.Score {
			best = DetectResult{Column: header, Index: col, Score: score}
		}
	}

	if best.Index < 0 || best.Score < detectThreshold {
		return DetectResult{Index: -1, Score: best.Score, Reason: "rules_negative"}
	}
	best.Reason = "rules_positive"
	return best
}

func mentionsVendor(value string) bool {
	v := strings.ToLower(value)
	for _, kw := range detectVendorKeywords {
		if strings.Contains(v, kw) {
			return true
		}
	}
	return false
}
