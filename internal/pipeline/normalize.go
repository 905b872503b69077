package pipeline

import (
	"strings"

	"partsclean/internal"
	"partsclean/internal/util"
)

// Normalize strips quoting and noise from one raw entry. The returned
// Original keeps the trimmed, single-line form so the structural rules can
// match before noise removal shifts anything.
func (r *Rules) Normalize(raw string) internal.Entry {
	original := strings.ReplaceAll(strings.Trim(raw, "' "), "\n", " ")

	cleaned := r.clean(original)
	for {
		next := r.clean(cleaned)
		if next == cleaned {
			break
		}
		cleaned = next
	}
	return internal.Entry{Original: original, Cleaned: cleaned}
}

func (r *Rules) clean(s string) string {
	s = strings.ReplaceAll(strings.Trim(s, "' "), "\n", " ")
	s = r.htmlEntity.ReplaceAllString(s, "")
	s = r.noise.ReplaceAllString(s, "")
	s = util.CollapseSpaces(s)
	return r.malformedChipset.ReplaceAllString(s, "${1}")
}

// NormalizeEntries normalizes a decoded cell's entries in input order.
func (r *Rules) NormalizeEntries(raws []string) []internal.Entry {
	out := make([]internal.Entry, 0, len(raws))
	for _, raw := range raws {
		out = append(out, r.Normalize(raw))
	}
	return out
}
