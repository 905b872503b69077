package pipeline

import (
	"fmt"
	"strings"

	"partsclean/internal"
	"partsclean/internal/util"
)

const minProcessorLen = 8

// Segment splits a normalized entry into at most one processor name and an
// optional chipset. Rules are tried from the most structural to the most
// generic and the first match decides; an entry nothing recognizes becomes a
// processor candidate with no chipset.
func (r *Rules) Segment(e internal.Entry) internal.Segment {
	if m := r.apuFamily.FindStringSubmatch(e.Original); m != nil {
		return internal.Segment{
			Processors: []string{util.Strip(util.Strip(m[1]) + " " + util.Strip(m[2]) + " " + util.Strip(m[3]))},
			Chipset:    util.Strip(util.Strip(m[4]) + " " + util.Strip(m[5])),
			Rule:       internal.RuleAPUFamily,
		}
	}

	if r.plusSeparator {
		if m := r.plusSplit.FindStringSubmatch(util.Strip(e.Original)); m != nil {
			return internal.Segment{
				Processors: []string{util.Strip(m[1])},
				Chipset:    util.Strip(m[2]),
				Rule:       internal.RulePlusSeparator,
			}
		}
	}

	s := e.Cleaned
	socket := ""
	if m := r.socket.FindStringSubmatch(s); m != nil {
		socket = m[1]
		s = util.Strip(r.socketStrip.ReplaceAllString(s, " "))
	}

	chipset, candidate, rule := r.splitChipset(s)
	base, model := r.splitVendorPrefix(candidate)

	name := util.Strip(base + " " + model)
	if socket != "" && !strings.Contains(name, "("+socket+")") {
		name += " (" + socket + ")"
	}

	seg := internal.Segment{Chipset: chipset, Rule: rule}
	if util.RuneLen(util.Strip(name)) > minProcessorLen && !strings.HasSuffix(name, "(") {
		seg.Processors = []string{util.CollapseSpaces(name)}
	}
	return seg
}

// splitChipset returns the chipset, the remaining processor candidate and the
// rule that separated them.
func (r *Rules) splitChipset(s string) (string, string, internal.SegmentRule) {
	// A second standalone vendor mention starts the chipset. Anything past
	// the second mention stays with the chipset, however many vendors follow.
	if locs := r.vendorInfix.FindAllStringIndex(s, 2); len(locs) == 2 {
		start := locs[1][0] + 1
		return util.Strip(s[start:]), util.Strip(s[:locs[1][0]]), internal.RuleSecondVendor
	}

	if loc := r.trailingChip.FindStringIndex(s); loc != nil {
		return util.Strip(s[loc[0]:loc[1]]), util.Strip(s[:loc[0]]), internal.RuleTrailingVendor
	}
	if loc := r.trailingGPU.FindStringIndex(s); loc != nil {
		return util.Strip(s[loc[0]:loc[1]]), util.Strip(s[:loc[0]]), internal.RuleTrailingNvidia
	}

	if m := r.trailingCode.FindStringSubmatchIndex(s); m != nil {
		code := s[m[2]:m[3]]
		candidate := util.Strip(s[:m[0]])
		if pair := r.vendorPair.FindStringSubmatchIndex(candidate); pair != nil {
			chipset := fmt.Sprintf("%s %s (%s)", candidate[pair[2]:pair[3]], candidate[pair[4]:pair[5]], code)
			return chipset, util.Strip(candidate[:pair[0]]), internal.RuleTrailingCode
		}
		if r.isSpecial(candidate) {
			return "", s, internal.RuleTrailingCode
		}
		return "AMD (" + code + ")", candidate, internal.RuleTrailingCode
	}

	return "", s, internal.RuleFallback
}

// splitVendorPrefix separates a leading "<vendor> <tokens>" run from the rest
// of the candidate. The prefix is rebuilt with a single space after the
// vendor and exactly that many bytes are cut from the candidate.
func (r *Rules) splitVendorPrefix(candidate string) (string, string) {
	m := r.vendorPrefix.FindStringSubmatch(candidate)
	if m == nil {
		return "", util.Strip(candidate)
	}
	base := util.Strip(m[1] + " " + m[2])
	return base, util.Strip(candidate[len(base):])
}
