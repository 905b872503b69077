package pipeline

import (
	"regexp"
	"strings"

	"partsclean/internal/util"
)

var DefaultSpecialProcessors = []string{
	"Intel Celeron",
	"Intel Pentium",
	"AMD Sempron",
	"AMD Athlon",
	"VIA Nano",
}

type Options struct {
	// SpecialProcessors lists processor families whose trailing
	// parenthetical is kept on the processor when no chipset vendor precedes
	// it. Nil selects DefaultSpecialProcessors.
	SpecialProcessors   []string
	EnablePlusSeparator bool
}

func DefaultOptions() Options {
	return Options{EnablePlusSeparator: true}
}

// Rules holds the compiled pattern tables of the normalizer and segmenter.
// It is immutable once built and safe to share between goroutines.
type Rules struct {
	special       []string
	plusSeparator bool

	htmlEntity       *regexp.Regexp
	noise            *regexp.Regexp
	malformedChipset *regexp.Regexp

	apuFamily    *regexp.Regexp
	plusSplit    *regexp.Regexp
	socket       *regexp.Regexp
	socketStrip  *regexp.Regexp
	vendorInfix  *regexp.Regexp
	trailingChip *regexp.Regexp
	trailingGPU  *regexp.Regexp
	trailingCode *regexp.Regexp
	vendorPair   *regexp.Regexp
	vendorPrefix *regexp.Regexp
}

func NewRules(opts Options) *Rules {
	special := opts.SpecialProcessors
	if special == nil {
		special = DefaultSpecialProcessors
	}
	lowered := make([]string, 0, len(special))
	for _, name := range special {
		if name = strings.ToLower(util.CollapseSpaces(name)); name != "" {
			lowered = append(lowered, name)
		}
	}

	sp := util.SpaceClass
	return &Rules{
		special:       lowered,
		plusSeparator: opts.EnablePlusSeparator,

		htmlEntity:       regexp.MustCompile(`&#\d+;?`),
		malformedChipset: regexp.MustCompile(`#\d+\s*(\([A-Za-z0-9-]+\))`),

		noise: regexp.MustCompile(
			sp + `*\(N/A\)` + sp + `*|` +
				sp + `*\(N` + sp + `*|` +
				sp + `*A\)` + sp + `*|` +
				sp + `*\(F\)` + sp + `*|` +
				`\(` + sp + `*\)`),

		apuFamily: regexp.MustCompile(`(?i)^(AMD` + sp + `+A-Series` + sp + `+APU)` + sp + `*` +
			`(\(FM\d+\+?\))` + sp + `*` +
			`([A-Z0-9-]+[KkTt]?)` + sp + `*` +
			`(AMD` + sp + `+[A-Z0-9]+)` + sp + `*` +
			`(\([A-Za-z0-9-]+\))$`),

		plusSplit:    regexp.MustCompile(`^([^+]+?)` + sp + `+\+` + sp + `+([^+]+)$`),
		socket:       regexp.MustCompile(`\((FM\d+\+?|AM\d+\+?)\)`),
		socketStrip:  regexp.MustCompile(`\s*\((?:FM\d+\+?|AM\d+\+?)\)\s*`),
		vendorInfix:  regexp.MustCompile(`(?i)\s(Intel|AMD|Nvidia)\s`),
		trailingChip: regexp.MustCompile(`(?i)(Intel|AMD|Nvidia)\s+[A-Za-z0-9-]+(?:\s*\([A-Za-z0-9-]+\))?\s*(Chipset|SoC|Series)?$`),
		trailingGPU:  regexp.MustCompile(`(?i)(Nvidia)\s+(GeForce|nForce)\s+\d+[a-zA-Z]?\s*(Series)?$`),
		trailingCode: regexp.MustCompile(`\(([A-Za-z0-9-]{2,})\)$`),
		vendorPair:   regexp.MustCompile(`(?i)(Intel|AMD|Nvidia)\s+([A-Z0-9]+)\s*$`),
		vendorPrefix: regexp.MustCompile(`(?i)^(Intel|AMD|Nvidia)\s+([A-Za-z0-9]+(?:\s+[A-Za-z0-9]+)*)\s*`),
	}
}

// isSpecial reports whether the candidate starts with a configured special
// processor family.
func (r *Rules) isSpecial(candidate string) bool {
	lower := strings.ToLower(candidate)
	for _, family := range r.special {
		if strings.HasPrefix(lower, family) {
			return true
		}
	}
	return false
}
