package util

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SpaceClass is a regexp character class matching the characters Python's
// str.isspace accepts. RE2's \s only covers ASCII whitespace, which would let
// NBSP and friends survive collapsing.
const SpaceClass = `[\t\n\v\f\r\x1c-\x1f \x{85}\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}]`

var reSpaces = regexp.MustCompile(SpaceClass + `+`)

func IsSpace(r rune) bool {
	switch {
	case r >= '\t' && r <= '\r', r >= 0x1c && r <= 0x1f, r == ' ':
		return true
	case r == 0x85, r == 0xa0, r == 0x1680:
		return true
	case r >= 0x2000 && r <= 0x200a:
		return true
	case r == 0x2028, r == 0x2029, r == 0x202f, r == 0x205f, r == 0x3000:
		return true
	}
	return false
}

// Strip trims whitespace from both ends using the same set as IsSpace.
func Strip(input string) string {
	return strings.TrimFunc(input, IsSpace)
}

// CollapseSpaces replaces every whitespace run with one space and strips the
// ends.
func CollapseSpaces(input string) string {
	return Strip(reSpaces.ReplaceAllString(input, " "))
}

func RuneLen(input string) int {
	return utf8.RuneCountInString(input)
}

// naTokens mirrors the strings pandas.read_csv treats as missing by default.
var naTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsMissing reports whether a raw tabular cell should be read as absent.
func IsMissing(cell string) bool {
	_, ok := naTokens[cell]
	return ok
}

func StringPtr(v string) *string { return &v }
