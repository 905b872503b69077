// Package pylit reads and writes the Python literal syntax that the parts
// export uses to embed lists of strings inside a single CSV cell.
package pylit

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

type Kind int

const (
	KindNone Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindTuple
)

// Value is a parsed literal. Only the field matching Kind is meaningful.
type Value struct {
	Kind  Kind
	Str   string
	Int   *big.Int
	Float float64
	Bool  bool
	Items []Value
}

// IsMissing reports whether the value is None or a float NaN, the two values
// a pandas isna check treats as absent.
func (v Value) IsMissing() bool {
	return v.Kind == KindNone || (v.Kind == KindFloat && math.IsNaN(v.Float))
}

// String renders the value the way Python's str() does: strings come back
// unquoted, everything else uses its repr.
func (v Value) String() string {
	if v.Kind == KindString {
		return v.Str
	}
	return v.Repr()
}

func (v Value) Repr() string {
	switch v.Kind {
	case KindNone:
		return "None"
	case KindString:
		return Quote(v.Str)
	case KindInt:
		if v.Int == nil {
			return "0"
		}
		return v.Int.String()
	case KindFloat:
		return FormatFloat(v.Float)
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case KindList:
		return "[" + joinRepr(v.Items) + "]"
	case KindTuple:
		if len(v.Items) == 1 {
			return "(" + v.Items[0].Repr() + ",)"
		}
		return "(" + joinRepr(v.Items) + ")"
	}
	return ""
}

func joinRepr(items []Value) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.Repr())
	}
	return strings.Join(parts, ", ")
}

// FormatFloat matches Python's float repr: shortest round-trip digits,
// positional between 1e-4 and 1e16, and always carrying a decimal point or
// exponent.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}

	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(fixed, '.') {
		fixed += ".0"
	}
	return fixed
}
