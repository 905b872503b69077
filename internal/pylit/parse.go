package pylit

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var ErrSyntax = errors.New("pylit: malformed literal")

type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pylit: %s at offset %d", e.Msg, e.Offset)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

var (
	reDecInt = regexp.MustCompile(`^(?:[1-9](?:_?[0-9])*|0(?:_?0)*)$`)
	reHexInt = regexp.MustCompile(`^0[xX](?:_?[0-9a-fA-F])+$`)
	reOctInt = regexp.MustCompile(`^0[oO](?:_?[0-7])+$`)
	reBinInt = regexp.MustCompile(`^0[bB](?:_?[01])+$`)
	reFloat  = regexp.MustCompile(`^(?:(?:[0-9](?:_?[0-9])*)?\.[0-9](?:_?[0-9])*|[0-9](?:_?[0-9])*\.?)(?:[eE][+-]?[0-9](?:_?[0-9])*)?$`)
)

// Parse evaluates a literal expression made of strings, numbers, None,
// booleans, lists and tuples. A top-level comma list such as `'a', 'b'` is a
// tuple. Sets, dicts, bytes, f-strings and complex numbers are rejected with
// an error wrapping ErrSyntax.
func Parse(src string) (Value, error) {
	p := &parser{src: strings.TrimLeft(src, " \t")}
	p.skipAll()
	if p.eof() {
		return Value{}, p.errorf("empty expression")
	}
	v, err := p.value()
	if err != nil {
		return Value{}, err
	}
	p.skip()
	if p.peek() == ',' {
		p.pos++
		if v, err = p.tupleRest(v, 0); err != nil {
			return Value{}, err
		}
	}
	p.skipAll()
	if !p.eof() {
		return Value{}, p.errorf("unexpected %q", p.src[p.pos:p.pos+1])
	}
	return v, nil
}

type parser struct {
	src   string
	pos   int
	depth int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

// skip consumes insignificant whitespace and comments. Line breaks only count
// as whitespace inside brackets.
func (p *parser) skip() {
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\f':
			p.pos++
		case (c == '\n' || c == '\r') && p.depth > 0:
			p.pos++
		case c == '\\' && strings.HasPrefix(p.src[p.pos+1:], "\n"):
			p.pos += 2
		case c == '\\' && strings.HasPrefix(p.src[p.pos+1:], "\r\n"):
			p.pos += 3
		case c == '#':
			for !p.eof() && p.src[p.pos] != '\n' && p.src[p.pos] != '\r' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) skipAll() {
	depth := p.depth
	p.depth = 1
	p.skip()
	p.depth = depth
}

func (p *parser) value() (Value, error) {
	p.skip()
	if p.eof() {
		return Value{}, p.errorf("unexpected end of input")
	}
	c := p.peek()
	switch {
	case c == '[':
		return p.list()
	case c == '(':
		return p.paren()
	case c == '{':
		return Value{}, p.errorf("sets and dicts are not supported")
	case c == '-' || c == '+':
		p.pos++
		p.skip()
		if !p.startsNumber() {
			return Value{}, p.errorf("unary %q needs a number", c)
		}
		v, err := p.number()
		if err != nil || c == '+' {
			return v, err
		}
		switch v.Kind {
		case KindInt:
			v.Int.Neg(v.Int)
		case KindFloat:
			v.Float = -v.Float
		}
		return v, nil
	case p.startsNumber():
		return p.number()
	case p.startsString():
		return p.stringSeq()
	case isIdentStart(c):
		return p.name()
	}
	return Value{}, p.errorf("unexpected %q", string(c))
}

func (p *parser) list() (Value, error) {
	p.pos++
	p.depth++
	defer func() { p.depth-- }()

	items := []Value{}
	for {
		p.skip()
		if p.peek() == ']' {
			p.pos++
			return Value{Kind: KindList, Items: items}, nil
		}
		v, err := p.value()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
		p.skip()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return Value{Kind: KindList, Items: items}, nil
		default:
			return Value{}, p.errorf("expected ',' or ']'")
		}
	}
}

func (p *parser) paren() (Value, error) {
	p.pos++
	p.depth++
	defer func() { p.depth-- }()

	p.skip()
	if p.peek() == ')' {
		p.pos++
		return Value{Kind: KindTuple, Items: []Value{}}, nil
	}
	first, err := p.value()
	if err != nil {
		return Value{}, err
	}
	p.skip()
	switch p.peek() {
	case ')':
		p.pos++
		return first, nil
	case ',':
		p.pos++
	default:
		return Value{}, p.errorf("expected ',' or ')'")
	}
	return p.tupleRest(first, ')')
}

// tupleRest reads the elements after a tuple's first comma up to closer. A
// zero closer marks a bare top-level tuple, which ends at the end of input.
func (p *parser) tupleRest(first Value, closer byte) (Value, error) {
	items := []Value{first}
	for {
		p.skip()
		if p.closes(closer) {
			return Value{Kind: KindTuple, Items: items}, nil
		}
		v, err := p.value()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
		p.skip()
		switch {
		case p.peek() == ',':
			p.pos++
		case p.closes(closer):
			return Value{Kind: KindTuple, Items: items}, nil
		case closer == 0:
			return Value{}, p.errorf("expected ','")
		default:
			return Value{}, p.errorf("expected ',' or %q", closer)
		}
	}
}

// closes consumes closer when it is next. With a zero closer it reports
// whether only trailing blanks remain.
func (p *parser) closes(closer byte) bool {
	if closer != 0 {
		if p.peek() == closer {
			p.pos++
			return true
		}
		return false
	}
	mark := p.pos
	p.skipAll()
	if p.eof() {
		return true
	}
	p.pos = mark
	return false
}

func (p *parser) name() (Value, error) {
	start := p.pos
	for !p.eof() && (isIdentStart(p.peek()) || isDigit(p.peek())) {
		p.pos++
	}
	switch ident := p.src[start:p.pos]; ident {
	case "None":
		return Value{Kind: KindNone}, nil
	case "True":
		return Value{Kind: KindBool, Bool: true}, nil
	case "False":
		return Value{Kind: KindBool, Bool: false}, nil
	default:
		p.pos = start
		return Value{}, p.errorf("malformed node %q", ident)
	}
}

func (p *parser) startsNumber() bool {
	c := p.peek()
	if isDigit(c) {
		return true
	}
	return c == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1])
}

func (p *parser) number() (Value, error) {
	start := p.pos
	radix := strings.HasPrefix(p.src[p.pos:], "0x") || strings.HasPrefix(p.src[p.pos:], "0X") ||
		strings.HasPrefix(p.src[p.pos:], "0o") || strings.HasPrefix(p.src[p.pos:], "0O") ||
		strings.HasPrefix(p.src[p.pos:], "0b") || strings.HasPrefix(p.src[p.pos:], "0B")
	for !p.eof() {
		c := p.peek()
		if isDigit(c) || isIdentStart(c) || c == '.' {
			p.pos++
			continue
		}
		if (c == '+' || c == '-') && !radix && p.pos > start && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	tok := p.src[start:p.pos]
	digits := strings.ReplaceAll(tok, "_", "")

	switch {
	case reDecInt.MatchString(tok):
		n, _ := new(big.Int).SetString(digits, 10)
		return Value{Kind: KindInt, Int: n}, nil
	case reHexInt.MatchString(tok):
		n, _ := new(big.Int).SetString(digits[2:], 16)
		return Value{Kind: KindInt, Int: n}, nil
	case reOctInt.MatchString(tok):
		n, _ := new(big.Int).SetString(digits[2:], 8)
		return Value{Kind: KindInt, Int: n}, nil
	case reBinInt.MatchString(tok):
		n, _ := new(big.Int).SetString(digits[2:], 2)
		return Value{Kind: KindInt, Int: n}, nil
	case reFloat.MatchString(tok):
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			p.pos = start
			return Value{}, p.errorf("invalid float %q", tok)
		}
		return Value{Kind: KindFloat, Float: f}, nil
	}
	p.pos = start
	return Value{}, p.errorf("invalid number %q", tok)
}

// startsString reports whether a string literal (with an optional r/u prefix)
// begins at the current position.
func (p *parser) startsString() bool {
	rest := p.src[p.pos:]
	for i := 0; i < len(rest) && i < 3; i++ {
		switch rest[i] {
		case '\'', '"':
			return true
		case 'r', 'R', 'u', 'U', 'b', 'B', 'f', 'F':
			continue
		default:
			return false
		}
	}
	return false
}

// stringSeq reads one or more adjacent string literals and concatenates them.
func (p *parser) stringSeq() (Value, error) {
	var b strings.Builder
	for {
		if err := p.stringLiteral(&b); err != nil {
			return Value{}, err
		}
		mark := p.pos
		p.skip()
		if p.eof() || !p.startsString() {
			p.pos = mark
			return Value{Kind: KindString, Str: b.String()}, nil
		}
	}
}

func (p *parser) stringLiteral(b *strings.Builder) error {
	start := p.pos
	raw := false
	for !p.eof() && p.peek() != '\'' && p.peek() != '"' {
		switch p.peek() {
		case 'r', 'R':
			raw = true
		case 'u', 'U':
		default:
			return p.errorf("unsupported string prefix")
		}
		p.pos++
	}
	if prefix := strings.ToLower(p.src[start:p.pos]); prefix != "" && prefix != "r" && prefix != "u" {
		p.pos = start
		return p.errorf("unsupported string prefix %q", prefix)
	}

	quote := p.src[p.pos : p.pos+1]
	if strings.HasPrefix(p.src[p.pos:], strings.Repeat(quote, 3)) {
		quote = strings.Repeat(quote, 3)
	}
	p.pos += len(quote)
	triple := len(quote) == 3

	for {
		if p.eof() {
			return p.errorf("unterminated string")
		}
		if strings.HasPrefix(p.src[p.pos:], quote) {
			p.pos += len(quote)
			return nil
		}
		c := p.peek()
		if (c == '\n' || c == '\r') && !triple {
			return p.errorf("unterminated string")
		}
		if c != '\\' {
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
			continue
		}
		if p.pos+1 >= len(p.src) {
			return p.errorf("unterminated string")
		}
		if raw {
			r, size := utf8.DecodeRuneInString(p.src[p.pos+1:])
			b.WriteByte('\\')
			b.WriteRune(r)
			p.pos += 1 + size
			continue
		}
		if err := p.escape(b); err != nil {
			return err
		}
	}
}

func (p *parser) escape(b *strings.Builder) error {
	p.pos++
	c := p.peek()
	p.pos++
	switch c {
	case '\n':
	case '\r':
		if p.peek() == '\n' {
			p.pos++
		}
	case '\\', '\'', '"':
		b.WriteByte(c)
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'v':
		b.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := int(c - '0')
		for i := 0; i < 2 && !p.eof() && p.peek() >= '0' && p.peek() <= '7'; i++ {
			n = n*8 + int(p.peek()-'0')
			p.pos++
		}
		b.WriteRune(rune(n))
	case 'x':
		return p.hexEscape(b, 2)
	case 'u':
		return p.hexEscape(b, 4)
	case 'U':
		return p.hexEscape(b, 8)
	case 'N':
		return p.errorf("named unicode escapes are not supported")
	default:
		p.pos--
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		b.WriteByte('\\')
		b.WriteRune(r)
		p.pos += size
	}
	return nil
}

func (p *parser) hexEscape(b *strings.Builder, width int) error {
	if p.pos+width > len(p.src) {
		return p.errorf("truncated escape")
	}
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+width], 16, 32)
	if err != nil || n > utf8.MaxRune {
		return p.errorf("invalid escape")
	}
	p.pos += width
	b.WriteRune(rune(n))
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
