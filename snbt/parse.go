package snbt

import (
	"fmt"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"

	"mcnbt/nbt"
)

// ParseError reports a syntax failure with its byte position in the input.
type ParseError struct {
	Position int
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("snbt: %s at position %d", e.Message, e.Position)
}

type lexer struct {
	z *parse.Input
}

func (l *lexer) errf(format string, args ...any) error {
	return &ParseError{Position: l.z.Offset(), Message: fmt.Sprintf(format, args...)}
}

func (l *lexer) peek() byte {
	return l.z.Peek(0)
}

func (l *lexer) eof() bool {
	return l.z.Peek(0) == 0 && l.z.Err() != nil
}

func (l *lexer) skipSpace() {
	for {
		switch l.z.Peek(0) {
		case ' ', '\t', '\n', '\r':
			l.z.Move(1)
		default:
			return
		}
	}
}

// Parse reads one tag from the input and fails if anything but whitespace
// follows it.
func Parse(s string) (nbt.Tag, error) {
	l := &lexer{z: parse.NewInputString(s)}
	l.skipSpace()
	t, err := l.value()
	if err != nil {
		return nil, err
	}
	l.skipSpace()
	if !l.eof() {
		return nil, l.errf("trailing data")
	}
	return t, nil
}

// ParseDocument wraps Parse into a document with an empty outer name.
func ParseDocument(s string) (*nbt.Document, error) {
	t, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &nbt.Document{Root: t}, nil
}

func (l *lexer) value() (nbt.Tag, error) {
	if l.eof() {
		return nil, l.errf("unexpected end of input")
	}
	switch c := l.peek(); c {
	case '{':
		return l.compound()
	case '[':
		return l.listOrArray()
	case '"', '\'':
		s, err := l.quoted()
		if err != nil {
			return nil, err
		}
		return nbt.String(s), nil
	default:
		return l.scalar()
	}
}

func (l *lexer) compound() (nbt.Tag, error) {
	l.z.Move(1) // {
	c := nbt.NewCompound()
	l.skipSpace()
	if l.peek() == '}' {
		l.z.Move(1)
		return c, nil
	}
	for {
		l.skipSpace()
		key, err := l.key()
		if err != nil {
			return nil, err
		}
		l.skipSpace()
		if l.peek() != ':' {
			return nil, l.errf("expected ':' after key %q", key)
		}
		l.z.Move(1)
		l.skipSpace()
		v, err := l.value()
		if err != nil {
			return nil, err
		}
		c.Set(key, v)
		l.skipSpace()
		switch l.peek() {
		case ',':
			l.z.Move(1)
		case '}':
			l.z.Move(1)
			return c, nil
		default:
			return nil, l.errf("expected ',' or '}' in compound")
		}
	}
}

func (l *lexer) key() (string, error) {
	switch l.peek() {
	case '"', '\'':
		return l.quoted()
	}
	tok := l.bareToken()
	if tok == "" {
		return "", l.errf("expected key")
	}
	return tok, nil
}

func (l *lexer) listOrArray() (nbt.Tag, error) {
	l.z.Move(1) // [
	// typed array prefix: B; I; or L;
	if c := l.z.Peek(0); (c == 'B' || c == 'I' || c == 'L') && l.z.Peek(1) == ';' {
		l.z.Move(2)
		return l.typedArray(c)
	}
	l.skipSpace()
	if l.peek() == ']' {
		l.z.Move(1)
		return nbt.NewList(nbt.TypeByte), nil
	}
	var items []nbt.Tag
	for {
		l.skipSpace()
		v, err := l.value()
		if err != nil {
			return nil, err
		}
		if len(items) > 0 && v.Type() != items[0].Type() {
			return nil, l.errf("mixed list: %s and %s", items[0].Type(), v.Type())
		}
		items = append(items, v)
		l.skipSpace()
		switch l.peek() {
		case ',':
			l.z.Move(1)
		case ']':
			l.z.Move(1)
			return &nbt.List{Elem: items[0].Type(), Items: items}, nil
		default:
			return nil, l.errf("expected ',' or ']' in list")
		}
	}
}

func (l *lexer) typedArray(kind byte) (nbt.Tag, error) {
	var (
		bytes []byte
		ints  []int32
		longs []int64
	)
	l.skipSpace()
	if l.peek() == ']' {
		l.z.Move(1)
	} else {
	loop:
		for {
			l.skipSpace()
			tok := l.bareToken()
			if tok == "" {
				return nil, l.errf("expected number in array")
			}
			v, err := parseArrayInt(tok, kind)
			if err != nil {
				return nil, l.errf("%v", err)
			}
			switch kind {
			case 'B':
				bytes = append(bytes, byte(int8(v)))
			case 'I':
				ints = append(ints, int32(v))
			case 'L':
				longs = append(longs, v)
			}
			l.skipSpace()
			switch l.peek() {
			case ',':
				l.z.Move(1)
			case ']':
				l.z.Move(1)
				break loop
			default:
				return nil, l.errf("expected ',' or ']' in array")
			}
		}
	}
	switch kind {
	case 'B':
		return nbt.ByteArray(bytes), nil
	case 'I':
		return nbt.IntArray(ints), nil
	default:
		return nbt.LongArray(longs), nil
	}
}

func parseArrayInt(tok string, kind byte) (int64, error) {
	s := tok
	// optional per-element suffix: 1b in [B;...], 1L in [L;...]
	if n := len(s); n > 1 {
		switch last := s[n-1]; {
		case kind == 'B' && (last == 'b' || last == 'B'):
			s = s[:n-1]
		case kind == 'L' && (last == 'l' || last == 'L'):
			s = s[:n-1]
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad array element %q", tok)
	}
	var bits int
	switch kind {
	case 'B':
		bits = 8
	case 'I':
		bits = 32
	default:
		bits = 64
	}
	if _, err := strconv.ParseInt(s, 10, bits); err != nil {
		return 0, fmt.Errorf("array element %q out of range", tok)
	}
	return v, nil
}

func (l *lexer) quoted() (string, error) {
	quote := l.peek()
	l.z.Move(1)
	var b strings.Builder
	for {
		if l.eof() {
			return "", l.errf("unterminated string")
		}
		c := l.peek()
		l.z.Move(1)
		switch c {
		case quote:
			return b.String(), nil
		case '\\':
			if l.eof() {
				return "", l.errf("unterminated escape")
			}
			e := l.peek()
			l.z.Move(1)
			switch e {
			case '\\', '"', '\'':
				b.WriteByte(e)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				return "", l.errf("unknown escape '\\%c'", e)
			}
		default:
			b.WriteByte(c)
		}
	}
}

func isTokenByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		return true
	case c == '_', c == '-', c == '.', c == '+':
		return true
	}
	return false
}

func (l *lexer) bareToken() string {
	l.z.Shift()
	for isTokenByte(l.peek()) {
		l.z.Move(1)
	}
	return string(l.z.Shift())
}

func (l *lexer) scalar() (nbt.Tag, error) {
	tok := l.bareToken()
	if tok == "" {
		return nil, l.errf("unexpected character %q", string(rune(l.peek())))
	}
	switch tok {
	case "true":
		return nbt.Byte(1), nil
	case "false":
		return nbt.Byte(0), nil
	}
	if t, ok := numericTag(tok); ok {
		return t, nil
	}
	// bare word that is not a number reads as a string
	return nbt.String(tok), nil
}

func numericTag(tok string) (nbt.Tag, bool) {
	if tok == "" {
		return nil, false
	}
	body, suffix := tok, byte(0)
	switch c := tok[len(tok)-1]; c {
	case 'b', 'B', 's', 'S', 'l', 'L', 'f', 'F', 'd', 'D':
		body, suffix = tok[:len(tok)-1], c|0x20 // lower case
	}
	if body == "" {
		return nil, false
	}

	switch suffix {
	case 'b':
		v, err := strconv.ParseInt(body, 10, 8)
		if err != nil {
			return nil, false
		}
		return nbt.Byte(v), true
	case 's':
		v, err := strconv.ParseInt(body, 10, 16)
		if err != nil {
			return nil, false
		}
		return nbt.Short(v), true
	case 'l':
		v, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return nil, false
		}
		return nbt.Long(v), true
	case 'f':
		v, err := strconv.ParseFloat(body, 32)
		if err != nil {
			return nil, false
		}
		return nbt.Float(v), true
	case 'd':
		v, err := strconv.ParseFloat(body, 64)
		if err != nil {
			return nil, false
		}
		return nbt.Double(v), true
	default:
		if v, err := strconv.ParseInt(tok, 10, 32); err == nil {
			return nbt.Int(v), true
		}
		// unsuffixed literals with a decimal point or exponent are doubles
		if strings.ContainsAny(tok, ".eE") {
			if v, err := strconv.ParseFloat(tok, 64); err == nil {
				return nbt.Double(v), true
			}
		}
		return nil, false
	}
}
