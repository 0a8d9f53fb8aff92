package jnav

import (
	"math"
	"strconv"
	"unsafe"

	"github.com/yaklabco/jnav/pkg/jsontok"
)

// maxNumberLen bounds the text of a primitive converted to a number or boolean.
const maxNumberLen = 32

// RawAt returns the source text of the token at index i without copying.
// String tokens exclude their quotes; escapes are left as written.
func (d *Document) RawAt(i int) ([]byte, error) {
	if i < 0 || i >= len(d.tokens) {
		return nil, ErrIndexOutOfBounds
	}
	return d.tokens[i].Text(d.source), nil
}

// StringAt copies the raw text of the string token at index i into buf,
// followed by a zero terminator, and returns the length of the text. buf must
// hold the text plus the terminator; nothing is written when it does not.
func (d *Document) StringAt(i int, buf []byte) (int, error) {
	tok, err := d.stringToken(i)
	if err != nil {
		return 0, err
	}

	if len(buf) < tok.Len()+1 {
		return 0, ErrBufferTooSmall
	}
	n := copy(buf, d.source[tok.Start:tok.End])
	buf[n] = 0
	return n, nil
}

// StringLenAt returns the raw byte length of the string token at index i.
func (d *Document) StringLenAt(i int) (int, error) {
	tok, err := d.stringToken(i)
	if err != nil {
		return 0, err
	}
	return tok.Len(), nil
}

// IntAt converts the primitive at index i to an int.
//
// The conversion is lenient: optional leading whitespace and sign, then as many
// digits as follow. Trailing characters are ignored, a literal without leading
// digits yields 0 and out-of-range values saturate.
func (d *Document) IntAt(i int) (int, error) {
	text, err := d.numberText(i)
	if err != nil {
		return 0, err
	}
	return parseInt(text), nil
}

// FloatAt converts the primitive at index i to a float64.
//
// The conversion is lenient: the longest prefix that reads as a decimal number
// with optional exponent is converted and the rest ignored. A literal without
// such a prefix yields 0; overflow yields an infinity.
func (d *Document) FloatAt(i int) (float64, error) {
	text, err := d.numberText(i)
	if err != nil {
		return 0, err
	}
	return parseFloat(text), nil
}

// BoolAt converts the primitive at index i to a bool. Only true, 1, false and 0
// are accepted.
func (d *Document) BoolAt(i int) (bool, error) {
	text, err := d.numberText(i)
	if err != nil {
		return false, err
	}

	switch string(text) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, ErrNotBoolean
	}
}

func (d *Document) stringToken(i int) (*jsontok.Token, error) {
	if i < 0 || i >= len(d.tokens) {
		return nil, ErrIndexOutOfBounds
	}

	tok := &d.tokens[i]
	if tok.Kind != jsontok.KindString {
		return nil, ErrNotString
	}
	return tok, nil
}

func (d *Document) numberText(i int) ([]byte, error) {
	if i < 0 || i >= len(d.tokens) {
		return nil, ErrIndexOutOfBounds
	}

	tok := &d.tokens[i]
	if tok.Kind != jsontok.KindPrimitive {
		return nil, ErrNotNumber
	}

	if tok.Len() > maxNumberLen {
		return nil, ErrBufferTooSmall
	}
	return d.source[tok.Start:tok.End], nil
}

// String copies the string stored under key in the entered object into buf.
func (c *Cursor) String(key string, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, ErrInvalidParameter
	}

	idx, err := c.Lookup(key)
	if err != nil {
		return 0, err
	}
	return c.doc.StringAt(idx, buf)
}

// StringLen returns the raw length of the string stored under key.
func (c *Cursor) StringLen(key string) (int, error) {
	idx, err := c.Lookup(key)
	if err != nil {
		return 0, err
	}
	return c.doc.StringLenAt(idx)
}

// Int returns the number stored under key as an int.
func (c *Cursor) Int(key string) (int, error) {
	idx, err := c.Lookup(key)
	if err != nil {
		return 0, err
	}
	return c.doc.IntAt(idx)
}

// Float returns the number stored under key as a float64.
func (c *Cursor) Float(key string) (float64, error) {
	idx, err := c.Lookup(key)
	if err != nil {
		return 0, err
	}
	return c.doc.FloatAt(idx)
}

// Bool returns the boolean stored under key.
func (c *Cursor) Bool(key string) (bool, error) {
	idx, err := c.Lookup(key)
	if err != nil {
		return false, err
	}
	return c.doc.BoolAt(idx)
}

// ElementString copies string element i of the entered array into buf.
func (c *Cursor) ElementString(i int, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, ErrInvalidParameter
	}

	idx, err := c.Element(i)
	if err != nil {
		return 0, err
	}
	return c.doc.StringAt(idx, buf)
}

// ElementInt returns element i of the entered array as an int.
func (c *Cursor) ElementInt(i int) (int, error) {
	idx, err := c.Element(i)
	if err != nil {
		return 0, err
	}
	return c.doc.IntAt(idx)
}

// ElementFloat returns element i of the entered array as a float64.
func (c *Cursor) ElementFloat(i int) (float64, error) {
	idx, err := c.Element(i)
	if err != nil {
		return 0, err
	}
	return c.doc.FloatAt(idx)
}

// ElementBool returns element i of the entered array as a bool.
func (c *Cursor) ElementBool(i int) (bool, error) {
	idx, err := c.Element(i)
	if err != nil {
		return false, err
	}
	return c.doc.BoolAt(idx)
}

func skipSpace(text []byte) int {
	pos := 0
	for pos < len(text) {
		switch text[pos] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			pos++
		default:
			return pos
		}
	}
	return pos
}

func parseInt(text []byte) int {
	pos := skipSpace(text)

	negative := false
	if pos < len(text) && (text[pos] == '-' || text[pos] == '+') {
		negative = text[pos] == '-'
		pos++
	}

	// Accumulate negatively so math.MinInt is reachable.
	var value int
	for ; pos < len(text) && text[pos] >= '0' && text[pos] <= '9'; pos++ {
		digit := int(text[pos] - '0')
		if value < (math.MinInt+digit)/10 {
			if negative {
				return math.MinInt
			}
			return math.MaxInt
		}
		value = value*10 - digit
	}

	if negative {
		return value
	}
	if value == math.MinInt {
		return math.MaxInt
	}
	return -value
}

func parseFloat(text []byte) float64 {
	start := skipSpace(text)
	end := floatPrefix(text[start:])
	if end == 0 {
		return 0
	}

	prefix := text[start : start+end]
	// strconv does not retain the string, so a zero-copy view is safe. The
	// prefix is well formed, so the only possible error is a range error and
	// value then already holds ±Inf or 0.
	value, _ := strconv.ParseFloat(unsafe.String(unsafe.SliceData(prefix), len(prefix)), 64)
	return value
}

// floatPrefix returns the length of the longest prefix of text shaped like
// [+-]digits[.digits][(e|E)[+-]digits], or 0 when there are no mantissa digits.
func floatPrefix(text []byte) int {
	pos := 0
	if pos < len(text) && (text[pos] == '-' || text[pos] == '+') {
		pos++
	}

	digits := 0
	for pos < len(text) && isDigit(text[pos]) {
		pos++
		digits++
	}

	if pos < len(text) && text[pos] == '.' {
		pos++
		for pos < len(text) && isDigit(text[pos]) {
			pos++
			digits++
		}
	}

	if digits == 0 {
		return 0
	}

	if pos < len(text) && (text[pos] == 'e' || text[pos] == 'E') {
		exp := pos + 1
		if exp < len(text) && (text[exp] == '-' || text[exp] == '+') {
			exp++
		}
		if exp < len(text) && isDigit(text[exp]) {
			for exp < len(text) && isDigit(text[exp]) {
				exp++
			}
			pos = exp
		}
	}

	return pos
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
