// Package tokenizer provides a single-pass JSON tokenizer that fills a
// caller-owned token slice with the pre-order layout defined by jsontok.
//
// The tokenizer never allocates token storage of its own: the caller decides
// the capacity up front (Count reports the exact number needed) and receives
// ErrCapacityExceeded when the slice is too small.
package tokenizer

import (
	"errors"
	"fmt"

	"github.com/yaklabco/jnav/pkg/jsontok"
)

var (
	// ErrSyntax indicates malformed JSON.
	ErrSyntax = errors.New("syntax error")

	// ErrCapacityExceeded indicates the token slice is too small for the document.
	ErrCapacityExceeded = errors.New("token capacity exceeded")

	// ErrIncomplete indicates the input ended before the document was complete.
	ErrIncomplete = errors.New("incomplete document")

	// ErrTooDeep indicates nesting deeper than the configured maximum.
	ErrTooDeep = errors.New("nesting too deep")
)

const (
	// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is zero.
	DefaultMaxDepth = 512

	// MaxDepthLimit is the largest nesting limit the tokenizer supports.
	MaxDepthLimit = 4096
)

// Options controls tokenizer behavior.
type Options struct {
	// MaxDepth bounds container nesting. Zero means DefaultMaxDepth; values
	// above MaxDepthLimit are clamped.
	MaxDepth int
}

func (o Options) effectiveMaxDepth() int {
	switch {
	case o.MaxDepth <= 0:
		return DefaultMaxDepth
	case o.MaxDepth > MaxDepthLimit:
		return MaxDepthLimit
	default:
		return o.MaxDepth
	}
}

// Tokenizer is a reusable, stateless tokenizer configured with Options.
// It is safe for concurrent use.
type Tokenizer struct {
	opts Options
}

// New creates a Tokenizer with the given options.
func New(opts Options) *Tokenizer {
	return &Tokenizer{opts: opts}
}

// Tokenize fills tokens with the document in content and returns the number
// of tokens written. The length of tokens is the capacity.
func (z *Tokenizer) Tokenize(content []byte, tokens []jsontok.Token) (int, error) {
	tok := tokenizer{
		content:  content,
		tokens:   tokens,
		fill:     true,
		super:    jsontok.NoParent,
		lastKey:  jsontok.NoParent,
		maxDepth: z.opts.effectiveMaxDepth(),
	}
	if err := tok.tokenize(); err != nil {
		return 0, err
	}
	return tok.count, nil
}

// Count returns the number of tokens content needs without storing them.
func (z *Tokenizer) Count(content []byte) (int, error) {
	tok := tokenizer{
		content:  content,
		super:    jsontok.NoParent,
		lastKey:  jsontok.NoParent,
		maxDepth: z.opts.effectiveMaxDepth(),
	}
	if err := tok.tokenize(); err != nil {
		return 0, err
	}
	return tok.count, nil
}

// Tokenize tokenizes content with default options.
func Tokenize(content []byte, tokens []jsontok.Token) (int, error) {
	return New(Options{}).Tokenize(content, tokens)
}

// Count counts the tokens of content with default options.
func Count(content []byte) (int, error) {
	return New(Options{}).Count(content)
}

// state is what the tokenizer expects next.
type state uint8

const (
	stateValue state = iota
	stateKey
	stateColon
	stateNext
	stateDone
)

// kindStack records, one bit per nesting level, whether a container is an object.
type kindStack [MaxDepthLimit / 64]uint64

func (s *kindStack) set(level int, object bool) {
	word, bit := level/64, uint(level%64)
	if object {
		s[word] |= 1 << bit
	} else {
		s[word] &^= 1 << bit
	}
}

func (s *kindStack) isObject(level int) bool {
	word, bit := level/64, uint(level%64)
	return s[word]&(1<<bit) != 0
}

// tokenizer holds the scan state for one document.
type tokenizer struct {
	content []byte
	tokens  []jsontok.Token
	fill    bool
	count   int
	pos     int

	super      int // index of the innermost open container
	lastKey    int // index of the key awaiting its value
	depth      int
	maxDepth   int
	justOpened bool
	state      state
	kinds      kindStack
}

// tokenize performs the main scanning loop.
func (t *tokenizer) tokenize() error {
	for ; t.pos < len(t.content); t.pos++ {
		ch := t.content[t.pos]

		var err error
		switch ch {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[':
			err = t.open(ch == '{')
		case '}', ']':
			err = t.close(ch == '}')
		case ',':
			err = t.comma()
		case ':':
			err = t.colon()
		case '"':
			err = t.str()
		default:
			err = t.primitive()
		}
		if err != nil {
			return err
		}
	}

	if t.state != stateDone {
		return fmt.Errorf("%w: input ended at offset %d", ErrIncomplete, t.pos)
	}

	return nil
}

// emit appends a token, or counts it when not filling.
func (t *tokenizer) emit(kind jsontok.Kind, start, end, parent int) (int, error) {
	idx := t.count
	if t.fill {
		if idx >= len(t.tokens) {
			return 0, fmt.Errorf("%w: need more than %d tokens", ErrCapacityExceeded, len(t.tokens))
		}
		t.tokens[idx] = jsontok.Token{
			Kind:   kind,
			Start:  start,
			End:    end,
			Size:   0,
			Parent: parent,
		}
	}
	t.count++
	return idx, nil
}

// beginValue computes the parent of a new value and bumps the size of an
// enclosing array.
func (t *tokenizer) beginValue() (int, error) {
	if t.state != stateValue {
		return 0, t.syntaxError("unexpected value")
	}

	if t.depth == 0 {
		return jsontok.NoParent, nil
	}

	if t.kinds.isObject(t.depth - 1) {
		return t.lastKey, nil
	}

	if t.fill {
		t.tokens[t.super].Size++
	}
	return t.super, nil
}

// endValue moves to the state after a complete value.
func (t *tokenizer) endValue() {
	t.justOpened = false
	if t.depth == 0 {
		t.state = stateDone
		return
	}
	t.state = stateNext
}

func (t *tokenizer) open(object bool) error {
	parent, err := t.beginValue()
	if err != nil {
		return err
	}

	if t.depth >= t.maxDepth {
		return fmt.Errorf("%w: more than %d levels at offset %d", ErrTooDeep, t.maxDepth, t.pos)
	}

	kind := jsontok.KindArray
	if object {
		kind = jsontok.KindObject
	}

	idx, err := t.emit(kind, t.pos, t.pos+1, parent)
	if err != nil {
		return err
	}

	t.kinds.set(t.depth, object)
	t.depth++
	t.super = idx
	t.justOpened = true
	if object {
		t.state = stateKey
	} else {
		t.state = stateValue
	}

	return nil
}

func (t *tokenizer) close(object bool) error {
	if t.depth == 0 || t.kinds.isObject(t.depth-1) != object {
		return t.syntaxError("unmatched closing delimiter")
	}

	switch {
	case t.state == stateNext:
	case t.justOpened && (t.state == stateKey || t.state == stateValue):
	default:
		return t.syntaxError("unexpected closing delimiter")
	}

	if t.fill {
		t.tokens[t.super].End = t.pos + 1
		parent := t.tokens[t.super].Parent
		if parent != jsontok.NoParent && t.tokens[parent].Kind == jsontok.KindString {
			parent = t.tokens[parent].Parent
		}
		t.super = parent
	}

	t.depth--
	t.endValue()
	return nil
}

func (t *tokenizer) comma() error {
	if t.state != stateNext {
		return t.syntaxError("unexpected comma")
	}

	if t.kinds.isObject(t.depth - 1) {
		t.state = stateKey
	} else {
		t.state = stateValue
	}
	return nil
}

func (t *tokenizer) colon() error {
	if t.state != stateColon {
		return t.syntaxError("unexpected colon")
	}
	t.state = stateValue
	return nil
}

// str scans a string starting at the opening quote.
func (t *tokenizer) str() error {
	isKey := t.state == stateKey

	var parent int
	if isKey {
		parent = t.super
	} else {
		var err error
		parent, err = t.beginValue()
		if err != nil {
			return err
		}
	}

	start := t.pos + 1
	end, err := t.scanString(start)
	if err != nil {
		return err
	}

	idx, err := t.emit(jsontok.KindString, start, end, parent)
	if err != nil {
		return err
	}
	t.pos = end // loop increment steps over the closing quote

	if isKey {
		if t.fill {
			t.tokens[t.super].Size++
		}
		t.lastKey = idx
		t.justOpened = false
		t.state = stateColon
		return nil
	}

	t.endValue()
	return nil
}

// scanString returns the offset of the closing quote of a string whose body
// starts at start.
func (t *tokenizer) scanString(start int) (int, error) {
	for pos := start; pos < len(t.content); pos++ {
		ch := t.content[pos]
		switch {
		case ch == '"':
			return pos, nil
		case ch == '\\':
			pos++
			if pos >= len(t.content) {
				return 0, fmt.Errorf("%w: unterminated escape at offset %d", ErrIncomplete, pos)
			}
			switch t.content[pos] {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			case 'u':
				if pos+4 >= len(t.content) {
					return 0, fmt.Errorf("%w: truncated unicode escape at offset %d", ErrIncomplete, pos)
				}
				for i := 1; i <= 4; i++ {
					if !isHex(t.content[pos+i]) {
						return 0, fmt.Errorf("%w: invalid unicode escape at offset %d", ErrSyntax, pos+i)
					}
				}
				pos += 4
			default:
				return 0, fmt.Errorf("%w: invalid escape at offset %d", ErrSyntax, pos)
			}
		case ch < 0x20:
			return 0, fmt.Errorf("%w: control character in string at offset %d", ErrSyntax, pos)
		}
	}
	return 0, fmt.Errorf("%w: unterminated string starting at offset %d", ErrIncomplete, start-1)
}

// primitive scans a number or literal.
func (t *tokenizer) primitive() error {
	if t.state == stateKey {
		return t.syntaxError("object key must be a string")
	}

	parent, err := t.beginValue()
	if err != nil {
		return err
	}

	start := t.pos
	end := start
	for end < len(t.content) && !isDelimiter(t.content[end]) {
		end++
	}

	if !validPrimitive(t.content[start:end]) {
		return t.syntaxError("invalid literal")
	}

	if _, err := t.emit(jsontok.KindPrimitive, start, end, parent); err != nil {
		return err
	}
	t.pos = end - 1

	t.endValue()
	return nil
}

func (t *tokenizer) syntaxError(msg string) error {
	return fmt.Errorf("%w: %s at offset %d", ErrSyntax, msg, t.pos)
}

func isDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', ',', ':', ']', '}', '[', '{', '"':
		return true
	}
	return false
}

func isHex(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// validPrimitive accepts the three literals and any run of number characters
// starting with a sign or digit. Number text is not checked further; the
// navigator converts it leniently.
func validPrimitive(text []byte) bool {
	switch string(text) {
	case "true", "false", "null":
		return true
	}

	if len(text) == 0 || (text[0] != '-' && (text[0] < '0' || text[0] > '9')) {
		return false
	}

	for _, ch := range text {
		switch {
		case ch >= '0' && ch <= '9':
		case ch == '-', ch == '+', ch == '.', ch == 'e', ch == 'E':
		default:
			return false
		}
	}
	return true
}
