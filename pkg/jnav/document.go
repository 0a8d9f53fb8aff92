// Package jnav navigates a tokenized JSON document without building a tree.
//
// A Document pairs the source bytes with the flat, pre-order token array
// produced by a Tokenizer. A Cursor walks that array depth-first: it looks up
// keys in the entered object, addresses elements of the entered array,
// descends into nested containers and ascends back by following parent links.
// None of these operations allocate.
//
// A Cursor keeps a single position and no stack, so ascends must mirror the
// preceding descends in strict LIFO order. Documents are read-only and may be
// shared between goroutines; each goroutine needs its own Cursor.
package jnav

import (
	"github.com/yaklabco/jnav/pkg/jsontok"
)

// Tokenizer fills a caller-owned token slice from JSON source.
//
// The length of tokens is the capacity. Implementations return the number of
// tokens written, or an error when the source is malformed or the capacity is
// too small. They must not retain either slice.
type Tokenizer interface {
	Tokenize(content []byte, tokens []jsontok.Token) (int, error)
}

// TraceFunc receives navigation events as a message and key/value pairs.
type TraceFunc func(event string, keyvals ...any)

// Document is an immutable view of tokenized JSON source.
type Document struct {
	source []byte
	tokens []jsontok.Token
}

// Parse tokenizes source into tokens and wraps the result. Tokenizer errors
// are returned unchanged.
func Parse(source []byte, tokens []jsontok.Token, tok Tokenizer) (*Document, error) {
	if len(source) == 0 || len(tokens) == 0 || tok == nil {
		return nil, ErrInvalidParameter
	}

	n, err := tok.Tokenize(source, tokens)
	if err != nil {
		return nil, err
	}

	if n <= 0 {
		return nil, ErrInvalidParameter
	}

	return &Document{source: source, tokens: tokens[:n]}, nil
}

// FromTokens wraps a token array produced elsewhere after checking its layout
// with jsontok.Validate.
func FromTokens(source []byte, tokens []jsontok.Token) (*Document, error) {
	if len(source) == 0 || len(tokens) == 0 {
		return nil, ErrInvalidParameter
	}

	if err := jsontok.Validate(tokens, len(source)); err != nil {
		return nil, err
	}

	return &Document{source: source, tokens: tokens}, nil
}

// Source returns the document source. Callers must not modify it.
func (d *Document) Source() []byte {
	return d.source
}

// Tokens returns the document tokens. Callers must not modify them.
func (d *Document) Tokens() []jsontok.Token {
	return d.tokens
}

// Len returns the number of tokens.
func (d *Document) Len() int {
	return len(d.tokens)
}

// Token returns the token at index i.
func (d *Document) Token(i int) (jsontok.Token, error) {
	if i < 0 || i >= len(d.tokens) {
		return jsontok.Token{}, ErrIndexOutOfBounds
	}
	return d.tokens[i], nil
}

// Skip returns the index of the token following the subtree rooted at i.
// For a string or primitive that is i+1.
func (d *Document) Skip(i int) (int, error) {
	if i < 0 || i >= len(d.tokens) {
		return 0, ErrIndexOutOfBounds
	}
	return d.skip(i), nil
}

// skip walks the subtree at i with a count of pending tokens instead of
// recursion: every object adds a key and a value per pair, every array one
// token per element. The pre-order layout guarantees the count reaches zero
// exactly on the next sibling.
func (d *Document) skip(i int) int {
	pending := 1
	for pending > 0 && i < len(d.tokens) {
		tok := &d.tokens[i]
		switch tok.Kind {
		case jsontok.KindObject:
			pending += 2 * tok.Size
		case jsontok.KindArray:
			pending += tok.Size
		case jsontok.KindString, jsontok.KindPrimitive, jsontok.KindUndefined:
		}
		pending--
		i++
	}
	return i
}

// Dump reports every token to trace as a "token" event.
func (d *Document) Dump(trace TraceFunc) {
	if trace == nil {
		return
	}
	for i, tok := range d.tokens {
		trace("token",
			"index", i,
			"parent", tok.Parent,
			"size", tok.Size,
			"kind", tok.Kind,
			"text", string(tok.Text(d.source)),
		)
	}
}

// Cursor returns a new cursor entered at the root.
func (d *Document) Cursor() *Cursor {
	return d.NewCursor(CursorOptions{})
}

// NewCursor returns a new cursor entered at the root with the given options.
func (d *Document) NewCursor(opts CursorOptions) *Cursor {
	return &Cursor{
		doc:   d,
		pos:   1,
		trace: opts.Tracer,
	}
}
