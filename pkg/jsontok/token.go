// Package jsontok defines the flat token layout shared by the tokenizer and the
// navigator. A document is a pre-order array of tokens; containers are followed
// directly by their children and each child's full subtree.
package jsontok

// Kind classifies a token in the JSON source.
type Kind uint8

const (
	// KindUndefined is the zero value and never produced by a tokenizer.
	KindUndefined Kind = iota
	KindObject
	KindArray
	KindString
	KindPrimitive // number, true, false, null
)

// NoParent marks the root token.
const NoParent = -1

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindPrimitive:
		return "primitive"
	case KindUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// IsContainer reports whether the kind holds children.
func (k Kind) IsContainer() bool {
	return k == KindObject || k == KindArray
}

// Token describes one syntactic unit of a JSON document.
type Token struct {
	// Kind classifies what this token represents.
	Kind Kind

	// Start is the byte index where the token text begins (inclusive).
	// For strings the opening quote is excluded.
	Start int

	// End is the byte index where the token text ends (exclusive).
	// For containers it points just past the closing delimiter.
	End int

	// Size counts immediate children: pairs for an object, elements for an
	// array, zero for strings and primitives (object keys included).
	Size int

	// Parent is the index of the enclosing token, or NoParent for the root.
	// A member value's parent is its key.
	Parent int
}

// Text returns the source text of this token from the given content.
func (t Token) Text(content []byte) []byte {
	if t.Start < 0 || t.End > len(content) || t.Start > t.End {
		return nil
	}
	return content[t.Start:t.End]
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.End - t.Start
}

// IsContainer reports whether the token is an object or an array.
func (t Token) IsContainer() bool {
	return t.Kind.IsContainer()
}
