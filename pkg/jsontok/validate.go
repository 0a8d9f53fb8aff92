package jsontok

import (
	"errors"
	"fmt"
)

// ErrInvalidLayout is returned by Validate when a token array breaks the
// pre-order layout.
var ErrInvalidLayout = errors.New("invalid token layout")

// frame tracks an open container while validating.
type frame struct {
	index     int
	remaining int
	isObject  bool
	expectKey bool
	key       int
}

// Validate checks that tokens form a single pre-order document over content of
// the given length:
//   - every kind is defined and every range lies inside the content,
//   - scalars have no children and object keys are strings,
//   - parent links point at the enclosing container (or key, for member values),
//   - container sizes account for exactly the tokens that follow them.
//
// Tokens produced by the bundled tokenizer always satisfy Validate; it exists
// for token arrays built elsewhere.
func Validate(tokens []Token, contentLen int) error {
	if len(tokens) == 0 {
		return fmt.Errorf("%w: no tokens", ErrInvalidLayout)
	}

	if tokens[0].Parent != NoParent {
		return fmt.Errorf("%w: token 0: root has parent %d", ErrInvalidLayout, tokens[0].Parent)
	}

	stack := make([]frame, 0, 8)

	for idx, tok := range tokens {
		if err := checkToken(idx, tok, contentLen); err != nil {
			return err
		}

		if idx > 0 {
			if len(stack) == 0 {
				return fmt.Errorf("%w: token %d: trailing token after root", ErrInvalidLayout, idx)
			}

			top := &stack[len(stack)-1]
			wantParent := top.index

			switch {
			case top.isObject && top.expectKey:
				if tok.Kind != KindString {
					return fmt.Errorf("%w: token %d: object key is %s", ErrInvalidLayout, idx, tok.Kind)
				}
				if tok.Parent != wantParent {
					return fmt.Errorf("%w: token %d: parent %d, want %d", ErrInvalidLayout, idx, tok.Parent, wantParent)
				}
				top.expectKey = false
				top.key = idx
				continue
			case top.isObject:
				wantParent = top.key
				top.expectKey = true
			}

			if tok.Parent != wantParent {
				return fmt.Errorf("%w: token %d: parent %d, want %d", ErrInvalidLayout, idx, tok.Parent, wantParent)
			}
			top.remaining--
		}

		if tok.Kind.IsContainer() {
			stack = append(stack, frame{
				index:     idx,
				remaining: tok.Size,
				isObject:  tok.Kind == KindObject,
				expectKey: tok.Kind == KindObject,
			})
		}

		for len(stack) > 0 && stack[len(stack)-1].remaining == 0 && stack[len(stack)-1].expectKey == stack[len(stack)-1].isObject {
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		return fmt.Errorf("%w: container %d is missing %d children", ErrInvalidLayout,
			stack[len(stack)-1].index, stack[len(stack)-1].remaining)
	}

	return nil
}

func checkToken(idx int, tok Token, contentLen int) error {
	switch tok.Kind {
	case KindObject, KindArray, KindString, KindPrimitive:
	case KindUndefined:
		return fmt.Errorf("%w: token %d: undefined kind", ErrInvalidLayout, idx)
	default:
		return fmt.Errorf("%w: token %d: unknown kind %d", ErrInvalidLayout, idx, tok.Kind)
	}

	if tok.Start < 0 || tok.End < tok.Start || tok.End > contentLen {
		return fmt.Errorf("%w: token %d: range [%d,%d) outside content of length %d",
			ErrInvalidLayout, idx, tok.Start, tok.End, contentLen)
	}

	if tok.Size < 0 {
		return fmt.Errorf("%w: token %d: negative size", ErrInvalidLayout, idx)
	}

	if !tok.Kind.IsContainer() && tok.Size != 0 {
		return fmt.Errorf("%w: token %d: %s with %d children", ErrInvalidLayout, idx, tok.Kind, tok.Size)
	}

	return nil
}
