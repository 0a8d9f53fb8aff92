package jnav

import (
	"github.com/yaklabco/jnav/pkg/jsontok"
)

// CursorOptions configures a Cursor.
type CursorOptions struct {
	// Tracer, when set, receives lookup, element, descend and ascend events.
	Tracer TraceFunc
}

// Cursor walks a Document depth-first.
//
// The cursor state is one index: the first child slot of the entered
// container. The entered container is therefore always the token just before
// that slot. Lookups and element addressing read from the entered container
// without moving; only descends and ascends change the position. Failed
// operations leave the position untouched.
type Cursor struct {
	doc   *Document
	pos   int
	trace TraceFunc
}

// Document returns the document the cursor walks.
func (c *Cursor) Document() *Document {
	return c.doc
}

// Position returns the index of the first child slot of the entered container.
func (c *Cursor) Position() int {
	return c.pos
}

// Reset re-enters the root.
func (c *Cursor) Reset() {
	c.pos = 1
}

// entered returns the entered container token.
func (c *Cursor) entered() *jsontok.Token {
	return &c.doc.tokens[c.pos-1]
}

// Kind returns the kind of the entered container. At a scalar root it is the
// scalar's kind.
func (c *Cursor) Kind() jsontok.Kind {
	return c.entered().Kind
}

// Len returns the number of pairs or elements of the entered container.
func (c *Cursor) Len() (int, error) {
	tok := c.entered()
	if !tok.IsContainer() {
		return 0, ErrNotAContainer
	}
	return tok.Size, nil
}

// Depth returns how many containers enclose the entered one.
func (c *Cursor) Depth() int {
	depth := 0
	tokens := c.doc.tokens
	for idx := tokens[c.pos-1].Parent; idx != jsontok.NoParent; idx = tokens[idx].Parent {
		if tokens[idx].IsContainer() {
			depth++
		}
	}
	return depth
}

// Lookup returns the index of the value paired with key in the entered object.
// Keys are compared byte for byte against the raw key text.
func (c *Cursor) Lookup(key string) (int, error) {
	if key == "" {
		return 0, ErrInvalidParameter
	}

	objIdx := c.pos - 1
	tokens := c.doc.tokens
	if tokens[objIdx].Kind != jsontok.KindObject {
		return 0, ErrNotAnObject
	}

	source := c.doc.source
	idx := objIdx + 1
	for range tokens[objIdx].Size {
		keyTok := &tokens[idx]
		if keyTok.Kind == jsontok.KindString && keyTok.Len() == len(key) &&
			string(source[keyTok.Start:keyTok.End]) == key {
			if c.trace != nil {
				c.trace("lookup", "key", key, "object", objIdx, "value", idx+1)
			}
			return idx + 1, nil
		}
		idx = c.doc.skip(idx + 1)
	}

	if c.trace != nil {
		c.trace("lookup", "key", key, "object", objIdx, "found", false)
	}
	return 0, ErrKeyNotFound
}

// Element returns the index of element i of the entered array.
func (c *Cursor) Element(i int) (int, error) {
	arrIdx := c.pos - 1
	tokens := c.doc.tokens
	if tokens[arrIdx].Kind != jsontok.KindArray {
		return 0, ErrNotAnArray
	}

	if i < 0 || i >= tokens[arrIdx].Size {
		return 0, ErrIndexOutOfBounds
	}

	idx := arrIdx + 1
	for range i {
		idx = c.doc.skip(idx)
	}

	if c.trace != nil {
		c.trace("element", "array", arrIdx, "element", i, "index", idx)
	}
	return idx, nil
}

// Descend enters the container at index and returns its size.
func (c *Cursor) Descend(index int) (int, error) {
	if index < 0 || index >= len(c.doc.tokens) {
		return 0, ErrIndexOutOfBounds
	}

	tok := &c.doc.tokens[index]
	if !tok.IsContainer() {
		return 0, ErrNotAContainer
	}

	if c.trace != nil {
		c.trace("descend", "from", c.pos, "container", index, "kind", tok.Kind)
	}
	c.pos = index + 1
	return tok.Size, nil
}

// Ascend leaves the entered container and re-enters the one enclosing it.
// It must mirror the descend that entered the container.
func (c *Cursor) Ascend() error {
	cur := c.pos - 1
	tokens := c.doc.tokens

	parent := tokens[cur].Parent
	if parent == jsontok.NoParent {
		return ErrAtRoot
	}

	// A member value hangs off its key; the key hangs off the object.
	if tokens[parent].Kind == jsontok.KindString {
		parent = tokens[parent].Parent
	}

	if c.trace != nil {
		c.trace("ascend", "from", cur, "to", parent)
	}
	c.pos = parent + 1
	return nil
}

// Object looks up key in the entered object and enters its object value.
func (c *Cursor) Object(key string) error {
	idx, err := c.Lookup(key)
	if err != nil {
		return err
	}

	if c.doc.tokens[idx].Kind != jsontok.KindObject {
		return ErrNotAnObject
	}

	_, err = c.Descend(idx)
	return err
}

// Array looks up key in the entered object, enters its array value and
// returns the element count.
func (c *Cursor) Array(key string) (int, error) {
	idx, err := c.arrayIndex(key)
	if err != nil {
		return 0, err
	}
	return c.Descend(idx)
}

// ArraySize returns the element count of the array stored under key without
// entering it.
func (c *Cursor) ArraySize(key string) (int, error) {
	idx, err := c.arrayIndex(key)
	if err != nil {
		return 0, err
	}
	return c.doc.tokens[idx].Size, nil
}

func (c *Cursor) arrayIndex(key string) (int, error) {
	idx, err := c.Lookup(key)
	if err != nil {
		return 0, err
	}

	if c.doc.tokens[idx].Kind != jsontok.KindArray {
		return 0, ErrNotAnArray
	}
	return idx, nil
}

// ElementObject enters the object at element i of the entered array.
func (c *Cursor) ElementObject(i int) error {
	idx, err := c.Element(i)
	if err != nil {
		return err
	}

	if c.doc.tokens[idx].Kind != jsontok.KindObject {
		return ErrNotAnObject
	}

	_, err = c.Descend(idx)
	return err
}

// ElementArray enters the array at element i of the entered array and
// returns its element count.
func (c *Cursor) ElementArray(i int) (int, error) {
	idx, err := c.Element(i)
	if err != nil {
		return 0, err
	}

	if c.doc.tokens[idx].Kind != jsontok.KindArray {
		return 0, ErrNotAnArray
	}
	return c.Descend(idx)
}

// ReleaseObject leaves the entered object.
func (c *Cursor) ReleaseObject() error {
	if c.entered().Kind != jsontok.KindObject {
		return ErrNotAnObject
	}
	return c.Ascend()
}

// ReleaseArray leaves the entered array.
func (c *Cursor) ReleaseArray() error {
	if c.entered().Kind != jsontok.KindArray {
		return ErrNotAnArray
	}
	return c.Ascend()
}

// ReleaseElementObject leaves an object entered with ElementObject.
func (c *Cursor) ReleaseElementObject() error {
	if c.entered().Kind != jsontok.KindObject {
		return ErrNotAnObject
	}
	return c.releaseElement()
}

// ReleaseElementArray leaves an array entered with ElementArray.
func (c *Cursor) ReleaseElementArray() error {
	if c.entered().Kind != jsontok.KindArray {
		return ErrNotAnArray
	}
	return c.releaseElement()
}

func (c *Cursor) releaseElement() error {
	parent := c.entered().Parent
	if parent == jsontok.NoParent {
		return ErrAtRoot
	}

	if c.doc.tokens[parent].Kind != jsontok.KindArray {
		return ErrNotAnArray
	}
	return c.Ascend()
}
