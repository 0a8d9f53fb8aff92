// Package check evaluates declarative assertions about JSON documents.
//
// A Suite is a list of checks loaded from YAML. Each check names a query path
// and the properties the value at that path must have:
//
//	checks:
//	  - name: version is pinned
//	    path: $.version
//	    kind: string
//	    equals: "1.2.0"
//	  - path: $.items
//	    len: 3
//	  - path: $.legacy
//	    exists: false
package check

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/jnav/pkg/jnav"
	"github.com/yaklabco/jnav/pkg/jsontok"
	"github.com/yaklabco/jnav/pkg/query"
)

var (
	// ErrInvalidCheck indicates a check definition that cannot be evaluated.
	ErrInvalidCheck = errors.New("invalid check")

	// ErrNotCompiled indicates a check evaluated before Suite.Compile.
	ErrNotCompiled = errors.New("check not compiled")
)

// Value classes a check can require with Kind. The token kinds object, array
// and string match themselves; primitives are split by their first byte.
const (
	KindObject    = "object"
	KindArray     = "array"
	KindString    = "string"
	KindNumber    = "number"
	KindBoolean   = "boolean"
	KindNull      = "null"
	KindPrimitive = "primitive"
)

// maxGotLen bounds the observed value quoted in failure messages.
const maxGotLen = 64

// Check is a single assertion about the value at Path.
type Check struct {
	// Name is an optional label shown instead of the path.
	Name string `yaml:"name,omitempty"`

	// Path is a query path such as $.items[0].id.
	Path string `yaml:"path"`

	// Exists defaults to true. When false the check passes only if the path
	// does not resolve, and no other property may be set.
	Exists *bool `yaml:"exists,omitempty"`

	// Kind is one of the value classes above.
	Kind string `yaml:"kind,omitempty"`

	// Equals compares against the raw text of the value. Strings compare
	// without quotes and with escapes as written.
	Equals *string `yaml:"equals,omitempty"`

	// Len is the member count of a container or the byte length of a string.
	Len *int `yaml:"len,omitempty"`

	// Min and Max bound a number, inclusive.
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`

	path *query.Path
}

// Label returns the name of the check, or its path when unnamed.
func (c *Check) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Path
}

// Suite is an ordered list of checks.
type Suite struct {
	Checks []*Check `yaml:"checks"`
}

// Result is the outcome of one check against one document.
type Result struct {
	Check  *Check
	Passed bool

	// Got is the observed value, truncated for display. Empty when the path
	// did not resolve.
	Got string

	// Message explains a failure.
	Message string
}

// ParseSuite decodes and compiles a suite from YAML. Unknown keys are rejected.
func ParseSuite(data []byte) (*Suite, error) {
	suite := &Suite{}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(suite); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no checks defined", ErrInvalidCheck)
		}
		return nil, fmt.Errorf("parse checks: %w", err)
	}

	if err := suite.Compile(); err != nil {
		return nil, err
	}
	return suite, nil
}

// LoadSuite reads and parses a suite file.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checks: %w", err)
	}

	suite, err := ParseSuite(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return suite, nil
}

// Compile validates every check and compiles its path.
func (s *Suite) Compile() error {
	if len(s.Checks) == 0 {
		return fmt.Errorf("%w: no checks defined", ErrInvalidCheck)
	}

	for i, c := range s.Checks {
		if c == nil {
			return fmt.Errorf("%w: check %d is empty", ErrInvalidCheck, i+1)
		}
		if err := c.compile(); err != nil {
			return fmt.Errorf("check %d (%s): %w", i+1, c.Label(), err)
		}
	}
	return nil
}

func (c *Check) compile() error {
	path, err := query.Compile(c.Path)
	if err != nil {
		return err
	}

	switch c.Kind {
	case "", KindObject, KindArray, KindString, KindNumber, KindBoolean, KindNull, KindPrimitive:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidCheck, c.Kind)
	}

	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return fmt.Errorf("%w: min %g exceeds max %g", ErrInvalidCheck, *c.Min, *c.Max)
	}

	if c.Len != nil && *c.Len < 0 {
		return fmt.Errorf("%w: negative len %d", ErrInvalidCheck, *c.Len)
	}

	if !c.wantExists() && (c.Kind != "" || c.Equals != nil || c.Len != nil || c.Min != nil || c.Max != nil) {
		return fmt.Errorf("%w: exists: false cannot be combined with other properties", ErrInvalidCheck)
	}

	c.path = path
	return nil
}

func (c *Check) wantExists() bool {
	return c.Exists == nil || *c.Exists
}

// Evaluate runs every check against doc in order. The checks share one cursor
// entered at the root, and each leaves it where it found it. The suite must be
// compiled; evaluation never mutates it, so one suite may be evaluated from
// several goroutines.
func (s *Suite) Evaluate(doc *jnav.Document, opts jnav.CursorOptions) []Result {
	cur := doc.NewCursor(opts)
	results := make([]Result, 0, len(s.Checks))
	for _, c := range s.Checks {
		results = append(results, c.Evaluate(cur))
	}
	return results
}

// Evaluate resolves the check relative to the container cur has entered. A
// check that was not compiled fails with ErrNotCompiled.
func (c *Check) Evaluate(cur *jnav.Cursor) Result {
	if c.path == nil {
		return Result{Check: c, Message: ErrNotCompiled.Error()}
	}

	idx, err := c.path.Resolve(cur)
	if err != nil {
		if !c.wantExists() && isMissing(err) {
			return Result{Check: c, Passed: true}
		}
		return Result{Check: c, Message: err.Error()}
	}

	doc := cur.Document()
	tok, err := doc.Token(idx)
	if err != nil {
		return Result{Check: c, Message: err.Error()}
	}

	raw, _ := doc.RawAt(idx)
	got := display(raw)

	if !c.wantExists() {
		return Result{Check: c, Got: got, Message: "expected path to be absent"}
	}

	if msg := c.verify(doc, idx, tok); msg != "" {
		return Result{Check: c, Got: got, Message: msg}
	}
	return Result{Check: c, Passed: true, Got: got}
}

// verify returns a failure message, or "" when every property holds.
func (c *Check) verify(doc *jnav.Document, idx int, tok jsontok.Token) string {
	class := Classify(tok, doc.Source())

	if c.Kind != "" && c.Kind != class && !(c.Kind == KindPrimitive && tok.Kind == jsontok.KindPrimitive) {
		return fmt.Sprintf("expected kind %s, got %s", c.Kind, class)
	}

	if c.Equals != nil {
		text, err := valueText(doc, idx, tok)
		if err != nil {
			return err.Error()
		}
		if text != *c.Equals {
			return fmt.Sprintf("expected %q, got %q", *c.Equals, text)
		}
	}

	if c.Len != nil {
		n, err := length(doc, idx, tok)
		if err != nil {
			return err.Error()
		}
		if n != *c.Len {
			return fmt.Sprintf("expected len %d, got %d", *c.Len, n)
		}
	}

	if c.Min != nil || c.Max != nil {
		if class != KindNumber {
			return fmt.Sprintf("expected a number, got %s", class)
		}
		value, err := doc.FloatAt(idx)
		if err != nil {
			return err.Error()
		}
		if c.Min != nil && value < *c.Min {
			return fmt.Sprintf("expected at least %g, got %g", *c.Min, value)
		}
		if c.Max != nil && value > *c.Max {
			return fmt.Sprintf("expected at most %g, got %g", *c.Max, value)
		}
	}

	return ""
}

// Classify names the value class of tok.
func Classify(tok jsontok.Token, source []byte) string {
	switch tok.Kind {
	case jsontok.KindObject:
		return KindObject
	case jsontok.KindArray:
		return KindArray
	case jsontok.KindString:
		return KindString
	case jsontok.KindPrimitive:
		text := tok.Text(source)
		if len(text) == 0 {
			return KindPrimitive
		}
		switch text[0] {
		case 't', 'f':
			return KindBoolean
		case 'n':
			return KindNull
		default:
			return KindNumber
		}
	default:
		return tok.Kind.String()
	}
}

// valueText returns the text compared by Equals. String values are copied out
// through a buffer sized by their length plus the terminator.
func valueText(doc *jnav.Document, idx int, tok jsontok.Token) (string, error) {
	if tok.Kind != jsontok.KindString {
		raw, err := doc.RawAt(idx)
		return string(raw), err
	}

	n, err := doc.StringLenAt(idx)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n+1)
	written, err := doc.StringAt(idx, buf)
	if err != nil {
		return "", err
	}
	return string(buf[:written]), nil
}

func length(doc *jnav.Document, idx int, tok jsontok.Token) (int, error) {
	switch tok.Kind {
	case jsontok.KindObject, jsontok.KindArray:
		return tok.Size, nil
	case jsontok.KindString:
		return doc.StringLenAt(idx)
	default:
		return 0, fmt.Errorf("len requires a container or string, got %s", Classify(tok, doc.Source()))
	}
}

func isMissing(err error) bool {
	return errors.Is(err, jnav.ErrKeyNotFound) || errors.Is(err, jnav.ErrIndexOutOfBounds)
}

func display(raw []byte) string {
	if len(raw) > maxGotLen {
		return string(raw[:maxGotLen-3]) + "..."
	}
	return string(raw)
}

// Summary counts results.
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// Summarize counts passed and failed results.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		s.Total++
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// String formats the summary as "n checks, p passed, f failed".
func (s Summary) String() string {
	return strconv.Itoa(s.Total) + " checks, " + strconv.Itoa(s.Passed) + " passed, " +
		strconv.Itoa(s.Failed) + " failed"
}
