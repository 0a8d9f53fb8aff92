// Package query compiles dotted path expressions such as a.b[2].c into a
// sequence of navigator steps.
//
// A compiled Path is immutable and may be shared. Resolving it against a
// cursor descends through the intermediate containers, reads the final step
// without descending, and ascends back in mirror order so the cursor ends
// where it started.
package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/jnav/pkg/jnav"
)

// ErrSyntax indicates a malformed path expression.
var ErrSyntax = errors.New("query: syntax error")

// maxIndexDigits keeps array indexes well inside int range.
const maxIndexDigits = 9

type stepKind uint8

const (
	stepKey stepKind = iota
	stepIndex
)

type step struct {
	kind  stepKind
	key   string
	index int
}

func (s step) String() string {
	if s.kind == stepIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return "." + escapeKey(s.key)
}

// Path is a compiled path expression.
type Path struct {
	steps []step
}

// Compile parses expr.
//
// The grammar is a key or index followed by any number of .key and [index]
// steps. A leading $ or $. is accepted and an empty expression (or a lone $)
// denotes the root. Within keys a backslash makes the next character literal,
// so \. and \[ match dots and brackets in member names.
func Compile(expr string) (*Path, error) {
	rest := expr
	if rest == "$" {
		rest = ""
	} else if strings.HasPrefix(rest, "$.") || strings.HasPrefix(rest, "$[") {
		rest = rest[1:]
		if rest[0] == '.' {
			rest = rest[1:]
			if rest == "" {
				return nil, syntaxError(expr, len(expr), "missing key after '.'")
			}
		}
	}

	path := &Path{}
	first := true

	for rest != "" {
		offset := len(expr) - len(rest)

		switch {
		case rest[0] == '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, syntaxError(expr, offset, "unterminated index")
			}

			index, err := parseIndex(rest[1:end])
			if err != nil {
				return nil, syntaxError(expr, offset+1, err.Error())
			}

			path.steps = append(path.steps, step{kind: stepIndex, index: index})
			rest = rest[end+1:]

		case rest[0] == '.' && !first:
			key, n, err := scanKey(rest[1:])
			if err != nil {
				return nil, syntaxError(expr, offset+1, err.Error())
			}

			path.steps = append(path.steps, step{kind: stepKey, key: key})
			rest = rest[1+n:]

		case first && rest[0] != '.':
			key, n, err := scanKey(rest)
			if err != nil {
				return nil, syntaxError(expr, offset, err.Error())
			}

			path.steps = append(path.steps, step{kind: stepKey, key: key})
			rest = rest[n:]

		default:
			return nil, syntaxError(expr, offset, fmt.Sprintf("unexpected %q", rest[0]))
		}

		first = false
	}

	return path, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) *Path {
	path, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return path
}

// Len returns the number of steps.
func (p *Path) Len() int {
	return len(p.steps)
}

// String returns the canonical form of the path, always starting with $.
func (p *Path) String() string {
	var builder strings.Builder
	builder.WriteByte('$')
	for _, s := range p.steps {
		builder.WriteString(s.String())
	}
	return builder.String()
}

// Resolve returns the token index the path points to, relative to the
// container the cursor has entered. An empty path resolves to that container.
// Keys are matched against member names as written in the source, escapes
// included.
//
// Navigator errors are wrapped with the failing step; errors.Is still matches
// the jnav sentinels. The cursor position is restored on success and failure.
func (p *Path) Resolve(cur *jnav.Cursor) (int, error) {
	if len(p.steps) == 0 {
		return cur.Position() - 1, nil
	}

	var (
		idx       int
		err       error
		descended int
	)

	last := len(p.steps) - 1
	for i, s := range p.steps {
		idx, err = resolveStep(cur, s)
		if err == nil && i < last {
			_, err = cur.Descend(idx)
			if err == nil {
				descended++
			}
		}

		if err != nil {
			err = fmt.Errorf("%s: %w", p.prefix(i), err)
			break
		}
	}

	for ; descended > 0; descended-- {
		if ascendErr := cur.Ascend(); ascendErr != nil {
			return 0, errors.Join(err, ascendErr)
		}
	}

	if err != nil {
		return 0, err
	}
	return idx, nil
}

// prefix renders the steps up to and including step i.
func (p *Path) prefix(i int) string {
	return (&Path{steps: p.steps[:i+1]}).String()
}

func resolveStep(cur *jnav.Cursor, s step) (int, error) {
	if s.kind == stepIndex {
		return cur.Element(s.index)
	}
	return cur.Lookup(s.key)
}

// scanKey reads a key up to the next unescaped '.' or '[' and returns it
// unescaped together with the number of bytes consumed.
func scanKey(text string) (string, int, error) {
	var (
		builder strings.Builder
		escaped bool
		pos     int
	)

scan:
	for ; pos < len(text); pos++ {
		ch := text[pos]
		switch {
		case escaped:
			builder.WriteByte(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '.', ch == '[':
			break scan
		case ch == ']':
			return "", 0, errors.New("unexpected ']'")
		default:
			builder.WriteByte(ch)
		}
	}

	if escaped {
		return "", 0, errors.New("dangling escape")
	}
	if builder.Len() == 0 {
		return "", 0, errors.New("empty key")
	}
	return builder.String(), pos, nil
}

func parseIndex(digits string) (int, error) {
	if digits == "" {
		return 0, errors.New("empty index")
	}
	if len(digits) > maxIndexDigits {
		return 0, errors.New("index too large")
	}

	for i := range len(digits) {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, fmt.Errorf("invalid index %q", digits)
		}
	}

	return strconv.Atoi(digits)
}

func escapeKey(key string) string {
	if !strings.ContainsAny(key, `.[]\`) {
		return key
	}

	var builder strings.Builder
	for i := range len(key) {
		switch key[i] {
		case '.', '[', ']', '\\':
			builder.WriteByte('\\')
		}
		builder.WriteByte(key[i])
	}
	return builder.String()
}

func syntaxError(expr string, offset int, msg string) error {
	return fmt.Errorf("%w: %s at offset %d in %q", ErrSyntax, msg, offset, expr)
}
