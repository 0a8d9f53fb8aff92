package query_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theory/jsonpath"

	"github.com/yaklabco/jnav/pkg/jnav"
	"github.com/yaklabco/jnav/pkg/jsontok"
	"github.com/yaklabco/jnav/pkg/query"
	"github.com/yaklabco/jnav/pkg/tokenizer"
)

const storeJSON = `{
  "store": {
    "name": "corner",
    "open": true,
    "book": [
      {"title": "Sayings", "price": 8.95, "tags": ["old", "short"]},
      {"title": "Sword", "price": 12.99, "isbn": "0-553-21311-3"},
      {"title": "Moby", "price": 8, "meta": {"pages": 635, "ratings": [5, 4, 5]}}
    ],
    "bicycle": {"color": "red", "price": 19.95}
  },
  "matrix": [[1, 2], [3, [4, 5]]],
  "empty": {}
}`

func parseDoc(t *testing.T, src string) *jnav.Document {
	t.Helper()

	content := []byte(src)
	count, err := tokenizer.Count(content)
	require.NoError(t, err)

	doc, err := jnav.Parse(content, make([]jsontok.Token, count), tokenizer.New(tokenizer.Options{}))
	require.NoError(t, err)
	return doc
}

func TestCompile_CanonicalForm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want string
		len  int
	}{
		{"", "$", 0},
		{"$", "$", 0},
		{"a", "$.a", 1},
		{"$.a", "$.a", 1},
		{"a.b[2].c", "$.a.b[2].c", 4},
		{"$.a.b[2].c", "$.a.b[2].c", 4},
		{"[0]", "$[0]", 1},
		{"$[0][1]", "$[0][1]", 2},
		{`a\.b`, `$.a\.b`, 1},
		{`a\[0\]`, `$.a\[0\]`, 1},
		{`back\\slash`, `$.back\\slash`, 1},
		{"$key", "$.$key", 1},
		{"x[10].y[007]", "$.x[10].y[7]", 4},
	}

	for _, testCase := range tests {
		t.Run(testCase.expr, func(t *testing.T) {
			t.Parallel()

			path, err := query.Compile(testCase.expr)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, path.String())
			assert.Equal(t, testCase.len, path.Len())

			again, err := query.Compile(path.String())
			require.NoError(t, err)
			assert.Equal(t, path.String(), again.String())
		})
	}
}

func TestCompile_SyntaxErrors(t *testing.T) {
	t.Parallel()

	exprs := []string{
		"$.",
		".a",
		"a.",
		"a..b",
		"a[",
		"a[]",
		"a[-1]",
		"a[x]",
		"a[1]b",
		"a]",
		"a[1234567890]",
		`a\`,
		"[0].",
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			t.Parallel()

			_, err := query.Compile(expr)
			require.ErrorIs(t, err, query.ErrSyntax)
		})
	}
}

func TestMustCompile_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { query.MustCompile("a[") })
	assert.NotPanics(t, func() { query.MustCompile("a[0]") })
}

// TestResolve_MatchesJSONPath compares resolved values with an independent
// JSONPath implementation evaluated over encoding/json output.
func TestResolve_MatchesJSONPath(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, storeJSON)

	var data any
	require.NoError(t, json.Unmarshal([]byte(storeJSON), &data))

	exprs := []string{
		"store",
		"store.name",
		"store.open",
		"store.book",
		"store.book[0].title",
		"store.book[0].tags[1]",
		"store.book[1].isbn",
		"store.book[2].price",
		"store.book[2].meta.pages",
		"store.book[2].meta.ratings[2]",
		"store.bicycle.color",
		"store.bicycle.price",
		"matrix[1][1][0]",
		"matrix[0]",
		"empty",
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			t.Parallel()

			path := query.MustCompile(expr)
			oracle, err := jsonpath.Parse(path.String())
			require.NoError(t, err)

			nodes := oracle.Select(data)
			require.Len(t, nodes, 1)

			cur := doc.Cursor()
			idx, err := path.Resolve(cur)
			require.NoError(t, err)
			assert.Equal(t, 1, cur.Position(), "cursor must be restored")

			tok, err := doc.Token(idx)
			require.NoError(t, err)
			raw, err := doc.RawAt(idx)
			require.NoError(t, err)

			if tok.Kind == jsontok.KindString {
				assert.Equal(t, nodes[0], string(raw))
				return
			}

			var got any
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, nodes[0], got)
		})
	}
}

func TestResolve_RelativeToEnteredContainer(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, storeJSON)
	cur := doc.Cursor()

	require.NoError(t, cur.Object("store"))
	_, err := cur.Array("book")
	require.NoError(t, err)
	start := cur.Position()

	idx, err := query.MustCompile("[2].meta.ratings[0]").Resolve(cur)
	require.NoError(t, err)
	assert.Equal(t, start, cur.Position())

	value, err := doc.IntAt(idx)
	require.NoError(t, err)
	assert.Equal(t, 5, value)

	self, err := query.MustCompile("$").Resolve(cur)
	require.NoError(t, err)
	assert.Equal(t, start-1, self)
}

func TestResolve_ErrorsRestoreCursor(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, storeJSON)

	tests := []struct {
		expr    string
		wantErr error
		step    string
	}{
		{"missing", jnav.ErrKeyNotFound, "$.missing"},
		{"store.book[3].title", jnav.ErrIndexOutOfBounds, "$.store.book[3]"},
		{"store.book[2].meta.pages.x", jnav.ErrNotAContainer, "$.store.book[2].meta.pages"},
		{"store.name[0]", jnav.ErrNotAContainer, "$.store.name"},
		{"store[0]", jnav.ErrNotAnArray, "$.store[0]"},
		{"matrix.x", jnav.ErrNotAnObject, "$.matrix.x"},
		{"empty.a", jnav.ErrKeyNotFound, "$.empty.a"},
	}

	for _, testCase := range tests {
		t.Run(testCase.expr, func(t *testing.T) {
			t.Parallel()

			cur := doc.Cursor()
			_, err := query.MustCompile(testCase.expr).Resolve(cur)
			require.ErrorIs(t, err, testCase.wantErr)
			assert.Contains(t, err.Error(), testCase.step)
			assert.Equal(t, 1, cur.Position())
		})
	}
}

func TestResolve_EscapedKey(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `{"a.b":{"c[0]":"dotted"},"a":{"b":"plain"}}`)

	buf := make([]byte, 8)

	idx, err := query.MustCompile(`a\.b.c\[0\]`).Resolve(doc.Cursor())
	require.NoError(t, err)
	n, err := doc.StringAt(idx, buf)
	require.NoError(t, err)
	assert.Equal(t, "dotted", string(buf[:n]))

	idx, err = query.MustCompile(`a.b`).Resolve(doc.Cursor())
	require.NoError(t, err)
	n, err = doc.StringAt(idx, buf)
	require.NoError(t, err)
	assert.Equal(t, "plain", string(buf[:n]))
}

func TestResolve_DoesNotAllocate(t *testing.T) {
	if raceEnabled {
		t.Skip("allocation counts are unreliable under the race detector")
	}

	doc := parseDoc(t, storeJSON)
	cur := doc.Cursor()
	path := query.MustCompile("store.book[2].meta.ratings[1]")

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = path.Resolve(cur)
	})
	assert.Zero(t, allocs)
}
