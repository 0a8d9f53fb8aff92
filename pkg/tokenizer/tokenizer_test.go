package tokenizer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/jnav/pkg/jsontok"
	"github.com/yaklabco/jnav/pkg/tokenizer"
)

func tokenize(t *testing.T, src string) []jsontok.Token {
	t.Helper()

	tokens := make([]jsontok.Token, 64)
	n, err := tokenizer.Tokenize([]byte(src), tokens)
	require.NoError(t, err)

	count, err := tokenizer.Count([]byte(src))
	require.NoError(t, err)
	require.Equal(t, n, count, "Count must agree with Tokenize")

	require.NoError(t, jsontok.Validate(tokens[:n], len(src)))
	return tokens[:n]
}

func TestTokenize_NestedDocument(t *testing.T) {
	t.Parallel()

	got := tokenize(t, `{"a":{"b":1},"c":[10,20,30]}`)

	want := []jsontok.Token{
		{Kind: jsontok.KindObject, Start: 0, End: 28, Size: 2, Parent: jsontok.NoParent},
		{Kind: jsontok.KindString, Start: 2, End: 3, Parent: 0},
		{Kind: jsontok.KindObject, Start: 5, End: 12, Size: 1, Parent: 1},
		{Kind: jsontok.KindString, Start: 7, End: 8, Parent: 2},
		{Kind: jsontok.KindPrimitive, Start: 10, End: 11, Parent: 3},
		{Kind: jsontok.KindString, Start: 14, End: 15, Parent: 0},
		{Kind: jsontok.KindArray, Start: 17, End: 27, Size: 3, Parent: 5},
		{Kind: jsontok.KindPrimitive, Start: 18, End: 20, Parent: 6},
		{Kind: jsontok.KindPrimitive, Start: 21, End: 23, Parent: 6},
		{Kind: jsontok.KindPrimitive, Start: 24, End: 26, Parent: 6},
	}
	assert.Equal(t, want, got)
}

func TestTokenize_TokenText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		kinds []jsontok.Kind
		texts []string
	}{
		{
			name:  "string root",
			src:   `"x"`,
			kinds: []jsontok.Kind{jsontok.KindString},
			texts: []string{"x"},
		},
		{
			name:  "literal root with whitespace",
			src:   " \t\r\nnull\n",
			kinds: []jsontok.Kind{jsontok.KindPrimitive},
			texts: []string{"null"},
		},
		{
			name:  "number root",
			src:   `-1.5e3`,
			kinds: []jsontok.Kind{jsontok.KindPrimitive},
			texts: []string{"-1.5e3"},
		},
		{
			name:  "escapes stay raw",
			src:   `["a\"b","é","\\"]`,
			kinds: []jsontok.Kind{jsontok.KindArray, jsontok.KindString, jsontok.KindString, jsontok.KindString},
			texts: []string{`["a\"b","é","\\"]`, `a\"b`, `é`, `\\`},
		},
		{
			name:  "literals",
			src:   `[true,false,null]`,
			kinds: []jsontok.Kind{jsontok.KindArray, jsontok.KindPrimitive, jsontok.KindPrimitive, jsontok.KindPrimitive},
			texts: []string{`[true,false,null]`, "true", "false", "null"},
		},
		{
			name:  "empty string",
			src:   `{"":""}`,
			kinds: []jsontok.Kind{jsontok.KindObject, jsontok.KindString, jsontok.KindString},
			texts: []string{`{"":""}`, "", ""},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := tokenize(t, testCase.src)
			require.Len(t, tokens, len(testCase.kinds))

			for i, tok := range tokens {
				assert.Equal(t, testCase.kinds[i], tok.Kind, "token %d", i)
				assert.Equal(t, testCase.texts[i], string(tok.Text([]byte(testCase.src))), "token %d", i)
			}
		})
	}
}

func TestTokenize_SizesAndParents(t *testing.T) {
	t.Parallel()

	tokens := tokenize(t, `{"a":[],"b":{},"c":[[1],{"k":2}]}`)

	sizes := make([]int, len(tokens))
	parents := make([]int, len(tokens))
	for i, tok := range tokens {
		sizes[i] = tok.Size
		parents[i] = tok.Parent
	}

	// 0 {  1 "a"  2 []  3 "b"  4 {}  5 "c"  6 [  7 [  8 1  9 {  10 "k"  11 2
	assert.Equal(t, []int{3, 0, 0, 0, 0, 0, 2, 1, 0, 1, 0, 0}, sizes)
	assert.Equal(t, []int{-1, 0, 1, 0, 3, 0, 5, 6, 7, 6, 9, 10}, parents)
}

func TestTokenize_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"empty input", ``, tokenizer.ErrIncomplete},
		{"whitespace only", "  \n", tokenizer.ErrIncomplete},
		{"unclosed object", `{`, tokenizer.ErrIncomplete},
		{"key without value", `{"a"`, tokenizer.ErrIncomplete},
		{"unterminated string", `"abc`, tokenizer.ErrIncomplete},
		{"unclosed nested array", `{"a":[1,2}`, tokenizer.ErrSyntax},
		{"missing value", `{"a":}`, tokenizer.ErrSyntax},
		{"missing colon", `{"a" 1}`, tokenizer.ErrSyntax},
		{"double colon", `{"a"::1}`, tokenizer.ErrSyntax},
		{"trailing comma", `[1,]`, tokenizer.ErrSyntax},
		{"leading comma", `[,1]`, tokenizer.ErrSyntax},
		{"empty member", `{,}`, tokenizer.ErrSyntax},
		{"missing comma", `[1 2]`, tokenizer.ErrSyntax},
		{"numeric key", `{1:2}`, tokenizer.ErrSyntax},
		{"stray closer", `]`, tokenizer.ErrSyntax},
		{"mismatched closer", `[}`, tokenizer.ErrSyntax},
		{"extra closer", `{"a":1}}`, tokenizer.ErrSyntax},
		{"two roots", `1 2`, tokenizer.ErrSyntax},
		{"comma after root", `1,`, tokenizer.ErrSyntax},
		{"bad literal", `tru`, tokenizer.ErrSyntax},
		{"bare word", `abc`, tokenizer.ErrSyntax},
		{"bad escape", `"a\x"`, tokenizer.ErrSyntax},
		{"bad unicode escape", `"\u12G4"`, tokenizer.ErrSyntax},
		{"control character", "\"a\tb\"", tokenizer.ErrSyntax},
		{"top level colon", `:`, tokenizer.ErrSyntax},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens := make([]jsontok.Token, 16)
			_, err := tokenizer.Tokenize([]byte(testCase.src), tokens)
			require.ErrorIs(t, err, testCase.wantErr)

			_, err = tokenizer.Count([]byte(testCase.src))
			require.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func TestTokenize_Capacity(t *testing.T) {
	t.Parallel()

	src := []byte(`{"a":{"b":1},"c":[10,20,30]}`)

	count, err := tokenizer.Count(src)
	require.NoError(t, err)
	assert.Equal(t, 10, count)

	_, err = tokenizer.Tokenize(src, make([]jsontok.Token, count-1))
	require.ErrorIs(t, err, tokenizer.ErrCapacityExceeded)

	n, err := tokenizer.Tokenize(src, make([]jsontok.Token, count))
	require.NoError(t, err)
	assert.Equal(t, count, n)
}

func TestTokenize_MaxDepth(t *testing.T) {
	t.Parallel()

	nested := func(depth int) []byte {
		return []byte(strings.Repeat("[", depth) + strings.Repeat("]", depth))
	}

	shallow := tokenizer.New(tokenizer.Options{MaxDepth: 2})

	_, err := shallow.Count([]byte(`[[1]]`))
	require.NoError(t, err)

	_, err = shallow.Count([]byte(`[[[1]]]`))
	require.ErrorIs(t, err, tokenizer.ErrTooDeep)

	count, err := tokenizer.Count(nested(tokenizer.DefaultMaxDepth))
	require.NoError(t, err)
	assert.Equal(t, tokenizer.DefaultMaxDepth, count)

	_, err = tokenizer.Count(nested(tokenizer.DefaultMaxDepth + 1))
	require.ErrorIs(t, err, tokenizer.ErrTooDeep)

	clamped := tokenizer.New(tokenizer.Options{MaxDepth: 1 << 20})
	_, err = clamped.Count(nested(tokenizer.MaxDepthLimit))
	require.NoError(t, err)

	_, err = clamped.Count(nested(tokenizer.MaxDepthLimit + 1))
	require.ErrorIs(t, err, tokenizer.ErrTooDeep)
}

func TestTokenize_DeepDocumentValidates(t *testing.T) {
	t.Parallel()

	var builder strings.Builder
	for range 100 {
		builder.WriteString(`{"k":[`)
	}
	builder.WriteString(`0`)
	for range 100 {
		builder.WriteString(`]}`)
	}

	src := []byte(builder.String())
	count, err := tokenizer.Count(src)
	require.NoError(t, err)
	assert.Equal(t, 301, count)

	tokens := make([]jsontok.Token, count)
	n, err := tokenizer.Tokenize(src, tokens)
	require.NoError(t, err)
	require.NoError(t, jsontok.Validate(tokens[:n], len(src)))
}
