package jsontok_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/jnav/pkg/jsontok"
)

func TestKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind jsontok.Kind
		want string
	}{
		{jsontok.KindUndefined, "undefined"},
		{jsontok.KindObject, "object"},
		{jsontok.KindArray, "array"},
		{jsontok.KindString, "string"},
		{jsontok.KindPrimitive, "primitive"},
		{jsontok.Kind(42), "unknown"},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.want, testCase.kind.String())
	}
}

func TestKind_IsContainer(t *testing.T) {
	t.Parallel()

	assert.True(t, jsontok.KindObject.IsContainer())
	assert.True(t, jsontok.KindArray.IsContainer())
	assert.False(t, jsontok.KindString.IsContainer())
	assert.False(t, jsontok.KindPrimitive.IsContainer())
	assert.False(t, jsontok.KindUndefined.IsContainer())
}

func TestToken_Text(t *testing.T) {
	t.Parallel()

	content := []byte(`{"name":"value"}`)

	tok := jsontok.Token{Kind: jsontok.KindString, Start: 9, End: 14, Parent: 1}
	assert.Equal(t, "value", string(tok.Text(content)))
	assert.Equal(t, 5, tok.Len())
	assert.False(t, tok.IsContainer())

	root := jsontok.Token{Kind: jsontok.KindObject, Start: 0, End: 16, Size: 1, Parent: jsontok.NoParent}
	assert.Equal(t, string(content), string(root.Text(content)))
	assert.True(t, root.IsContainer())

	assert.Nil(t, jsontok.Token{Start: 10, End: 20}.Text(content))
	assert.Nil(t, jsontok.Token{Start: -1, End: 2}.Text(content))
	assert.Nil(t, jsontok.Token{Start: 5, End: 4}.Text(content))
}
