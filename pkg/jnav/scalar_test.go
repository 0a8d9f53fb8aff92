package jnav_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/jnav/pkg/jnav"
)

const recordJSON = `{
  "name": "Ada",
  "quote": "say \"hi\"",
  "empty": "",
  "born": 1815,
  "ratio": 0.25,
  "active": true,
  "retired": 0,
  "missing": null,
  "ints": [16, 4, 1994],
  "floats": [19.94, -4.16e1],
  "strs": ["x", "yy", ""],
  "bools": [true, 0, false, 1, null]
}`

func TestString_CopiesIntoBuffer(t *testing.T) {
	t.Parallel()

	cur := parseDoc(t, recordJSON).Cursor()

	buf := make([]byte, 16)
	n, err := cur.String("name", buf)
	require.NoError(t, err)
	assert.Equal(t, "Ada", string(buf[:n]))

	n, err = cur.String("quote", buf)
	require.NoError(t, err)
	assert.Equal(t, `say \"hi\"`, string(buf[:n]), "escapes are copied raw")

	n, err = cur.String("empty", buf)
	require.NoError(t, err)
	assert.Zero(t, n)

	length, err := cur.StringLen("quote")
	require.NoError(t, err)
	assert.Equal(t, 10, length)
}

func TestString_BufferSafety(t *testing.T) {
	t.Parallel()

	cur := parseDoc(t, recordJSON).Cursor()

	exact := bytes.Repeat([]byte{'#'}, 4)
	n, err := cur.String("name", exact)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "Ada\x00", string(exact), "text is followed by a terminator")

	noTerminator := bytes.Repeat([]byte{'#'}, 3)
	_, err = cur.String("name", noTerminator)
	assert.Equal(t, jnav.ErrBufferTooSmall, err)
	assert.Equal(t, "###", string(noTerminator), "buffer must be untouched on failure")

	short := bytes.Repeat([]byte{'#'}, 2)
	_, err = cur.String("name", short)
	assert.Equal(t, jnav.ErrBufferTooSmall, err)
	assert.Equal(t, "##", string(short), "buffer must be untouched on failure")

	empty := []byte{'#'}
	n, err = cur.String("empty", empty)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []byte{0}, empty)

	_, err = cur.String("name", nil)
	assert.Equal(t, jnav.ErrInvalidParameter, err)

	_, err = cur.String("born", make([]byte, 8))
	assert.Equal(t, jnav.ErrNotString, err)

	_, err = cur.StringLen("born")
	assert.Equal(t, jnav.ErrNotString, err)

	_, err = cur.String("nope", make([]byte, 8))
	assert.Equal(t, jnav.ErrKeyNotFound, err)
}

func TestNumbersAndBooleans_ByKey(t *testing.T) {
	t.Parallel()

	cur := parseDoc(t, recordJSON).Cursor()

	born, err := cur.Int("born")
	require.NoError(t, err)
	assert.Equal(t, 1815, born)

	ratio, err := cur.Float("ratio")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, ratio, 1e-12)

	active, err := cur.Bool("active")
	require.NoError(t, err)
	assert.True(t, active)

	retired, err := cur.Bool("retired")
	require.NoError(t, err)
	assert.False(t, retired)

	_, err = cur.Bool("missing")
	assert.Equal(t, jnav.ErrNotBoolean, err)

	_, err = cur.Int("name")
	assert.Equal(t, jnav.ErrNotNumber, err)

	_, err = cur.Float("ints")
	assert.Equal(t, jnav.ErrNotNumber, err)

	_, err = cur.Bool("name")
	assert.Equal(t, jnav.ErrNotNumber, err)
}

func TestElements_ByIndex(t *testing.T) {
	t.Parallel()

	cur := parseDoc(t, recordJSON).Cursor()

	size, err := cur.Array("ints")
	require.NoError(t, err)
	require.Equal(t, 3, size)

	got := make([]int, 0, size)
	for i := range size {
		value, err := cur.ElementInt(i)
		require.NoError(t, err)
		got = append(got, value)
	}
	assert.Equal(t, []int{16, 4, 1994}, got)
	require.NoError(t, cur.ReleaseArray())

	_, err = cur.Array("floats")
	require.NoError(t, err)
	first, err := cur.ElementFloat(0)
	require.NoError(t, err)
	assert.InDelta(t, 19.94, first, 1e-12)
	second, err := cur.ElementFloat(1)
	require.NoError(t, err)
	assert.InDelta(t, -41.6, second, 1e-12)
	require.NoError(t, cur.ReleaseArray())

	_, err = cur.Array("strs")
	require.NoError(t, err)
	buf := make([]byte, 4)
	n, err := cur.ElementString(1, buf)
	require.NoError(t, err)
	assert.Equal(t, "yy", string(buf[:n]))
	_, err = cur.ElementString(1, make([]byte, 2))
	assert.Equal(t, jnav.ErrBufferTooSmall, err)
	_, err = cur.ElementString(0, nil)
	assert.Equal(t, jnav.ErrInvalidParameter, err)
	_, err = cur.ElementString(3, buf)
	assert.Equal(t, jnav.ErrIndexOutOfBounds, err)
	require.NoError(t, cur.ReleaseArray())

	_, err = cur.Array("bools")
	require.NoError(t, err)
	wantBools := []bool{true, false, false, true}
	for i, want := range wantBools {
		value, err := cur.ElementBool(i)
		require.NoError(t, err, "element %d", i)
		assert.Equal(t, want, value, "element %d", i)
	}
	_, err = cur.ElementBool(4)
	assert.Equal(t, jnav.ErrNotBoolean, err)
}

func TestNumericConversion_Lenient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		literal   string
		wantInt   int
		wantFloat float64
	}{
		{"0", 0, 0},
		{"-17", -17, -17},
		{"3.99", 3, 3.99},
		{"-0.5", 0, -0.5},
		{"1e3", 1, 1000},
		{"-7e2", -7, -700},
		{"1.5e+2", 1, 150},
		{"2.5E-1", 2, 0.25},
		{"2e", 2, 2},
		{"4e+", 4, 4},
		{"--1", 0, 0},
		{"-", 0, 0},
		{"1-2", 1, 1},
		{"12.3.4", 12, 12.3},
		{"null", 0, 0},
		{"true", 0, 0},
	}

	for _, testCase := range tests {
		t.Run(testCase.literal, func(t *testing.T) {
			t.Parallel()

			doc := parseDoc(t, "["+testCase.literal+"]")

			gotInt, err := doc.IntAt(1)
			require.NoError(t, err)
			assert.Equal(t, testCase.wantInt, gotInt)

			gotFloat, err := doc.FloatAt(1)
			require.NoError(t, err)
			assert.InDelta(t, testCase.wantFloat, gotFloat, 1e-12)
		})
	}
}

func TestNumericConversion_Limits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		literal string
		want    int
	}{
		{"9223372036854775807", math.MaxInt64},
		{"-9223372036854775808", math.MinInt64},
		{"9223372036854775808", math.MaxInt64},
		{"99999999999999999999", math.MaxInt64},
		{"-99999999999999999999", math.MinInt64},
	}

	for _, testCase := range tests {
		doc := parseDoc(t, testCase.literal)
		got, err := doc.IntAt(0)
		require.NoError(t, err)
		assert.Equal(t, testCase.want, got, testCase.literal)
	}

	huge := parseDoc(t, "1e400")
	value, err := huge.FloatAt(0)
	require.NoError(t, err)
	assert.True(t, math.IsInf(value, 1))

	exactLimit := parseDoc(t, strings.Repeat("1", 32))
	_, err = exactLimit.IntAt(0)
	require.NoError(t, err)

	tooLong := parseDoc(t, strings.Repeat("1", 33))
	_, err = tooLong.IntAt(0)
	assert.Equal(t, jnav.ErrBufferTooSmall, err)
	_, err = tooLong.FloatAt(0)
	assert.Equal(t, jnav.ErrBufferTooSmall, err)
	_, err = tooLong.BoolAt(0)
	assert.Equal(t, jnav.ErrBufferTooSmall, err)
}

func TestBoolAt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		literal string
		want    bool
		wantErr error
	}{
		{"true", true, nil},
		{"1", true, nil},
		{"false", false, nil},
		{"0", false, nil},
		{"null", false, jnav.ErrNotBoolean},
		{"2", false, jnav.ErrNotBoolean},
		{"1.0", false, jnav.ErrNotBoolean},
		{"-0", false, jnav.ErrNotBoolean},
	}

	for _, testCase := range tests {
		t.Run(testCase.literal, func(t *testing.T) {
			t.Parallel()

			got, err := parseDoc(t, testCase.literal).BoolAt(0)
			assert.Equal(t, testCase.wantErr, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestDocumentAccessors_Bounds(t *testing.T) {
	t.Parallel()

	doc := parseDoc(t, `["s",1]`)

	_, err := doc.RawAt(3)
	assert.Equal(t, jnav.ErrIndexOutOfBounds, err)
	_, err = doc.StringAt(-1, make([]byte, 4))
	assert.Equal(t, jnav.ErrIndexOutOfBounds, err)
	_, err = doc.StringLenAt(3)
	assert.Equal(t, jnav.ErrIndexOutOfBounds, err)
	_, err = doc.IntAt(3)
	assert.Equal(t, jnav.ErrIndexOutOfBounds, err)
	_, err = doc.FloatAt(-1)
	assert.Equal(t, jnav.ErrIndexOutOfBounds, err)
	_, err = doc.BoolAt(3)
	assert.Equal(t, jnav.ErrIndexOutOfBounds, err)
	_, err = doc.Token(3)
	assert.Equal(t, jnav.ErrIndexOutOfBounds, err)

	_, err = doc.StringAt(2, make([]byte, 4))
	assert.Equal(t, jnav.ErrNotString, err)
	_, err = doc.IntAt(1)
	assert.Equal(t, jnav.ErrNotNumber, err)
	_, err = doc.IntAt(0)
	assert.Equal(t, jnav.ErrNotNumber, err)

	length, err := doc.StringLenAt(1)
	require.NoError(t, err)
	assert.Equal(t, 1, length)
}
