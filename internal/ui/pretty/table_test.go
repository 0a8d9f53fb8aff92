package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/jnav/internal/ui/pretty"
	"github.com/yaklabco/jnav/pkg/jsontok"
	"github.com/yaklabco/jnav/pkg/tokenizer"
)

func tokenize(t *testing.T, src string) []jsontok.Token {
	t.Helper()

	tokens := make([]jsontok.Token, 64)
	n, err := tokenizer.Tokenize([]byte(src), tokens)
	require.NoError(t, err)
	return tokens[:n]
}

func TestTokenRows(t *testing.T) {
	t.Parallel()

	src := "{\"a\": [1,\n  2]}"
	rows := pretty.TokenRows([]byte(src), tokenize(t, src))
	require.Len(t, rows, 5)

	assert.Equal(t, pretty.TableRow{
		Index: 0, Kind: jsontok.KindObject, Start: 0, End: len(src), Size: 1, Parent: -1,
		Text: `{"a": [1, 2]}`,
	}, rows[0])
	assert.Equal(t, "a", rows[1].Text)
	assert.Equal(t, "[1, 2]", rows[2].Text, "whitespace runs collapse to one space")
	assert.Equal(t, 2, rows[2].Size)
	assert.Equal(t, 2, rows[4].Parent)
}

func TestFormatTable(t *testing.T) {
	t.Parallel()

	src := `{"a":{"b":1},"c":[10,20,30]}`
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 100)

	output := formatter.FormatTable(pretty.TokenRows([]byte(src), tokenize(t, src)))
	lines := strings.Split(strings.TrimSuffix(output, "\n"), "\n")

	// header, separator, 10 rows, separator, legend
	require.Len(t, lines, 14)
	assert.Equal(t, []string{"INDEX", "KIND", "START", "END", "SIZE", "PARENT", "TEXT"}, strings.Fields(lines[0]))
	assert.Equal(t, strings.Repeat("=", len(lines[1])), lines[1])
	assert.Equal(t, []string{"0", "object", "0", "28", "2", "-1", src}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"6", "array", "17", "27", "3", "5", "[10,20,30]"}, strings.Fields(lines[8]))
	assert.Equal(t, []string{"9", "primitive", "24", "26", "0", "6", "30"}, strings.Fields(lines[11]))
	assert.Contains(t, lines[13], "Legend")
}

func TestFormatTable_Empty(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 0)
	assert.Empty(t, formatter.FormatTable(nil))
}

func TestFormatTable_TruncatesTextToTerminalWidth(t *testing.T) {
	t.Parallel()

	src := `["` + strings.Repeat("x", 200) + `"]`
	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 80)

	output := formatter.FormatTable(pretty.TokenRows([]byte(src), tokenize(t, src)))
	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		if strings.Contains(line, "Legend") {
			continue
		}
		assert.LessOrEqual(t, len(line), 80, line)
	}
	assert.Contains(t, output, "...")
}

func TestFormatTableSummary(t *testing.T) {
	t.Parallel()

	formatter := pretty.NewTableFormatter(pretty.NewStyles(false), false, 100)
	assert.Equal(t, " 10 tokens | 28 bytes | 3ms", formatter.FormatTableSummary(10, 28, "3ms"))
	assert.Equal(t, " 1 tokens | 2 bytes", formatter.FormatTableSummary(1, 2, ""))
}
