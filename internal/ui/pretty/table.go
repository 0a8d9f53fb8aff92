package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/jnav/pkg/jsontok"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 7 // INDEX, KIND, START, END, SIZE, PARENT, TEXT
	minIndexWidth    = 5
	minKindWidth     = 9 // "primitive"
	minOffsetWidth   = 5
	minSizeWidth     = 4
	minParentWidth   = 6
	minTextWidth     = 12
	heavySeparator   = "="
)

// TableRow represents a single token in the token table.
type TableRow struct {
	Index  int
	Kind   jsontok.Kind
	Start  int
	End    int
	Size   int
	Parent int
	Text   string
}

// TokenRows builds table rows for tokens over content. Token text is
// flattened onto one line.
func TokenRows(content []byte, tokens []jsontok.Token) []TableRow {
	rows := make([]TableRow, 0, len(tokens))
	for i, tok := range tokens {
		rows = append(rows, TableRow{
			Index:  i,
			Kind:   tok.Kind,
			Start:  tok.Start,
			End:    tok.End,
			Size:   tok.Size,
			Parent: tok.Parent,
			Text:   flatten(tok.Text(content)),
		})
	}
	return rows
}

// TableFormatter formats tokens as a styled table.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

type columnWidths struct {
	index  int
	kind   int
	start  int
	end    int
	size   int
	parent int
	text   int
}

// FormatTable formats token rows as a styled table.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatLegend())
	builder.WriteString("\n")

	return builder.String()
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(tokens, bytes int, duration string) string {
	parts := []string{
		t.styles.Bold.Render(fmt.Sprintf("%d tokens", tokens)),
		fmt.Sprintf("%d bytes", bytes),
	}
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}
	return " " + strings.Join(parts, " | ")
}

// calculateColumnWidths determines column widths based on content.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		index:  minIndexWidth,
		kind:   minKindWidth,
		start:  minOffsetWidth,
		end:    minOffsetWidth,
		size:   minSizeWidth,
		parent: minParentWidth,
		text:   minTextWidth,
	}

	for _, row := range rows {
		widths.index = max(widths.index, digits(row.Index))
		widths.start = max(widths.start, digits(row.Start))
		widths.end = max(widths.end, digits(row.End))
		widths.size = max(widths.size, digits(row.Size))
		widths.parent = max(widths.parent, digits(row.Parent))
		widths.text = max(widths.text, len(row.Text))
	}

	// Constrain to terminal width by shrinking the text column.
	totalWidth := calculateTotalWidth(widths)
	if totalWidth > t.termWidth {
		excess := totalWidth - t.termWidth
		widths.text = max(minTextWidth, widths.text-excess)
	}

	return widths
}

// calculateTotalWidth calculates the total table width from column widths.
func calculateTotalWidth(widths columnWidths) int {
	return widths.index + widths.kind + widths.start + widths.end +
		widths.size + widths.parent + widths.text + tablePadding*tableColumnCount
}

// formatHeader formats the table header row.
func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %*s  %-*s  %*s  %*s  %*s  %*s  %-*s",
		widths.index, "INDEX",
		widths.kind, "KIND",
		widths.start, "START",
		widths.end, "END",
		widths.size, "SIZE",
		widths.parent, "PARENT",
		widths.text, "TEXT",
	)
	return t.styles.TableHeader.Render(header)
}

// formatSeparator formats a separator line.
func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, calculateTotalWidth(widths)))
}

// formatRow formats a single token row. Padding happens before styling so
// escape codes do not disturb the alignment.
func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	kind := t.styles.Kind(row.Kind).Render(fmt.Sprintf("%-*s", widths.kind, row.Kind))
	text := truncateString(row.Text, widths.text)

	return fmt.Sprintf(" %*d  %s  %*d  %*d  %*d  %*d  %s",
		widths.index, row.Index,
		kind,
		widths.start, row.Start,
		widths.end, row.End,
		widths.size, row.Size,
		widths.parent, row.Parent,
		text,
	)
}

// formatLegend formats the legend explaining the columns.
func (t *TableFormatter) formatLegend() string {
	if !t.colorEnabled {
		return t.styles.TableLegend.Render(
			" Legend: SIZE = direct children | PARENT = enclosing token, -1 at the root",
		)
	}

	samples := make([]string, 0, 4)
	for _, kind := range []jsontok.Kind{
		jsontok.KindObject, jsontok.KindArray, jsontok.KindString, jsontok.KindPrimitive,
	} {
		samples = append(samples, t.styles.Kind(kind).Render(kind.String()))
	}

	return t.styles.TableLegend.Render(" Legend: ") + strings.Join(samples, "  ")
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// flatten collapses runs of whitespace so container text fits on one line.
func flatten(text []byte) string {
	return strings.Join(strings.Fields(string(text)), " ")
}

func digits(n int) int {
	return len(strconv.Itoa(n))
}
