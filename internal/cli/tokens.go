package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/jnav/internal/logging"
	"github.com/yaklabco/jnav/internal/ui/pretty"
	"github.com/yaklabco/jnav/pkg/config"
	"github.com/yaklabco/jnav/pkg/jsontok"
	"github.com/yaklabco/jnav/pkg/runner"
)

// tokenInfo represents a token in JSON output.
type tokenInfo struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Size   int    `json:"size"`
	Parent int    `json:"parent"`
}

func newTokensCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens <file|->",
		Short: "Print the token layout of a JSON document",
		Long: `Tokenize a JSON document and print one row per token in document order.

START and END are byte offsets into the source, END exclusive; string spans
exclude the quotes. SIZE counts direct children (members of an object,
elements of an array). PARENT is the index of the enclosing token: the key
for a member value, the array for an element and -1 for the root.

Examples:
  jnav tokens data.json
  jnav tokens --format table data.json
  echo '{"a":[1,2]}' | jnav tokens --format json -`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, state, args[0])
		},
	}

	addFormatFlag(cmd, "text, table, json")
	addDocumentFlags(cmd)

	return cmd
}

func runTokens(cmd *cobra.Command, state *app, name string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	start := time.Now()

	loaded, err := runner.Load(ctx, name, state.cfg, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInput, err)
	}
	elapsed := time.Since(start)

	doc := loaded.Document
	source, tokens := doc.Source(), doc.Tokens()

	if err := jsontok.Validate(tokens, len(source)); err != nil {
		return fmt.Errorf("%w: tokenizer produced an invalid layout: %w", ErrInternal, err)
	}

	// Dumps every token to the debug log; a no-op at other levels.
	doc.Dump(logging.Tracer(logger))

	out := cmd.OutOrStdout()
	switch state.cfg.Format {
	case config.FormatJSON:
		infos := make([]tokenInfo, 0, len(tokens))
		for i, tok := range tokens {
			infos = append(infos, tokenInfo{
				Index:  i,
				Kind:   tok.Kind.String(),
				Start:  tok.Start,
				End:    tok.End,
				Size:   tok.Size,
				Parent: tok.Parent,
			})
		}
		return writeJSON(out, infos)

	case config.FormatTable:
		colorEnabled := state.colorEnabled(cmd)
		formatter := pretty.NewTableFormatter(pretty.NewStyles(colorEnabled), colorEnabled, pretty.TerminalWidth(out))
		fmt.Fprint(out, formatter.FormatTable(pretty.TokenRows(source, tokens)))
		fmt.Fprintln(out, formatter.FormatTableSummary(len(tokens), len(source), elapsed.Round(time.Microsecond).String()))

	default:
		for _, row := range pretty.TokenRows(source, tokens) {
			fmt.Fprintln(out, strings.Join([]string{
				fmt.Sprint(row.Index), row.Kind.String(),
				fmt.Sprint(row.Start), fmt.Sprint(row.End),
				fmt.Sprint(row.Size), fmt.Sprint(row.Parent),
				row.Text,
			}, "\t"))
		}
	}

	return nil
}
