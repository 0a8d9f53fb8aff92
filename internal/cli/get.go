package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yaklabco/jnav/internal/logging"
	"github.com/yaklabco/jnav/internal/ui/pretty"
	"github.com/yaklabco/jnav/pkg/config"
	"github.com/yaklabco/jnav/pkg/jnav"
	"github.com/yaklabco/jnav/pkg/jsontok"
	"github.com/yaklabco/jnav/pkg/query"
	"github.com/yaklabco/jnav/pkg/runner"
)

// Conversions selectable with --as.
const (
	asRaw    = "raw"
	asString = "string"
	asInt    = "int"
	asFloat  = "float"
	asBool   = "bool"
)

type getFlags struct {
	as  string
	raw bool
}

// getResult is one resolved path in JSON output.
type getResult struct {
	Path  string `json:"path"`
	Kind  string `json:"kind,omitempty"`
	Size  *int   `json:"size,omitempty"`
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`

	kind jsontok.Kind
	text string // printed by text output
	bare string // printed by --raw; strings lose their quotes
	err  error
}

func newGetCommand(state *app) *cobra.Command {
	flags := &getFlags{}

	cmd := &cobra.Command{
		Use:   "get <file|-> <path>...",
		Short: "Read values from a JSON document",
		Long: `Resolve one or more paths in a JSON document and print the values found.

Paths start at the document root. Members are selected with .key and elements
with [index]; keys containing '.', '[', ']' or '\' escape them with '\'.
Keys are compared with member names as written in the source.

Examples:
  jnav get package.json $.version
  jnav get data.json '$.items[0].id' '$.items[0].tags'
  jnav get --as int --raw data.json '$.count'
  curl -s https://example.com/api | jnav get - $.status`,
		Args: usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, state, args[0], args[1:], flags)
		},
	}

	addFormatFlag(cmd, "text, json")
	addDocumentFlags(cmd)
	cmd.Flags().StringVar(&flags.as, "as", asRaw, "convert values: raw, string, int, float, bool")
	cmd.Flags().BoolVarP(&flags.raw, "raw", "r", false, "print only the values, strings without quotes")

	return cmd
}

func runGet(cmd *cobra.Command, state *app, name string, exprs []string, flags *getFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	switch flags.as {
	case asRaw, asString, asInt, asFloat, asBool:
	default:
		return fmt.Errorf("%w: invalid --as %q", ErrUsage, flags.as)
	}

	paths := make([]*query.Path, 0, len(exprs))
	for _, expr := range exprs {
		path, err := query.Compile(expr)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		paths = append(paths, path)
	}

	loaded, err := runner.Load(ctx, name, state.cfg, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInput, err)
	}

	doc := loaded.Document
	logger.Debug("document loaded",
		logging.FieldInput, loaded.Source.DisplayName(),
		logging.FieldBytes, len(doc.Source()),
		logging.FieldTokens, doc.Len(),
		logging.FieldLanguage, loaded.Source.Language,
	)

	cur := doc.NewCursor(jnav.CursorOptions{Tracer: logging.Tracer(logger)})
	results := make([]getResult, 0, len(paths))
	failed := 0
	for _, path := range paths {
		result := resolveValue(cur, path, flags.as)
		if result.err != nil {
			failed++
		}
		results = append(results, result)
	}

	out := cmd.OutOrStdout()
	switch {
	case state.cfg.Format == config.FormatJSON:
		if err := writeJSON(out, results); err != nil {
			return err
		}
	case flags.raw:
		for _, result := range results {
			if result.err != nil {
				logger.Error("query failed", logging.FieldPath, result.Path, logging.FieldError, result.err)
				continue
			}
			fmt.Fprintln(out, result.bare)
		}
	default:
		styles := pretty.NewStyles(state.colorEnabled(cmd))
		for _, result := range results {
			if result.err != nil {
				fmt.Fprint(out, styles.FormatQueryError(result.Path, result.err))
				continue
			}
			fmt.Fprint(out, styles.FormatValue(result.Path, result.kind, result.text))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d paths", ErrQueryFailed, failed, len(paths))
	}
	return nil
}

// resolveValue resolves path and converts the value as requested. The cursor
// is left where it was.
func resolveValue(cur *jnav.Cursor, path *query.Path, as string) getResult {
	result := getResult{Path: path.String()}

	idx, err := path.Resolve(cur)
	if err != nil {
		return result.fail(err)
	}

	doc := cur.Document()
	tok, err := doc.Token(idx)
	if err != nil {
		return result.fail(err)
	}

	result.kind = tok.Kind
	result.Kind = tok.Kind.String()
	if tok.IsContainer() {
		size := tok.Size
		result.Size = &size
	}

	switch as {
	case asString:
		n, err := doc.StringLenAt(idx)
		if err != nil {
			return result.fail(err)
		}
		buf := make([]byte, n+1)
		written, err := doc.StringAt(idx, buf)
		if err != nil {
			return result.fail(err)
		}
		result.text = string(buf[:written])
		result.Value = result.text

	case asInt:
		value, err := doc.IntAt(idx)
		if err != nil {
			return result.fail(err)
		}
		result.text = strconv.Itoa(value)
		result.Value = value

	case asFloat:
		value, err := doc.FloatAt(idx)
		if err != nil {
			return result.fail(err)
		}
		result.text = strconv.FormatFloat(value, 'g', -1, 64)
		result.Value = value
		if math.IsInf(value, 0) || math.IsNaN(value) {
			result.Value = result.text
		}

	case asBool:
		value, err := doc.BoolAt(idx)
		if err != nil {
			return result.fail(err)
		}
		result.text = strconv.FormatBool(value)
		result.Value = value

	default:
		text := valueJSON(doc.Source(), tok)
		result.text = string(text)
		result.Value = result.text
		if json.Valid(text) {
			result.Value = json.RawMessage(text)
		}
		result.bare = string(tok.Text(doc.Source()))
		return result
	}

	result.bare = result.text
	return result
}

func (r getResult) fail(err error) getResult {
	r.err = err
	r.Error = err.Error()
	return r
}

// valueJSON returns the source text of tok as JSON, restoring the quotes the
// token span excludes for strings.
func valueJSON(source []byte, tok jsontok.Token) []byte {
	if tok.Kind == jsontok.KindString {
		return source[tok.Start-1 : tok.End+1]
	}
	return tok.Text(source)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
