package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/yaklabco/jnav/internal/input"
	"github.com/yaklabco/jnav/pkg/config"
	"github.com/yaklabco/jnav/pkg/jnav"
	"github.com/yaklabco/jnav/pkg/jsontok"
	"github.com/yaklabco/jnav/pkg/tokenizer"
)

// ErrNotJSON indicates an input that failed to tokenize and does not look
// like JSON either.
var ErrNotJSON = errors.New("input is not JSON")

// Loaded is a document read from a file or standard input.
type Loaded struct {
	Source   *input.Source
	Document *jnav.Document
}

// Load reads the named input and tokenizes it. A zero token capacity counts
// the tokens first and allocates exactly; otherwise the capacity is fixed and
// larger documents fail with tokenizer.ErrCapacityExceeded.
func Load(ctx context.Context, name string, cfg *config.Config, stdin io.Reader) (*Loaded, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	src, err := input.Read(ctx, name, input.Options{Stdin: stdin})
	if err != nil {
		return nil, err
	}

	doc, err := Tokenize(src.Content, cfg)
	if err != nil {
		if !src.IsJSON() {
			return nil, fmt.Errorf("%w: %s looks like %s: %w", ErrNotJSON, src.DisplayName(), src.Language, err)
		}
		return nil, fmt.Errorf("%s: %w", src.DisplayName(), err)
	}

	return &Loaded{Source: src, Document: doc}, nil
}

// Tokenize builds a document from content using the limits in cfg.
func Tokenize(content []byte, cfg *config.Config) (*jnav.Document, error) {
	tok := tokenizer.New(tokenizer.Options{MaxDepth: cfg.MaxDepth})

	capacity := cfg.TokenCapacity
	if capacity <= 0 {
		count, err := tok.Count(content)
		if err != nil {
			return nil, err
		}
		capacity = count
	}

	return jnav.Parse(content, make([]jsontok.Token, capacity), tok)
}
