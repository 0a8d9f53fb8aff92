// Package input reads documents for the CLI from files or standard input and
// guesses whether they are JSON before they reach the tokenizer.
package input

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// StdinName is the argument that selects standard input.
const StdinName = "-"

// LanguageJSON is the detected language of JSON documents.
const LanguageJSON = "json"

// languageText is reported when no language can be determined.
const languageText = "text"

var (
	// ErrEmpty indicates an input without any content.
	ErrEmpty = errors.New("input is empty")

	// ErrBinary indicates an input that looks like binary data.
	ErrBinary = errors.New("input looks like binary data")

	// ErrTooLarge indicates an input larger than Options.MaxBytes.
	ErrTooLarge = errors.New("input too large")
)

// fallbackCandidates are offered to the classifier when a document does not
// look like JSON, to name what it probably is instead.
//
//nolint:gochecknoglobals // Read-only lookup table.
var fallbackCandidates = []string{
	"YAML", "TOML", "XML", "HTML", "Markdown", "JavaScript", "Shell", "INI",
}

// Options controls how input is read.
type Options struct {
	// Stdin is read when the name is "-". Defaults to os.Stdin.
	Stdin io.Reader

	// MaxBytes bounds the input size. Zero means unlimited.
	MaxBytes int64
}

// Source is a document read into memory.
type Source struct {
	// Name is the file path, or "-" for standard input.
	Name string

	// Content is the raw document.
	Content []byte

	// Language is the lower-case detected language, "json" for JSON.
	Language string
}

// IsJSON reports whether the source was detected as JSON.
func (s *Source) IsJSON() bool {
	return s.Language == LanguageJSON
}

// DisplayName returns a name suitable for messages.
func (s *Source) DisplayName() string {
	if s.Name == StdinName {
		return "<stdin>"
	}
	return s.Name
}

// Read loads the named document.
func Read(ctx context.Context, name string, opts Options) (*Source, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	var reader io.Reader
	if name == StdinName {
		reader = opts.Stdin
		if reader == nil {
			reader = os.Stdin
		}
	} else {
		file, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		reader = file
	}

	if opts.MaxBytes > 0 {
		reader = io.LimitReader(reader, opts.MaxBytes+1)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	if opts.MaxBytes > 0 && int64(len(content)) > opts.MaxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, name, opts.MaxBytes)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, name)
	}

	if enry.IsBinary(content) {
		return nil, fmt.Errorf("%w: %s", ErrBinary, name)
	}

	detectName := name
	if name == StdinName {
		detectName = ""
	}

	return &Source{
		Name:     name,
		Content:  content,
		Language: Detect(detectName, content),
	}, nil
}

// Detect returns the lower-case language of content. Content that is shaped
// like JSON wins over the file name, which is consulted next.
func Detect(name string, content []byte) string {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return languageText
	}

	if looksLikeJSON(trimmed) {
		return LanguageJSON
	}

	if name != "" {
		if lang, safe := enry.GetLanguageByExtension(filepath.Base(name)); safe {
			return normalize(lang)
		}
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	if lang, _ := enry.GetLanguageByClassifier(content, fallbackCandidates); lang != "" {
		return normalize(lang)
	}

	return languageText
}

// looksLikeJSON checks the leading and trailing delimiters of a trimmed
// document, or that it is a single JSON scalar.
func looksLikeJSON(trimmed []byte) bool {
	first, last := trimmed[0], trimmed[len(trimmed)-1]
	switch {
	case first == '{' && last == '}', first == '[' && last == ']':
		return true
	case first == '"' && last == '"':
		return true
	}

	switch string(trimmed) {
	case "true", "false", "null":
		return true
	}

	numeric := first == '-' || (first >= '0' && first <= '9')
	return numeric && !bytes.ContainsAny(trimmed, " \t\r\n")
}

func normalize(lang string) string {
	lower := strings.ToLower(lang)
	if strings.HasPrefix(lower, LanguageJSON) {
		return LanguageJSON
	}
	return lower
}
