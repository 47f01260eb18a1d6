// Package dic owns the mmap'd dictionary file and assembles the header,
// grammar, and lexicon set into a single immutable handle shared across
// threads (spec.md §5 "Shared resources", §6 binary dictionary layout).
package dic

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/rs/zerolog"

	"github.com/sudachigo/sudachigo/dic/categories"
	"github.com/sudachigo/sudachigo/dic/grammar"
	"github.com/sudachigo/sudachigo/dic/header"
	"github.com/sudachigo/sudachigo/dic/lexicon"
)

// Dictionary is a loaded system dictionary, optionally composed with user
// dictionaries added via AddUserDictionary. It owns the mmap mapping its
// lexicons borrow from; Close invalidates those borrows.
//
// Each lexicon reads its word-id table and word-info records in place,
// by non-owning reference into the mapping; the grammar, the trie and the
// word parameters are decoded into their own slices at load time.
// Ownership of the mapping lives here, in the handle (spec.md §5
// "Ownership of dictionary bytes").
type Dictionary struct {
	header     header.Header
	grammar    *grammar.Grammar
	categories *categories.Table
	lexSet     *lexicon.Set

	mappings []mmap.MMap // system mapping plus one per loaded user dictionary
	logger   zerolog.Logger
	closed   bool
}

// Options configures dictionary loading.
type Options struct {
	// Logger receives structured diagnostics during load (spec.md §2
	// ambient "Logging"). The zero value discards everything.
	Logger zerolog.Logger
	// Categories supplies the character-category table used to build
	// input buffers against this dictionary (spec.md §4.3). If nil,
	// every character falls back to the DEFAULT category.
	Categories *categories.Table
}

// Open mmaps systemDictPath read-only and parses its header, grammar and
// lexicon sections.
func Open(systemDictPath string, opts Options) (*Dictionary, error) {
	f, err := os.Open(systemDictPath)
	if err != nil {
		return nil, fmt.Errorf("dic: open %s: %w", systemDictPath, err)
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("dic: mmap %s: %w", systemDictPath, err)
	}

	d, err := buildFromBytes([]byte(m), opts)
	if err != nil {
		_ = m.Unmap()
		opts.Logger.Error().Err(err).Str("path", systemDictPath).Msg("dic: failed to load system dictionary")
		return nil, err
	}
	d.mappings = append(d.mappings, m)
	d.logger.Debug().
		Str("kind", d.header.Kind.String()).
		Uint64("version", d.header.Version).
		Int("words", d.lexSet.Size()).
		Msg("dic: loaded system dictionary")
	return d, nil
}

func buildFromBytes(b []byte, opts Options) (*Dictionary, error) {
	h, err := header.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("dic: %w", err)
	}
	if h.Kind != header.KindSystem {
		return nil, fmt.Errorf("dic: expected system dictionary, got %s", h.Kind)
	}

	off := header.Size
	var gr *grammar.Grammar
	if h.HasGrammar() {
		var n int
		gr, n, err = grammar.Parse(b[off:])
		if err != nil {
			return nil, fmt.Errorf("dic: %w", err)
		}
		off += n
	} else {
		return nil, fmt.Errorf("dic: system dictionary without grammar section")
	}

	lex, err := lexicon.ParseLexicon(b[off:], h.HasSynonymGroupIds())
	if err != nil {
		return nil, fmt.Errorf("dic: %w", err)
	}

	return &Dictionary{
		header:     h,
		grammar:    gr,
		categories: opts.Categories,
		lexSet:     lexicon.NewSet(lex),
		logger:     opts.Logger,
	}, nil
}

// AddUserDictionary mmaps and merges a user dictionary into this handle.
// Up to 14 user dictionaries may be added (spec.md §3, §4.6).
func (d *Dictionary) AddUserDictionary(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("dic: open user dictionary %s: %w", path, err)
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("dic: mmap user dictionary %s: %w", path, err)
	}
	b := []byte(m)

	h, err := header.Parse(b)
	if err != nil {
		_ = m.Unmap()
		return fmt.Errorf("dic: user dictionary %s: %w", path, err)
	}
	if h.Kind != header.KindUser {
		_ = m.Unmap()
		return fmt.Errorf("dic: %s is not a user dictionary", path)
	}

	off := header.Size
	var userGrammar *grammar.Grammar
	if h.HasGrammar() {
		var n int
		userGrammar, n, err = grammar.Parse(b[off:])
		if err != nil {
			_ = m.Unmap()
			return fmt.Errorf("dic: user dictionary %s: %w", path, err)
		}
		off += n
	}

	lex, err := lexicon.ParseLexicon(b[off:], h.HasSynonymGroupIds())
	if err != nil {
		_ = m.Unmap()
		return fmt.Errorf("dic: user dictionary %s: %w", path, err)
	}

	posOffset := d.grammar.PosSize()
	if userGrammar != nil {
		d.grammar.Merge(userGrammar)
	}

	if err := d.lexSet.AddUser(lex, posOffset); err != nil {
		_ = m.Unmap()
		return fmt.Errorf("dic: %w", err)
	}

	d.mappings = append(d.mappings, m)
	d.logger.Debug().Str("path", path).Int("words", lex.Size()).Msg("dic: loaded user dictionary")
	return nil
}

// Grammar returns the dictionary's shared grammar (POS table + connection
// matrix). Safe to share across goroutines after loading completes.
func (d *Dictionary) Grammar() *grammar.Grammar { return d.grammar }

// Lexicon returns the composed lexicon set.
func (d *Dictionary) Lexicon() *lexicon.Set { return d.lexSet }

// Categories returns the character-category table used when building
// input buffers against this dictionary.
func (d *Dictionary) Categories() *categories.Table { return d.categories }

// Header returns the parsed system-dictionary header.
func (d *Dictionary) Header() header.Header { return d.header }

// Close unmaps every mmap region owned by this handle. Supplemented
// beyond spec.md's prose (spec.md §5 "Ownership of dictionary bytes"
// leaves the mapping's lifetime implicit); after Close, the grammar and
// lexicon set must not be used.
func (d *Dictionary) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	var firstErr error
	for _, m := range d.mappings {
		if err := m.Unmap(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
