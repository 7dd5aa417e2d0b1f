// Package parser owns the tree-sitter parser pools for the supported
// JavaScript and TypeScript grammars. Parsers are pooled per grammar so
// concurrent requests never share one; callers own the returned trees and
// must Close them.
package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/proplens/pkg/util"
)

// grammarKey identifies one pooled grammar. TSX is a distinct grammar, not
// a flag on TypeScript.
type grammarKey struct {
	lang Language
	tsx  bool
}

// ParserManager hands out parse trees for JS/TS/TSX source. Pools are
// created lazily per grammar and live until Close.
type ParserManager struct {
	mu     sync.RWMutex
	pools  map[grammarKey]*grammarPool
	logger *slog.Logger
}

func NewParserManager(logger *slog.Logger) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:  make(map[grammarKey]*grammarPool),
		logger: logger,
	}
}

// Parse parses source with the given grammar. The tree is returned even
// when it contains syntax errors; partial trees still answer queries.
// The caller must Close the tree.
func (pm *ParserManager) Parse(source []byte, lang Language, tsx bool) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("no grammar for unknown language")
	}

	pool, err := pm.pool(lang, tsx)
	if err != nil {
		return nil, err
	}

	p, err := pool.acquire()
	if err != nil {
		return nil, err
	}
	tree := p.Parse(source, nil)
	pool.release(p)

	if tree == nil {
		return nil, fmt.Errorf("%s grammar produced no tree", lang)
	}
	if tree.RootNode().HasError() {
		pm.logger.Warn("source has syntax errors", "language", lang.String())
	}
	return tree, nil
}

// ParseFile parses source with the grammar its file extension selects.
func (pm *ParserManager) ParseFile(source []byte, path string) (*ts.Tree, error) {
	lang := DetectLanguage(path)
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", path)
	}
	return pm.Parse(source, lang, IsTSXFile(path))
}

// Close frees every pooled parser. The manager must not be used afterwards.
func (pm *ParserManager) Close() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	for _, pool := range pm.pools {
		pool.close()
	}
	pm.pools = make(map[grammarKey]*grammarPool)
	return nil
}

// pool returns the pool for a grammar, creating it on first use.
func (pm *ParserManager) pool(lang Language, tsx bool) (*grammarPool, error) {
	key := grammarKey{lang: lang, tsx: tsx}

	pm.mu.RLock()
	pool, ok := pm.pools[key]
	pm.mu.RUnlock()
	if ok {
		return pool, nil
	}

	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pool, ok = pm.pools[key]; ok {
		return pool, nil
	}

	grammar, err := grammarPointer(lang, tsx)
	if err != nil {
		return nil, err
	}
	pool = newGrammarPool(grammar, util.GetOptimalPoolSize())
	pm.pools[key] = pool

	pm.logger.Debug("grammar pool created",
		"language", lang.String(), "tsx", tsx, "capacity", pool.capacity)
	return pool, nil
}

func grammarPointer(lang Language, tsx bool) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		if tsx {
			return ts_typescript.LanguageTSX(), nil
		}
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("no grammar for %s", lang)
	}
}
