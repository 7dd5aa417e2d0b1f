package document

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/proplens/pkg/editable"
	"github.com/gnana997/proplens/pkg/parser"
	"github.com/gnana997/proplens/pkg/semantic"
	"github.com/gnana997/proplens/pkg/util"
)

// defaultModelCacheSize bounds the number of resolved models kept alive.
// Each entry owns a parse tree, so the cache evicts aggressively.
const defaultModelCacheSize = 32

// ServiceConfig configures a document Service.
type ServiceConfig struct {
	// ModelCacheSize overrides the resolved-model cache size when > 0.
	ModelCacheSize int

	// Lookup resolves declarations outside the requested file, typically a
	// workspace index. May be nil.
	Lookup semantic.DeclSource

	// Logger for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Service answers editable-argument requests over the open-document store,
// with a disk fallback for files that are not open. Resolved models are
// cached per document version; eviction closes the parse tree.
type Service struct {
	store  *Store
	pm     *parser.ParserManager
	files  *util.FileCache
	lookup semantic.DeclSource
	logger *slog.Logger

	// mu serializes model resolution and use so an eviction can never
	// close a model another request is still reading.
	mu     sync.Mutex
	models *lru.Cache[string, *semantic.Model]
}

// NewService creates a Service with its own parser manager and file cache.
func NewService(cfg *ServiceConfig) (*Service, error) {
	if cfg == nil {
		cfg = &ServiceConfig{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := cfg.ModelCacheSize
	if size <= 0 {
		size = defaultModelCacheSize
	}

	models, err := lru.NewWithEvict[string, *semantic.Model](size,
		func(key string, m *semantic.Model) {
			m.Close()
		})
	if err != nil {
		return nil, fmt.Errorf("create model cache: %w", err)
	}

	return &Service{
		store:  NewStore(),
		pm:     parser.NewParserManager(logger),
		files:  util.NewFileCache(logger),
		lookup: cfg.Lookup,
		logger: logger,
		models: models,
	}, nil
}

// Store exposes the open-document store for the transport layer.
func (s *Service) Store() *Store { return s.store }

// Close releases every cached model, the parser pools and the file cache.
func (s *Service) Close() error {
	s.mu.Lock()
	s.models.Purge()
	s.mu.Unlock()

	if err := s.pm.Close(); err != nil {
		return err
	}
	return s.files.Close()
}

// EditableArguments computes the editable arguments at a cursor position.
// Returns (nil, nil) when no qualifying invocation encloses the position;
// that absence is a valid answer, not an error.
//
// The result is checked against the document's version after computation:
// if the document changed underneath the request, ErrStaleDocument is
// returned instead of a result for dead content.
func (s *Service) EditableArguments(ctx context.Context, uri string, line, character int) (*editable.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	doc, err := s.snapshot(uri)
	if err != nil {
		return nil, err
	}

	offset, err := OffsetAt(doc.Text, line, character)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	model, err := s.modelLocked(doc)
	if err != nil {
		return nil, err
	}

	// The resolve step may have waited on parsing; re-validate the request
	// before producing a result.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	if current := s.store.Version(uri); current >= 0 && current != doc.Version {
		return nil, fmt.Errorf("%s: version %d superseded by %d: %w",
			uri, doc.Version, current, ErrStaleDocument)
	}

	id := editable.DocumentID{URI: doc.URI, Version: doc.Version}
	return editable.ComputeEditableArguments(model, offset, id), nil
}

// snapshot returns the open document for the URI, or reads the file from
// disk as a version-0 snapshot when it is not open.
func (s *Service) snapshot(uri string) (*Document, error) {
	if doc, ok := s.store.Get(uri); ok {
		return doc, nil
	}

	path := PathForURI(uri)
	mf, err := s.files.Get(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s.logger.Debug("serving unopened document from disk", "uri", uri, "path", path)
	return &Document{URI: uri, Version: 0, Text: mf.Data, ModStamp: mf.ModTime.UnixNano()}, nil
}

// modelLocked returns the resolved model for a document snapshot, resolving
// and caching it on first use. Callers must hold s.mu.
//
// Disk snapshots all carry version 0, so the mtime stamp goes into the key
// too; without it a file edited on disk would be served its old model
// forever.
func (s *Service) modelLocked(doc *Document) (*semantic.Model, error) {
	key := fmt.Sprintf("%s@%d.%d", doc.URI, doc.Version, doc.ModStamp)
	if model, ok := s.models.Get(key); ok {
		return model, nil
	}

	model, err := semantic.Resolve(s.pm, PathForURI(doc.URI), doc.Text, s.lookup)
	if err != nil {
		return nil, err
	}
	s.models.Add(key, model)
	return model, nil
}

// PathForURI maps a file URI to a filesystem path. Plain paths pass
// through unchanged.
func PathForURI(uri string) string {
	return strings.TrimPrefix(uri, "file://")
}
