// Package document manages open editor documents and serves
// editable-argument requests against versioned snapshots of their content.
package document

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotOpen is returned for operations on a URI that has no open
	// document.
	ErrNotOpen = errors.New("document not open")

	// ErrStaleDocument is returned when a request's document snapshot was
	// superseded by a newer version before the result could be produced.
	ErrStaleDocument = errors.New("document version is stale")

	// ErrCancelled is returned when the request context was cancelled.
	ErrCancelled = errors.New("request cancelled")

	// ErrBadPosition is returned when a line/character position lies
	// outside the document.
	ErrBadPosition = errors.New("position outside document")
)

// Document is one immutable snapshot of an open document. Text is never
// mutated after the snapshot is taken.
type Document struct {
	URI     string
	Version int
	Text    []byte

	// ModStamp is the disk mtime (UnixNano) for snapshots served from the
	// file cache. Zero for documents opened through the store.
	ModStamp int64
}

// Store holds the current snapshot of every open document, keyed by URI.
// All methods are safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func NewStore() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// Open registers a document at version 1. Reopening an already open URI
// replaces its content and resets the version.
func (s *Store) Open(uri, text string) *Document {
	doc := &Document{URI: uri, Version: 1, Text: []byte(text)}

	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Update replaces a document's content. The version must be greater than
// the current one; regressions and replays return ErrStaleDocument.
func (s *Store) Update(uri string, version int, text string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.docs[uri]
	if !ok {
		return nil, fmt.Errorf("update %s: %w", uri, ErrNotOpen)
	}
	if version <= current.Version {
		return nil, fmt.Errorf("update %s: version %d <= %d: %w",
			uri, version, current.Version, ErrStaleDocument)
	}

	doc := &Document{URI: uri, Version: version, Text: []byte(text)}
	s.docs[uri] = doc
	return doc, nil
}

// Close forgets an open document.
func (s *Store) Close(uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[uri]; !ok {
		return fmt.Errorf("close %s: %w", uri, ErrNotOpen)
	}
	delete(s.docs, uri)
	return nil
}

// Get returns the current snapshot of an open document.
func (s *Store) Get(uri string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[uri]
	return doc, ok
}

// Version returns the current version of an open document, or -1 when the
// URI is not open.
func (s *Store) Version(uri string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if doc, ok := s.docs[uri]; ok {
		return doc.Version
	}
	return -1
}

// URIs returns the open document URIs in unspecified order.
func (s *Store) URIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	return uris
}
