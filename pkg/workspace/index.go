// Package workspace discovers component and factory declarations across a
// source tree and keeps them indexed for cross-file resolution.
package workspace

import (
	"sort"
	"sync"

	"github.com/gnana997/proplens/pkg/semantic"
)

// Index is the workspace-wide declaration table. It maps component and
// factory names to their declarations and implements semantic.DeclSource
// so models can resolve names declared in other files.
//
// Thread-safe: the scanner's workers and the watcher write concurrently
// while requests read.
type Index struct {
	mu         sync.RWMutex
	components map[string]*semantic.ComponentDecl
	factories  map[string]*semantic.FactoryDecl

	// byFile records which names each file declared so updates and
	// removals can retract them.
	byFile map[string]*fileEntry
}

type fileEntry struct {
	components []string
	factories  []string
}

func NewIndex() *Index {
	return &Index{
		components: make(map[string]*semantic.ComponentDecl),
		factories:  make(map[string]*semantic.FactoryDecl),
		byFile:     make(map[string]*fileEntry),
	}
}

// AddFile indexes one file's declarations, replacing whatever the file
// declared before. On name collisions across files the last write wins.
func (ix *Index) AddFile(decls *semantic.FileDecls) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.removeLocked(decls.Path)

	entry := &fileEntry{}
	for name, decl := range decls.Components {
		ix.components[name] = decl
		entry.components = append(entry.components, name)
	}
	for name, decl := range decls.Factories {
		ix.factories[name] = decl
		entry.factories = append(entry.factories, name)
	}
	ix.byFile[decls.Path] = entry
}

// RemoveFile retracts a file's declarations, e.g. after deletion.
func (ix *Index) RemoveFile(path string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(path)
}

// removeLocked drops a file's names unless another file has since
// redeclared them. Callers must hold ix.mu.
func (ix *Index) removeLocked(path string) {
	entry, ok := ix.byFile[path]
	if !ok {
		return
	}
	for _, name := range entry.components {
		if decl, ok := ix.components[name]; ok && decl.File == path {
			delete(ix.components, name)
		}
	}
	for _, name := range entry.factories {
		if decl, ok := ix.factories[name]; ok && decl.File == path {
			delete(ix.factories, name)
		}
	}
	delete(ix.byFile, path)
}

// LookupComponent implements semantic.DeclSource.
func (ix *Index) LookupComponent(name string) (*semantic.ComponentDecl, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	decl, ok := ix.components[name]
	return decl, ok
}

// LookupFactory implements semantic.DeclSource.
func (ix *Index) LookupFactory(name string) (*semantic.FactoryDecl, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	decl, ok := ix.factories[name]
	return decl, ok
}

// ComponentDecls returns every indexed component sorted by name.
func (ix *Index) ComponentDecls() []*semantic.ComponentDecl {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	decls := make([]*semantic.ComponentDecl, 0, len(ix.components))
	for _, decl := range ix.components {
		decls = append(decls, decl)
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].Name < decls[j].Name })
	return decls
}

// FactoryDecls returns every indexed factory sorted by name.
func (ix *Index) FactoryDecls() []*semantic.FactoryDecl {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	decls := make([]*semantic.FactoryDecl, 0, len(ix.factories))
	for _, decl := range ix.factories {
		decls = append(decls, decl)
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].Name < decls[j].Name })
	return decls
}

// Stats returns current index sizes.
func (ix *Index) Stats() IndexStats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return IndexStats{
		Files:      len(ix.byFile),
		Components: len(ix.components),
		Factories:  len(ix.factories),
	}
}

type IndexStats struct {
	Files      int
	Components int
	Factories  int
}
