package workspace

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/proplens/pkg/parser"
	"github.com/gnana997/proplens/pkg/semantic"
	"github.com/gnana997/proplens/pkg/util"
)

// ScanConfig controls which files a workspace scan visits.
type ScanConfig struct {
	// Include patterns, doublestar syntax, matched against the path
	// relative to the scan root.
	Include []string

	// Exclude patterns. A matching directory is skipped entirely.
	Exclude []string

	// Workers overrides the worker count when > 0.
	Workers int
}

// DefaultScanConfig covers the usual JS/TS component tree.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Include: []string{
			"**/*.ts",
			"**/*.tsx",
			"**/*.js",
			"**/*.jsx",
		},
		Exclude: []string{
			"node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			"coverage/**",
			"out/**",
			".next/**",
		},
	}
}

// ScanStats summarizes one workspace scan.
type ScanStats struct {
	FilesDiscovered int
	FilesIndexed    int
	FilesFailed     int
	Components      int
	Factories       int
	Duration        time.Duration
}

// Scanner walks a workspace, extracts declarations from every matching
// file in parallel and feeds them into the index.
type Scanner struct {
	pm     *parser.ParserManager
	index  *Index
	logger *slog.Logger
}

func NewScanner(pm *parser.ParserManager, index *Index, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{pm: pm, index: index, logger: logger}
}

// Scan discovers and indexes every matching file under root.
func (s *Scanner) Scan(root string, cfg ScanConfig) (*ScanStats, error) {
	start := time.Now()

	files, err := s.discover(root, cfg)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	s.logger.Info("workspace discovery complete", "root", root, "files", len(files))

	stats := &ScanStats{FilesDiscovered: len(files)}
	if len(files) == 0 {
		stats.Duration = time.Since(start)
		return stats, nil
	}

	workers := util.GetOptimalPoolSizeWithOverride(cfg.Workers)
	jobs := make(chan string)
	var indexed, failed atomic.Int64

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := s.indexFile(path); err != nil {
					failed.Add(1)
					s.logger.Warn("failed to index file", "file", path, "error", err)
					continue
				}
				indexed.Add(1)
			}
		}()
	}

	for _, path := range files {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	stats.FilesIndexed = int(indexed.Load())
	stats.FilesFailed = int(failed.Load())
	ixStats := s.index.Stats()
	stats.Components = ixStats.Components
	stats.Factories = ixStats.Factories
	stats.Duration = time.Since(start)

	s.logger.Info("workspace scan complete",
		"files_indexed", stats.FilesIndexed,
		"files_failed", stats.FilesFailed,
		"components", stats.Components,
		"factories", stats.Factories,
		"duration_ms", stats.Duration.Milliseconds())

	return stats, nil
}

// indexFile extracts one file's declarations into the index.
func (s *Scanner) indexFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	decls, err := semantic.ExtractDecls(s.pm, path, content)
	if err != nil {
		return err
	}
	s.index.AddFile(decls)
	return nil
}

// discover walks the tree and returns every file matching the config.
func (s *Scanner) discover(root string, cfg ScanConfig) ([]string, error) {
	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern: %s", pattern)
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("walk error", "path", path, "error", err)
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		for _, pattern := range cfg.Exclude {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		for _, pattern := range cfg.Include {
			if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
				files = append(files, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
