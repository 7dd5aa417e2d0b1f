package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/proplens/pkg/parser"
	"github.com/gnana997/proplens/pkg/semantic"
)

const buttonSource = `interface ButtonProps {
  label: string;
  size?: Int;
}

export function Button({ label, size = 10 }: ButtonProps) {
  return <div>{label}</div>;
}
`

const badgeSource = `/** @componentFactory */
export function makeBadge(text: string): JSX.Element {
  return <span>{text}</span>;
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func extractFile(t *testing.T, pm *parser.ParserManager, path, content string) *semantic.FileDecls {
	t.Helper()
	decls, err := semantic.ExtractDecls(pm, path, []byte(content))
	require.NoError(t, err)
	return decls
}

func TestIndex_AddLookupRemove(t *testing.T) {
	pm := parser.NewParserManager(nil)
	t.Cleanup(func() { pm.Close() })

	index := NewIndex()
	index.AddFile(extractFile(t, pm, "/src/button.tsx", buttonSource))
	index.AddFile(extractFile(t, pm, "/src/badge.tsx", badgeSource))

	button, ok := index.LookupComponent("Button")
	require.True(t, ok)
	assert.Equal(t, "/src/button.tsx", button.File)
	require.Len(t, button.Params, 2)

	badge, ok := index.LookupFactory("makeBadge")
	require.True(t, ok)
	assert.True(t, badge.Marker)

	stats := index.Stats()
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 1, stats.Components)
	assert.Equal(t, 1, stats.Factories)

	index.RemoveFile("/src/button.tsx")
	_, ok = index.LookupComponent("Button")
	assert.False(t, ok)
	_, ok = index.LookupFactory("makeBadge")
	assert.True(t, ok)
}

func TestIndex_ReAddReplacesFileDecls(t *testing.T) {
	pm := parser.NewParserManager(nil)
	t.Cleanup(func() { pm.Close() })

	index := NewIndex()
	index.AddFile(extractFile(t, pm, "/src/button.tsx", buttonSource))

	renamed := `export function IconButton({ icon }: { icon: string }) {
  return <div>{icon}</div>;
}
`
	index.AddFile(extractFile(t, pm, "/src/button.tsx", renamed))

	_, ok := index.LookupComponent("Button")
	assert.False(t, ok)
	_, ok = index.LookupComponent("IconButton")
	assert.True(t, ok)
}

func TestIndex_CollisionSurvivesOtherFileRemoval(t *testing.T) {
	pm := parser.NewParserManager(nil)
	t.Cleanup(func() { pm.Close() })

	index := NewIndex()
	index.AddFile(extractFile(t, pm, "/a/button.tsx", buttonSource))
	index.AddFile(extractFile(t, pm, "/b/button.tsx", buttonSource))

	// The older file's retraction must not drop the surviving declaration.
	index.RemoveFile("/a/button.tsx")
	button, ok := index.LookupComponent("Button")
	require.True(t, ok)
	assert.Equal(t, "/b/button.tsx", button.File)
}

func TestScanner_Scan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/button.tsx", buttonSource)
	writeFile(t, dir, "src/badge.tsx", badgeSource)
	writeFile(t, dir, "node_modules/pkg/index.tsx", buttonSource)
	writeFile(t, dir, "README.md", "# notes")

	pm := parser.NewParserManager(nil)
	t.Cleanup(func() { pm.Close() })
	index := NewIndex()
	scanner := NewScanner(pm, index, nil)

	stats, err := scanner.Scan(dir, DefaultScanConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesDiscovered)
	assert.Equal(t, 2, stats.FilesIndexed)
	assert.Equal(t, 0, stats.FilesFailed)
	assert.Equal(t, 1, stats.Components)
	assert.Equal(t, 1, stats.Factories)

	decls := index.ComponentDecls()
	require.Len(t, decls, 1)
	assert.Equal(t, "Button", decls[0].Name)
}

func TestScanner_InvalidPattern(t *testing.T) {
	pm := parser.NewParserManager(nil)
	t.Cleanup(func() { pm.Close() })
	scanner := NewScanner(pm, NewIndex(), nil)

	_, err := scanner.Scan(t.TempDir(), ScanConfig{Include: []string{"[broken"}})
	assert.Error(t, err)
}

func TestWatcher_ReindexesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "button.tsx", buttonSource)

	pm := parser.NewParserManager(nil)
	t.Cleanup(func() { pm.Close() })
	index := NewIndex()

	watcher, err := NewWatcher(pm, index, 20*time.Millisecond, nil)
	require.NoError(t, err)
	t.Cleanup(func() { watcher.Stop() })
	require.NoError(t, watcher.Start(dir))

	require.NoError(t, os.WriteFile(path, []byte(buttonSource), 0o644))
	assert.Eventually(t, func() bool {
		_, ok := index.LookupComponent("Button")
		return ok
	}, 3*time.Second, 25*time.Millisecond)

	require.NoError(t, os.Remove(path))
	assert.Eventually(t, func() bool {
		_, ok := index.LookupComponent("Button")
		return !ok
	}, 3*time.Second, 25*time.Millisecond)
}
