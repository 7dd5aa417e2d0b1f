package parser

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func newTestManager(t *testing.T) *ParserManager {
	t.Helper()
	pm := NewParserManager(nil)
	t.Cleanup(func() { pm.Close() })
	return pm
}

func TestParseFile_Fixtures(t *testing.T) {
	pm := newTestManager(t)

	for _, name := range []string{"sample.ts", "sample.tsx", "sample.js"} {
		t.Run(name, func(t *testing.T) {
			tree, err := pm.ParseFile(fixture(t, name), name)
			require.NoError(t, err)
			defer tree.Close()

			root := tree.RootNode()
			assert.Equal(t, "program", root.Kind())
			assert.False(t, root.HasError())
		})
	}
}

func TestParseFile_TSXGrammarSeesJSX(t *testing.T) {
	pm := newTestManager(t)

	tree, err := pm.ParseFile(fixture(t, "sample.tsx"), "sample.tsx")
	require.NoError(t, err)
	defer tree.Close()

	sexp := tree.RootNode().ToSexp()
	assert.Contains(t, sexp, "jsx_element")
	assert.Contains(t, sexp, "jsx_self_closing_element")
}

func TestParseFile_UnsupportedExtension(t *testing.T) {
	pm := newTestManager(t)

	tree, err := pm.ParseFile([]byte("body { color: red; }"), "styles.css")
	assert.Error(t, err)
	assert.Nil(t, tree)
}

func TestParse_UnknownLanguage(t *testing.T) {
	pm := newTestManager(t)

	tree, err := pm.Parse([]byte("text"), LanguageUnknown, false)
	assert.Error(t, err)
	assert.Nil(t, tree)
}

func TestParse_SyntaxErrorStillYieldsTree(t *testing.T) {
	pm := newTestManager(t)

	tree, err := pm.Parse([]byte("const size: = ;"), LanguageTypeScript, false)
	require.NoError(t, err)
	defer tree.Close()

	assert.True(t, tree.RootNode().HasError())
}

func TestParse_PoolReuse(t *testing.T) {
	pm := newTestManager(t)

	// Two sequential parses of the same grammar share one pool.
	for i := 0; i < 2; i++ {
		tree, err := pm.Parse([]byte("const size = 10;"), LanguageTypeScript, false)
		require.NoError(t, err)
		tree.Close()
	}
	assert.Len(t, pm.pools, 1)

	tree, err := pm.Parse([]byte("const size = 10;"), LanguageJavaScript, false)
	require.NoError(t, err)
	tree.Close()
	assert.Len(t, pm.pools, 2)
}

func TestParse_Concurrent(t *testing.T) {
	pm := newTestManager(t)
	source := fixture(t, "sample.tsx")

	const goroutines = 64
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := pm.ParseFile(source, "sample.tsx")
			if err != nil {
				errs <- err
				return
			}
			defer tree.Close()
			if tree.RootNode().Kind() != "program" {
				errs <- assert.AnError
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent parse: %v", err)
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"widget.ts", LanguageTypeScript},
		{"widget.tsx", LanguageTypeScript},
		{"widget.mts", LanguageTypeScript},
		{"badge.js", LanguageJavaScript},
		{"badge.jsx", LanguageJavaScript},
		{"badge.mjs", LanguageJavaScript},
		{"badge.cjs", LanguageJavaScript},
		{"README.md", LanguageUnknown},
		{"styles.css", LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.path))
		})
	}
}

func TestIsTSXFile(t *testing.T) {
	assert.True(t, IsTSXFile("app.tsx"))
	assert.True(t, IsTSXFile("APP.TSX"))
	assert.False(t, IsTSXFile("app.ts"))
	assert.False(t, IsTSXFile("app.jsx"))
}
