package mcplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() == "" {
			continue
		}
		var e Entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	return entries
}

func TestRedact(t *testing.T) {
	long := string(make([]byte, 500))
	out := Redact(map[string]any{
		"uri":     "file:///widget.tsx",
		"text":    long,
		"line":    10,
		"version": nil,
	})

	assert.Equal(t, "file:///widget.tsx", out["uri"])
	assert.Equal(t, "[500 bytes]", out["text"], "document text never lands in the log")
	assert.Equal(t, 10, out["line"])
	assert.Contains(t, out, "version")
}

func TestRedact_Empty(t *testing.T) {
	assert.Empty(t, Redact(nil))
	assert.Empty(t, Redact(map[string]any{}))
}

func TestLogger_AppendAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	entries := []Entry{
		{Time: time.Now().UTC().Format(time.RFC3339), Tool: "open_document", Params: map[string]any{"uri": "file:///a.tsx", "text": "[1200 bytes]"}, DurationMs: 2, ResultBytes: 60},
		{Time: time.Now().UTC().Format(time.RFC3339), Tool: "get_editable_arguments", Params: map[string]any{"uri": "file:///a.tsx", "line": 10, "character": 12}, DurationMs: 8, ResultBytes: 410},
		{Time: time.Now().UTC().Format(time.RFC3339), Tool: "close_document", Error: "document not open"},
	}
	for _, e := range entries {
		require.NoError(t, logger.Append(e))
	}
	require.NoError(t, logger.Close())

	got := readEntries(t, path)
	require.Len(t, got, len(entries))
	assert.Equal(t, "open_document", got[0].Tool)
	assert.Equal(t, int64(8), got[1].DurationMs)
	assert.Equal(t, "document not open", got[2].Error)
}

func TestLogger_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	const goroutines = 40
	const each = 10

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				_ = logger.Append(Entry{Tool: "list_components"})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	// Every line must decode: a torn write would fail the unmarshal.
	got := readEntries(t, path)
	assert.Len(t, got, goroutines*each)
}

func TestNewLogger_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mcp", "tools.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewLogger_EmptyPathDisablesLogging(t *testing.T) {
	logger, err := NewLogger("")
	require.NoError(t, err)
	require.Nil(t, logger)

	// The nil logger is usable.
	assert.NoError(t, logger.Append(Entry{Tool: "open_document"}))
	assert.NoError(t, logger.Close())
}
