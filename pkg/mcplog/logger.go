// Package mcplog appends one JSONL record per MCP tool call, giving the
// stdio server an audit trail it cannot send to stdout.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
)

// Entry is one logged tool call.
type Entry struct {
	Time        string         `json:"time"`
	Tool        string         `json:"tool"`
	Params      map[string]any `json:"params,omitempty"`
	DurationMs  int64          `json:"duration_ms"`
	ResultBytes int            `json:"result_bytes"`
	Error       string         `json:"error,omitempty"`
}

// Logger appends entries to a JSONL file. Safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewLogger opens path for appending, creating parent directories as
// needed. An empty path returns (nil, nil); a nil *Logger means logging is
// disabled and Append on it is a no-op.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Append writes one entry. A log failure never fails the tool call, so
// callers typically discard the error.
func (l *Logger) Append(e Entry) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(e)
}

func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// Redact replaces oversized string parameters with a size marker. Document
// text routinely runs to kilobytes and must never land in the log.
func Redact(params map[string]any) map[string]any {
	const maxParamBytes = 64
	out := make(map[string]any, len(params))
	for k, v := range params {
		if s, ok := v.(string); ok && len(s) > maxParamBytes {
			out[k] = fmt.Sprintf("[%d bytes]", len(s))
			continue
		}
		out[k] = v
	}
	return out
}

// ResultBytes measures the serialized content of a tool result. Zero for
// nil results and on marshal failure.
func ResultBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}
