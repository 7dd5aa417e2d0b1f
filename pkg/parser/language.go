package parser

import (
	"path/filepath"
	"strings"
)

// Language selects a tree-sitter grammar.
type Language int

const (
	LanguageTypeScript Language = iota
	LanguageJavaScript
	LanguageUnknown
)

func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectLanguage maps a file extension to its grammar. Files that are not
// JS or TS source return LanguageUnknown.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// IsTSXFile reports whether path selects the TSX grammar variant.
func IsTSXFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tsx")
}
