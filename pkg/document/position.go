package document

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// OffsetAt converts a 0-based line and character position to a byte offset.
// Characters count runes, not bytes, so multi-byte content addresses the
// same way an editor does. A character just past the last rune of a line
// is valid (the caret sits at end of line); anything further is
// ErrBadPosition.
func OffsetAt(text []byte, line, character int) (uint32, error) {
	if line < 0 || character < 0 {
		return 0, fmt.Errorf("%d:%d: %w", line, character, ErrBadPosition)
	}

	offset := 0
	for l := 0; l < line; l++ {
		idx := bytes.IndexByte(text[offset:], '\n')
		if idx < 0 {
			return 0, fmt.Errorf("line %d past end of document: %w", line, ErrBadPosition)
		}
		offset += idx + 1
	}

	for c := 0; c < character; c++ {
		if offset >= len(text) || text[offset] == '\n' {
			return 0, fmt.Errorf("character %d past end of line %d: %w",
				character, line, ErrBadPosition)
		}
		_, size := utf8.DecodeRune(text[offset:])
		offset += size
	}

	return uint32(offset), nil
}
