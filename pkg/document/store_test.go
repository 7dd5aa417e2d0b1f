package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_OpenUpdateClose(t *testing.T) {
	store := NewStore()

	doc := store.Open("file:///a.tsx", "one")
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, []byte("one"), doc.Text)

	updated, err := store.Update("file:///a.tsx", 2, "two")
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, []byte("two"), updated.Text)

	got, ok := store.Get("file:///a.tsx")
	require.True(t, ok)
	assert.Equal(t, updated, got)

	require.NoError(t, store.Close("file:///a.tsx"))
	_, ok = store.Get("file:///a.tsx")
	assert.False(t, ok)
}

func TestStore_VersionMustIncrease(t *testing.T) {
	store := NewStore()
	store.Open("file:///a.tsx", "one")

	_, err := store.Update("file:///a.tsx", 1, "replay")
	assert.ErrorIs(t, err, ErrStaleDocument)

	_, err = store.Update("file:///a.tsx", 0, "regression")
	assert.ErrorIs(t, err, ErrStaleDocument)

	// Content is untouched after rejected updates.
	doc, ok := store.Get("file:///a.tsx")
	require.True(t, ok)
	assert.Equal(t, []byte("one"), doc.Text)
}

func TestStore_NotOpen(t *testing.T) {
	store := NewStore()

	_, err := store.Update("file:///missing.tsx", 2, "x")
	assert.ErrorIs(t, err, ErrNotOpen)

	assert.ErrorIs(t, store.Close("file:///missing.tsx"), ErrNotOpen)
	assert.Equal(t, -1, store.Version("file:///missing.tsx"))
}

func TestStore_ReopenResetsVersion(t *testing.T) {
	store := NewStore()
	store.Open("file:///a.tsx", "one")
	_, err := store.Update("file:///a.tsx", 5, "five")
	require.NoError(t, err)

	doc := store.Open("file:///a.tsx", "fresh")
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, []byte("fresh"), doc.Text)
}

func TestOffsetAt(t *testing.T) {
	text := []byte("ab\ncdéf\nlast")

	tests := []struct {
		name      string
		line, chr int
		want      uint32
		wantErr   bool
	}{
		{"start of document", 0, 0, 0, false},
		{"within first line", 0, 1, 1, false},
		{"end of first line", 0, 2, 2, false},
		{"start of second line", 1, 0, 3, false},
		{"after multi-byte rune", 1, 3, 7, false}, // é is two bytes
		{"end of document", 2, 4, 13, false},
		{"character past line end", 0, 3, 0, true},
		{"line past document end", 3, 0, 0, true},
		{"negative line", -1, 0, 0, true},
		{"negative character", 0, -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OffsetAt(text, tt.line, tt.chr)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadPosition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
