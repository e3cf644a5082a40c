package skipgram

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDictionary(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dictionary.txt", "4\napple\nbanana\ncafe\u0301\nUNK\n")
	dict, err := LoadDictionary(path)
	require.NoError(t, err)
	assert.Equal(t, 4, dict.Len())

	w, ok := dict.Word(1)
	assert.True(t, ok)
	assert.Equal(t, "banana", w)
	_, ok = dict.Word(4)
	assert.False(t, ok)
	_, ok = dict.Word(-1)
	assert.False(t, ok)

	// stored composed, found from either form
	w, _ = dict.Word(2)
	assert.Equal(t, "caf\u00e9", w)
	id, ok := dict.id("caf\u00e9")
	assert.True(t, ok)
	assert.Equal(t, int32(2), id)
	id, ok = dict.id("cafe\u0301")
	assert.True(t, ok)
	assert.Equal(t, int32(2), id)

	s, err := dict.Decode([]int32{0, 3, 1})
	require.NoError(t, err)
	assert.Equal(t, "apple UNK banana", s)
	_, err = dict.Decode([]int32{9})
	assert.ErrorIs(t, err, ErrCorruptMetadata)
}

func TestLoadDictionary_Corrupt(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"empty":     "",
		"badSize":   "four\na\n",
		"tooFew":    "3\na\nb\n",
		"tooMany":   "1\na\nb\n",
		"blankWord": "2\na\n\n",
	}
	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := readDictionary(strings.NewReader(contents))
			assert.ErrorIs(t, err, ErrCorruptMetadata)
		})
	}
	_, err := LoadDictionary(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, ErrCorruptMetadata)
}
