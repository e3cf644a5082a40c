package skipgram

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCount(t *testing.T) {
	dir := t.TempDir()
	n, err := ReadCount(writeFile(t, dir, "unk_count.txt", "42\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	for name, contents := range map[string]string{
		"empty":    "",
		"letters":  "abc",
		"negative": "-1",
		"float":    "1.0",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCount(writeFile(t, dir, name+".txt", contents))
			assert.ErrorIs(t, err, ErrCorruptMetadata)
		})
	}
	_, err = ReadCount(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, ErrCorruptMetadata)
}

func TestReadFrequencies(t *testing.T) {
	input := strings.Join([]string{
		"6",
		"the, 100",
		"cat, 7",
		"d og, 7",
		"broken line",
		"mat, x",
		"sat, 9",
	}, "\n")
	table, err := readFrequencies(strings.NewReader(input), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Malformed)
	assert.Equal(t, []WordCount{
		{Word: UnknownWord, Count: -1},
		{Word: "the", Count: 100},
		{Word: "sat", Count: 9},
		{Word: "cat", Count: 7},
	}, table.Entries)

	table.SetUnknown(12)
	assert.Equal(t, int64(12), table.Entries[0].Count)
	assert.Equal(t, []WordCount{{Word: "the", Count: 100}}, table.Top(1))
	assert.Len(t, table.Top(10), 3)
}

func TestLoadFrequencies(t *testing.T) {
	path := writeFile(t, t.TempDir(), "freq.txt", "2\nb, 1\na, 1\n")
	table, err := LoadFrequencies(path, 10)
	require.NoError(t, err)
	assert.Equal(t, []WordCount{
		{Word: UnknownWord, Count: -1},
		{Word: "a", Count: 1},
		{Word: "b", Count: 1},
	}, table.Entries)
}
