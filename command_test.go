package skipgram

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func writeVocabulary(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, "dictionary.txt", "6\nthe\ncat\nsat\non\nmat\nUNK\n")
	writeFile(t, dir, "freq.txt", "5\nthe, 10\ncat, 4\nsat, 3\non, 2\nmat, 1\n")
	writeFile(t, dir, "unk_count.txt", "2\n")
	writeFile(t, dir, "total_count.txt", "9\n")
}

func TestCommand_Inspect(t *testing.T) {
	dir := writeCorpus(t, [][]int32{{0, 1, 2, 3}, {4, 0, 1}, {2, 3}})
	writeVocabulary(t, dir)
	out := execute(t, "inspect", "--corpus", dir, "--top", "2")
	assert.Contains(t, out, "shards: 3  tokens: 9")
	assert.Contains(t, out, "UNK: 2\nthe: 10\ncat: 4\n")
}

func TestCommand_Sample(t *testing.T) {
	dir := writeCorpus(t, [][]int32{{0, 1, 2, 3}, {4, 0, 1}, {2, 3}})
	writeVocabulary(t, dir)
	out := execute(t, "sample", "--corpus", dir, "--batch-size", "4", "--num-skips", "2", "--skip-window", "1")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "1 cat -> "), lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "2 sat -> "), lines[2])
}

func TestCommand_SampleTokenOutsideDictionary(t *testing.T) {
	dir := writeCorpus(t, [][]int32{{0, 1, 2, 3}, {4, 0, 1}})
	writeFile(t, dir, "dictionary.txt", "1\nthe\n")
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"sample", "--corpus", dir, "--batch-size", "4", "--num-skips", "2", "--skip-window", "1"})
	err := rootCmd.Execute()
	assert.ErrorIs(t, err, ErrCorruptMetadata)
	assert.Contains(t, err.Error(), "token 1 not in dictionary")
}

func TestCommand_Stream(t *testing.T) {
	dir := writeCorpus(t, [][]int32{{0, 1, 2}, {3, 4}})
	execute(t, "stream", "--corpus", dir, "--batch-size", "8", "--num-skips", "2", "--skip-window", "2", "--steps", "25", "--log-every", "5")
}

func TestCommand_BadCorpus(t *testing.T) {
	dir := writeCorpus(t, [][]int32{{0, 1}})
	writeFile(t, dir, "size_000.txt", "abc")
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"inspect", "--corpus", dir})
	assert.ErrorIs(t, rootCmd.Execute(), ErrCorruptMetadata)
}
