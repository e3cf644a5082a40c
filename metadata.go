package skipgram

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// UnknownWord is the vocabulary entry that collects every out-of-dictionary token.
const UnknownWord = "UNK"

// ReadCount reads a file holding a single non-negative decimal integer,
// such as a shard size, the total token count or the unknown-word count.
func ReadCount(path string) (int64, error) {
	f, err := Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptMetadata, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrCorruptMetadata, path, err)
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return 0, fmt.Errorf("%w: %s is empty", ErrCorruptMetadata, path)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s: %q is not a count", ErrCorruptMetadata, path, s)
	}
	return n, nil
}

type WordCount struct {
	Word  string
	Count int64
}

// FreqTable is the frequency-ranked vocabulary. Entries[0] is always UnknownWord.
type FreqTable struct {
	Entries []WordCount
	// Malformed counts the lines that were not "word, count".
	Malformed int
}

// LoadFrequencies reads a frequency file (a header line, then "word, count"
// lines) and keeps the vocab most common words behind the UNK entry.
func LoadFrequencies(path string, vocab int) (FreqTable, error) {
	f, err := Open(path)
	if err != nil {
		return FreqTable{}, err
	}
	defer f.Close()
	return readFrequencies(f, vocab)
}

func readFrequencies(r io.Reader, vocab int) (FreqTable, error) {
	counts := map[string]int64{}
	table := FreqTable{}
	sc := bufio.NewScanner(r)
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		parts := strings.Split(sc.Text(), ", ")
		if len(parts) != 2 {
			table.Malformed++
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			table.Malformed++
			continue
		}
		counts[strings.ReplaceAll(parts[0], " ", "")] = n
	}
	if err := sc.Err(); err != nil {
		return FreqTable{}, err
	}
	ranked := make([]WordCount, 0, len(counts))
	for w, n := range counts {
		ranked = append(ranked, WordCount{Word: w, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})
	if vocab >= 0 && len(ranked) > vocab {
		ranked = ranked[:vocab]
	}
	table.Entries = append([]WordCount{{Word: UnknownWord, Count: -1}}, ranked...)
	return table, nil
}

// SetUnknown records how many tokens fell outside the dictionary.
func (t *FreqTable) SetUnknown(n int64) {
	t.Entries[0].Count = n
}

// Top returns up to n entries after UNK.
func (t FreqTable) Top(n int) []WordCount {
	rest := t.Entries[1:]
	if n < len(rest) {
		rest = rest[:n]
	}
	return rest
}
