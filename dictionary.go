package skipgram

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Dictionary maps token IDs to words. The ID of a word is its line index in
// the dictionary file, not counting the size header.
type Dictionary struct {
	words []string
	ids   map[string]int32
}

func LoadDictionary(path string) (Dictionary, error) {
	f, err := Open(path)
	if err != nil {
		return Dictionary{}, fmt.Errorf("%w: %v", ErrCorruptMetadata, err)
	}
	defer f.Close()
	d, err := readDictionary(f)
	if err != nil {
		return Dictionary{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func readDictionary(r io.Reader) (Dictionary, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Dictionary{}, err
		}
		return Dictionary{}, fmt.Errorf("%w: empty dictionary", ErrCorruptMetadata)
	}
	size, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || size < 0 {
		return Dictionary{}, fmt.Errorf("%w: bad dictionary size %q", ErrCorruptMetadata, sc.Text())
	}
	words := make([]string, 0, size)
	for sc.Scan() {
		w := strings.TrimRight(sc.Text(), "\r")
		if w == "" {
			return Dictionary{}, fmt.Errorf("%w: blank word at id %d", ErrCorruptMetadata, len(words))
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return Dictionary{}, err
	}
	if len(words) != size {
		return Dictionary{}, fmt.Errorf("%w: dictionary declares %d words but lists %d", ErrCorruptMetadata, size, len(words))
	}
	return newDictionary(words), nil
}

func newDictionary(words []string) Dictionary {
	d := Dictionary{
		words: make([]string, len(words)),
		ids:   make(map[string]int32, len(words)),
	}
	for i, w := range words {
		w = norm.NFC.String(w)
		d.words[i] = w
		if _, ok := d.ids[w]; !ok {
			d.ids[w] = int32(i)
		}
	}
	return d
}

func (d Dictionary) Len() int { return len(d.words) }

func (d Dictionary) Word(id int32) (string, bool) {
	if id < 0 || int(id) >= len(d.words) {
		return "", false
	}
	return d.words[id], true
}

// id looks a word up after NFC normalization.
func (d Dictionary) id(word string) (int32, bool) {
	id, ok := d.ids[norm.NFC.String(word)]
	return id, ok
}

// Decode joins the words for tokens with single spaces. A token the dictionary
// does not hold means the corpus and dictionary disagree.
func (d Dictionary) Decode(tokens []int32) (string, error) {
	words := make([]string, len(tokens))
	for i, token := range tokens {
		w, ok := d.Word(token)
		if !ok {
			return "", fmt.Errorf("%w: token %d not in dictionary of %d words", ErrCorruptMetadata, token, len(d.words))
		}
		words[i] = w
	}
	return strings.Join(words, " "), nil
}
