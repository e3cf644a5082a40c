package skipgram

import (
	"fmt"
	"math/rand"
)

// DefaultSeed seeds the context sampler when no source is supplied.
const DefaultSeed = 21

// DataLoader turns the paged corpus of a Catalog into skip-gram batches.
// It owns the global cursor and the sliding window; neither is shared, so a
// DataLoader must not be used from more than one goroutine.
type DataLoader struct {
	catalog  *Catalog
	rng      Source
	cursor   int64
	consumed int64

	// window is a ring buffer of span = 2*skipWindow+1 tokens in corpus order
	window     []int32
	head       int
	filled     int
	skipWindow int
}

func newSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

func NewDataLoader(catalog *Catalog, rng Source) *DataLoader {
	if rng == nil {
		rng = newSource(DefaultSeed)
	}
	return &DataLoader{catalog: catalog, rng: rng}
}

// Reset moves the cursor back to the first token and empties the window.
func (loader *DataLoader) Reset() error {
	loader.cursor = 0
	loader.window, loader.head, loader.filled, loader.skipWindow = nil, 0, 0, 0
	return loader.catalog.Rewind()
}

// NextToken reads the token under the cursor and advances the cursor by one,
// paging in the next shard when the cursor has left the resident one.
func (loader *DataLoader) NextToken() (int32, error) {
	c := loader.catalog
	local := loader.cursor - c.Base()
	for advances := 0; local < 0 || local >= int64(len(c.Buffer())); advances++ {
		if advances > c.Len() {
			return 0, fmt.Errorf("%w: cursor %d is not covered by any shard", ErrInvariantViolation, loader.cursor)
		}
		if err := c.Advance(); err != nil {
			return 0, err
		}
		local = loader.cursor - c.Base()
	}
	token := c.Buffer()[local]
	loader.cursor = (loader.cursor + 1) % c.Total()
	loader.consumed++
	c.metrics.tokenRead()
	return token, nil
}

// NextBatch returns batchSize (input, label) pairs. Each group of numSkips pairs
// shares the window center as input and uses distinct other window positions as
// labels; the window then slides by one token. The window carries over between
// calls, so no center is skipped between batches.
func (loader *DataLoader) NextBatch(batchSize, numSkips, skipWindow int) ([]int32, []int32, error) {
	if err := CheckBatchShape(batchSize, numSkips, skipWindow); err != nil {
		return nil, nil, err
	}
	span := 2*skipWindow + 1
	if skipWindow != loader.skipWindow || loader.window == nil {
		loader.window = make([]int32, span)
		loader.head, loader.filled, loader.skipWindow = 0, 0, skipWindow
	}
	for loader.filled < span {
		if err := loader.slide(); err != nil {
			return nil, nil, err
		}
	}
	inputs := make([]int32, batchSize)
	labels := make([]int32, batchSize)
	for i := 0; i < batchSize/numSkips; i++ {
		center := loader.at(skipWindow)
		for j, pos := range pickContext(loader.rng, span, skipWindow, numSkips) {
			inputs[i*numSkips+j] = center
			labels[i*numSkips+j] = loader.at(pos)
		}
		if err := loader.slide(); err != nil {
			return nil, nil, err
		}
	}
	loader.catalog.metrics.batchDone(batchSize)
	return inputs, labels, nil
}

// slide pushes the next corpus token into the window, evicting the oldest once full.
func (loader *DataLoader) slide() error {
	token, err := loader.NextToken()
	if err != nil {
		return err
	}
	span := len(loader.window)
	if loader.filled < span {
		loader.window[(loader.head+loader.filled)%span] = token
		loader.filled++
		return nil
	}
	loader.window[loader.head] = token
	loader.head = (loader.head + 1) % span
	return nil
}

func (loader *DataLoader) at(i int) int32 {
	return loader.window[(loader.head+i)%len(loader.window)]
}

// Window returns the current window contents, oldest first.
func (loader *DataLoader) Window() []int32 {
	out := make([]int32, loader.filled)
	for i := range out {
		out[i] = loader.at(i)
	}
	return out
}

// Cursor is the global position of the next token to be read.
func (loader *DataLoader) Cursor() int64 { return loader.cursor }

// Consumed is the number of tokens read since the loader was created.
func (loader *DataLoader) Consumed() int64 { return loader.consumed }

// CheckBatchShape validates the skip-gram tuning constants.
func CheckBatchShape(batchSize, numSkips, skipWindow int) error {
	switch {
	case batchSize <= 0 || numSkips <= 0 || skipWindow <= 0:
		return fmt.Errorf("%w: batch size %d, num skips %d and skip window %d must be positive",
			ErrInvariantViolation, batchSize, numSkips, skipWindow)
	case batchSize%numSkips != 0:
		return fmt.Errorf("%w: batch size %d is not a multiple of num skips %d", ErrInvariantViolation, batchSize, numSkips)
	case numSkips > 2*skipWindow:
		return fmt.Errorf("%w: num skips %d exceeds the %d context slots of skip window %d",
			ErrInvariantViolation, numSkips, 2*skipWindow, skipWindow)
	}
	return nil
}
