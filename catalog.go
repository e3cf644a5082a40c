package skipgram

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultDataMarker = "integers_"
	DefaultSizeMarker = "size_"
)

type CatalogOptions struct {
	DataMarker string
	SizeMarker string
	// TotalCountPath, when set, must hold the same token total as the size files.
	TotalCountPath string
	Logger         logrus.FieldLogger
	Metrics        *Metrics
}

// Catalog owns the ordered shard list, the barrier table and the one shard
// that is resident in memory.
type Catalog struct {
	paths    []string
	sizes    []int64
	barriers []int64
	current  int
	base     int64
	buffer   []int32
	log      logrus.FieldLogger
	metrics  *Metrics
}

// OpenCatalog discovers the shards under root, validates them and loads the first shard.
func OpenCatalog(root string, opts CatalogOptions) (*Catalog, error) {
	if opts.DataMarker == "" {
		opts.DataMarker = DefaultDataMarker
	}
	if opts.SizeMarker == "" {
		opts.SizeMarker = DefaultSizeMarker
	}
	shards, sizeFiles, err := Discover(root, opts.DataMarker, opts.SizeMarker)
	if err != nil {
		return nil, err
	}
	if len(shards) == 0 {
		return nil, fmt.Errorf("%w: no files containing %q under %s", ErrCorruptMetadata, opts.DataMarker, root)
	}
	var sizes []int64
	if len(sizeFiles) == 0 {
		// no size files at all: derive them from the shards themselves
		sizes = make([]int64, len(shards))
		for i, path := range shards {
			if sizes[i], err = CountShard(path); err != nil {
				return nil, err
			}
		}
	} else {
		if err := CheckAlignment(shards, sizeFiles, opts.DataMarker, opts.SizeMarker); err != nil {
			return nil, err
		}
		if sizes, err = ReadSizes(sizeFiles); err != nil {
			return nil, err
		}
	}
	return newCatalog(shards, sizes, opts)
}

func newCatalog(paths []string, sizes []int64, opts CatalogOptions) (*Catalog, error) {
	if len(paths) != len(sizes) {
		return nil, fmt.Errorf("%w: %d shards but %d sizes", ErrAlignmentMismatch, len(paths), len(sizes))
	}
	barriers, err := BuildBarriers(sizes)
	if err != nil {
		return nil, err
	}
	if opts.TotalCountPath != "" {
		total, err := ReadCount(opts.TotalCountPath)
		if err != nil {
			return nil, err
		}
		if total != barriers[len(barriers)-1] {
			return nil, fmt.Errorf("%w: %s says %d tokens but shards hold %d",
				ErrCorruptMetadata, opts.TotalCountPath, total, barriers[len(barriers)-1])
		}
	}
	c := &Catalog{
		paths:    paths,
		sizes:    sizes,
		barriers: barriers,
		log:      opts.Logger,
		metrics:  opts.Metrics,
	}
	if c.log == nil {
		c.log = discardLogger()
	}
	if err := c.seek(0); err != nil {
		return nil, err
	}
	return c, nil
}

// Discover walks root recursively and returns the shard files and size files,
// each sorted lexicographically. The data marker wins when a name holds both.
func Discover(root, dataMarker, sizeMarker string) ([]string, []string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, err
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("corpus root %s is not a directory", root)
	}
	var shards, sizes []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		name := d.Name()
		switch {
		case strings.Contains(name, dataMarker):
			shards = append(shards, path)
		case strings.Contains(name, sizeMarker):
			sizes = append(sizes, path)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(shards)
	sort.Strings(sizes)
	return shards, sizes, nil
}

// CheckAlignment requires shard i and size file i to sit in the same directory
// and to share their name once the marker is stripped.
func CheckAlignment(shards, sizes []string, dataMarker, sizeMarker string) error {
	if len(shards) != len(sizes) {
		return fmt.Errorf("%w: %d shard files but %d size files", ErrAlignmentMismatch, len(shards), len(sizes))
	}
	for i := range shards {
		if alignKey(shards[i], dataMarker) != alignKey(sizes[i], sizeMarker) {
			return fmt.Errorf("%w: shard %d is %s but size file is %s", ErrAlignmentMismatch, i, shards[i], sizes[i])
		}
	}
	return nil
}

func alignKey(path, marker string) string {
	dir, name := filepath.Split(path)
	return dir + strings.Replace(name, marker, "", 1)
}

// ReadSizes reads one token count per size file.
func ReadSizes(sizeFiles []string) ([]int64, error) {
	sizes := make([]int64, len(sizeFiles))
	for i, path := range sizeFiles {
		n, err := ReadCount(path)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %s declares an empty shard", ErrCorruptMetadata, path)
		}
		sizes[i] = n
	}
	return sizes, nil
}

// BuildBarriers returns the running totals of sizes: barriers[i] is the number
// of tokens up to and including shard i.
func BuildBarriers(sizes []int64) ([]int64, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: no shard sizes", ErrCorruptMetadata)
	}
	barriers := make([]int64, len(sizes))
	var offset int64
	for i, n := range sizes {
		if n <= 0 {
			return nil, fmt.Errorf("%w: shard %d has size %d", ErrCorruptMetadata, i, n)
		}
		offset += n
		barriers[i] = offset
	}
	return barriers, nil
}

// LoadShard reads one decimal token ID per line. Blank lines are allowed only at
// the end of the file.
func LoadShard(path string) ([]int32, error) {
	f, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptShard, err)
	}
	defer f.Close()
	var tokens []int32
	sc := bufio.NewScanner(f)
	line, blank := 0, 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			if blank == 0 {
				blank = line
			}
			continue
		}
		if blank > 0 {
			return nil, fmt.Errorf("%w: %s line %d: blank line inside shard", ErrCorruptShard, path, blank)
		}
		id, err := strconv.ParseInt(text, 10, 32)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("%w: %s line %d: %q is not a token id", ErrCorruptShard, path, line, text)
		}
		tokens = append(tokens, int32(id))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptShard, path, err)
	}
	return tokens, nil
}

// CountShard counts the non-blank lines of a shard without parsing them.
func CountShard(path string) (int64, error) {
	f, err := Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptShard, err)
	}
	defer f.Close()
	var n int64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrCorruptShard, path, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s is empty", ErrCorruptShard, path)
	}
	return n, nil
}

// Advance makes the next shard resident. Past the last shard it wraps to shard 0.
func (c *Catalog) Advance() error {
	next := c.current + 1
	if next >= len(c.paths) {
		next = 0
		c.metrics.wrapped()
		c.log.WithField("shards", len(c.paths)).Info("corpus exhausted, restarting at first shard")
	}
	return c.seek(next)
}

// Rewind makes shard 0 resident again.
func (c *Catalog) Rewind() error {
	return c.seek(0)
}

func (c *Catalog) seek(i int) error {
	var base int64
	if i > 0 {
		base = c.barriers[i-1]
	}
	if i == c.current && c.buffer != nil {
		c.base = base
		return nil
	}
	start := time.Now()
	c.log.WithFields(logrus.Fields{"shard": i, "path": c.paths[i]}).Info("reading shard")
	buf, err := LoadShard(c.paths[i])
	if err != nil {
		return err
	}
	if int64(len(buf)) != c.sizes[i] {
		return fmt.Errorf("%w: %s holds %d tokens, size file says %d", ErrCorruptShard, c.paths[i], len(buf), c.sizes[i])
	}
	c.current, c.base, c.buffer = i, base, buf
	c.metrics.shardLoaded(i, len(buf), time.Since(start))
	return nil
}

// Locate maps a global cursor to its shard index and the offset inside that shard.
func (c *Catalog) Locate(cursor int64) (int, int64, error) {
	return locate(c.barriers, cursor)
}

func locate(barriers []int64, cursor int64) (int, int64, error) {
	if len(barriers) == 0 || cursor < 0 || cursor >= barriers[len(barriers)-1] {
		return 0, 0, fmt.Errorf("%w: cursor %d outside corpus", ErrInvariantViolation, cursor)
	}
	i := sort.Search(len(barriers), func(i int) bool { return barriers[i] > cursor })
	if i == 0 {
		return 0, cursor, nil
	}
	return i, cursor - barriers[i-1], nil
}

func (c *Catalog) Len() int { return len(c.paths) }

// Total is the number of tokens in the whole corpus.
func (c *Catalog) Total() int64 { return c.barriers[len(c.barriers)-1] }

func (c *Catalog) Barriers() []int64 { return c.barriers }
func (c *Catalog) Paths() []string   { return c.paths }
func (c *Catalog) Sizes() []int64    { return c.sizes }

// Current is the index of the resident shard.
func (c *Catalog) Current() int { return c.current }

// Base is the global position of the first token of the resident shard.
func (c *Catalog) Base() int64 { return c.base }

func (c *Catalog) Buffer() []int32 { return c.buffer }
