package skipgram

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Corpus      CorpusConfig `yaml:"corpus"`
	Batch       BatchConfig  `yaml:"batch"`
	Seed        int64        `yaml:"seed"`
	LogLevel    string       `yaml:"log_level"`
	MetricsAddr string       `yaml:"metrics_addr"`
}

// CorpusConfig names the preprocessed corpus artifacts. Relative file names
// are resolved against Dir.
type CorpusConfig struct {
	Dir          string `yaml:"dir"`
	DataMarker   string `yaml:"data_marker"`
	SizeMarker   string `yaml:"size_marker"`
	Dictionary   string `yaml:"dictionary"`
	Frequencies  string `yaml:"frequencies"`
	UnknownCount string `yaml:"unknown_count"`
	TotalCount   string `yaml:"total_count"`
}

type BatchConfig struct {
	Size       int `yaml:"size"`
	NumSkips   int `yaml:"num_skips"`
	SkipWindow int `yaml:"skip_window"`
}

// Defaults matches the layout written by the corpus preprocessing step.
func Defaults() Config {
	return Config{
		Corpus: CorpusConfig{
			Dir:          "./build",
			DataMarker:   DefaultDataMarker,
			SizeMarker:   DefaultSizeMarker,
			Dictionary:   "dictionary.txt",
			Frequencies:  "freq.txt",
			UnknownCount: "unk_count.txt",
			TotalCount:   "total_count.txt",
		},
		Batch: BatchConfig{
			Size:       256,
			NumSkips:   2,
			SkipWindow: 1,
		},
		Seed:     DefaultSeed,
		LogLevel: "info",
	}
}

// LoadConfig reads a YAML config on top of Defaults. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	f, err := Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return readConfig(f)
}

func readConfig(r io.Reader) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Corpus.Dir) == "" {
		return errors.New("corpus dir is required")
	}
	if c.Corpus.DataMarker == "" || c.Corpus.SizeMarker == "" {
		return errors.New("data and size markers are required")
	}
	if c.Corpus.DataMarker == c.Corpus.SizeMarker {
		return fmt.Errorf("data and size markers are both %q", c.Corpus.DataMarker)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return CheckBatchShape(c.Batch.Size, c.Batch.NumSkips, c.Batch.SkipWindow)
}

// Path resolves a corpus artifact name against the corpus dir. Empty stays empty.
func (c CorpusConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}
