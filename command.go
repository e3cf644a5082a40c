package skipgram

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CLI global variables
var (
	configPath string
	cfg        Config
	logger     *logrus.Entry

	flagCorpus     string
	flagDictionary string
	flagLogLevel   string
	flagBatchSize  int
	flagNumSkips   int
	flagSkipWindow int
	flagSeed       int64
	flagMetrics    string

	topWords    int
	streamSteps int
	logEvery    int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "skipgram",
	Short: "Stream skip-gram training batches from a sharded integer corpus",
	Long: `
		skipgram pages through a corpus that was preprocessed into integer shard files and
		produces (center, context) skip-gram pairs for an embedding trainer. Only one shard is held
		in memory at a time; the cursor wraps back to the first shard at the end of the corpus.
	`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg = Defaults()
		if configPath != "" {
			if cfg, err = LoadConfig(configPath); err != nil {
				return err
			}
		}
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}
		l, err := NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger = l.WithField("run", uuid.NewString())
		return nil
	},
}

func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("corpus") {
		cfg.Corpus.Dir = flagCorpus
	}
	if flags.Changed("dictionary") {
		cfg.Corpus.Dictionary = flagDictionary
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("batch-size") {
		cfg.Batch.Size = flagBatchSize
	}
	if flags.Changed("num-skips") {
		cfg.Batch.NumSkips = flagNumSkips
	}
	if flags.Changed("skip-window") {
		cfg.Batch.SkipWindow = flagSkipWindow
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = flagMetrics
	}
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Validate the corpus shards and print the shard table",
	Long:  `This command discovers the shard and size files, checks that they pair up, builds the barrier table and reads the first shard. With a frequency file present it also prints the most common words.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog(nil)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if err := printShardTable(out, catalog); err != nil {
			return err
		}
		summary, err := SummarizeShards(catalog.Sizes())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "shards: %d  tokens: %d  min: %.0f  max: %.0f  mean: %.1f  median: %.1f  stddev: %.1f\n",
			summary.Shards, summary.Tokens, summary.Min, summary.Max, summary.Mean, summary.Median, summary.StdDev)
		return printFrequencies(out)
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the first batch decoded through the dictionary",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := openCatalog(nil)
		if err != nil {
			return err
		}
		dict, err := LoadDictionary(cfg.Corpus.Path(cfg.Corpus.Dictionary))
		if err != nil {
			return err
		}
		loader := newLoader(catalog)
		inputs, labels, err := loader.NextBatch(cfg.Batch.Size, cfg.Batch.NumSkips, cfg.Batch.SkipWindow)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i := range inputs {
			in, err := dict.Decode(inputs[i : i+1])
			if err != nil {
				return err
			}
			label, err := dict.Decode(labels[i : i+1])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d %s -> %d %s\n", inputs[i], in, labels[i], label)
		}
		return nil
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Generate batches continuously and report throughput",
	Long:  `This command drives the batch generator the way a training loop would, logging throughput and shard crossings. With --metrics-addr set it serves Prometheus metrics while running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := prometheus.NewRegistry()
		metrics := NewMetrics(reg)
		if cfg.MetricsAddr != "" {
			go serveMetrics(cfg.MetricsAddr, reg)
		}
		catalog, err := openCatalog(metrics)
		if err != nil {
			return err
		}
		loader := newLoader(catalog)
		start := time.Now()
		for step := 0; streamSteps <= 0 || step < streamSteps; step++ {
			if _, _, err := loader.NextBatch(cfg.Batch.Size, cfg.Batch.NumSkips, cfg.Batch.SkipWindow); err != nil {
				return err
			}
			if logEvery > 0 && step%logEvery == 0 {
				elapsed := time.Since(start)
				logger.WithFields(logrus.Fields{
					"step":     step,
					"shard":    catalog.Current(),
					"cursor":   loader.Cursor(),
					"tokens/s": fmt.Sprintf("%.0f", float64(loader.Consumed())/elapsed.Seconds()),
				}).Info("streaming")
			}
		}
		logger.WithFields(logrus.Fields{
			"steps":    streamSteps,
			"consumed": loader.Consumed(),
			"took":     time.Since(start),
		}).Info("done")
		return nil
	},
}

func openCatalog(metrics *Metrics) (*Catalog, error) {
	opts := CatalogOptions{
		DataMarker: cfg.Corpus.DataMarker,
		SizeMarker: cfg.Corpus.SizeMarker,
		Logger:     logger,
		Metrics:    metrics,
	}
	if total := cfg.Corpus.Path(cfg.Corpus.TotalCount); total != "" && exists(total) {
		opts.TotalCountPath = total
	}
	catalog, err := OpenCatalog(cfg.Corpus.Dir, opts)
	if err != nil {
		return nil, err
	}
	logger.WithFields(logrus.Fields{"shards": catalog.Len(), "tokens": catalog.Total()}).Info("corpus ready")
	return catalog, nil
}

func newLoader(catalog *Catalog) *DataLoader {
	return NewDataLoader(catalog, newSource(cfg.Seed))
}

func printShardTable(out io.Writer, catalog *Catalog) error {
	table := tablewriter.NewWriter(out)
	table.Header("shard", "path", "tokens", "barrier")
	for i, path := range catalog.Paths() {
		row := []string{
			fmt.Sprint(i),
			path,
			fmt.Sprint(catalog.Sizes()[i]),
			fmt.Sprint(catalog.Barriers()[i]),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func printFrequencies(out io.Writer) error {
	path := cfg.Corpus.Path(cfg.Corpus.Frequencies)
	if path == "" || !exists(path) || topWords <= 0 {
		return nil
	}
	dict, err := LoadDictionary(cfg.Corpus.Path(cfg.Corpus.Dictionary))
	if err != nil {
		return err
	}
	freq, err := LoadFrequencies(path, dict.Len())
	if err != nil {
		return err
	}
	if unk := cfg.Corpus.Path(cfg.Corpus.UnknownCount); unk != "" && exists(unk) {
		n, err := ReadCount(unk)
		if err != nil {
			return err
		}
		freq.SetUnknown(n)
	}
	if freq.Malformed > 0 {
		logger.WithField("lines", freq.Malformed).Warn("malformed frequency lines skipped")
	}
	fmt.Fprintf(out, "%s: %d\n", freq.Entries[0].Word, freq.Entries[0].Count)
	for _, wc := range freq.Top(topWords) {
		fmt.Fprintf(out, "%s: %d\n", wc.Word, wc.Count)
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.WithField("addr", addr).Info("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("metrics server stopped")
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML config file")
	flags.StringVar(&flagCorpus, "corpus", "", "directory holding the integer shards (default ./build)")
	flags.StringVar(&flagDictionary, "dictionary", "", "dictionary file, relative to the corpus dir")
	flags.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error")
	flags.IntVar(&flagBatchSize, "batch-size", 0, "pairs per batch")
	flags.IntVar(&flagNumSkips, "num-skips", 0, "pairs drawn per center word")
	flags.IntVar(&flagSkipWindow, "skip-window", 0, "words considered left and right of the center")
	flags.Int64Var(&flagSeed, "seed", 0, "seed for context sampling")

	inspectCmd.Flags().IntVar(&topWords, "top", 10, "most common words to print when a frequency file exists")
	streamCmd.Flags().IntVar(&streamSteps, "steps", 1000, "batches to generate; 0 runs until interrupted")
	streamCmd.Flags().IntVar(&logEvery, "log-every", 100, "log progress every n batches")
	streamCmd.Flags().StringVar(&flagMetrics, "metrics-addr", "", "address to serve /metrics on")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(streamCmd)
}

func InitializeCommand() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "skipgram:", err)
		os.Exit(1)
	}
}
