// Package main provides the cachesim command-line tool. It replays a
// memory-access trace against a modeled set-associative cache and
// reports hit, miss, and eviction counts.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/record"
	"github.com/sarchlab/cachesim/sim"
	"github.com/sarchlab/cachesim/trace"
)

var (
	setIndexBits    int
	blockOffsetBits int
	linesPerSet     int
	tracePath       string
	configPath      string
	verbose         bool
	recordEvents    bool
	recordPath      string
)

var rootCmd = &cobra.Command{
	Use:   "cachesim -s <s> -E <E> -b <b> -t <tracefile>",
	Short: "Simulate a set-associative cache over a memory-access trace",
	Long: `cachesim replays a memory-access trace file against a modeled ` +
		`set-associative LRU cache and reports the hit, miss, and eviction ` +
		`counts the hardware would produce. It tracks line metadata only; ` +
		`no data bytes are simulated.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	flags := rootCmd.Flags()
	flags.IntVarP(&setIndexBits, "set-bits", "s", 0,
		"Number of set index bits (the cache has 2^s sets)")
	flags.IntVarP(&linesPerSet, "lines-per-set", "E", 0,
		"Number of lines per set (associativity)")
	flags.IntVarP(&blockOffsetBits, "block-bits", "b", 0,
		"Number of block offset bits (each block holds 2^b bytes)")
	flags.StringVarP(&tracePath, "trace", "t", "",
		"Path to the memory-access trace file")
	flags.StringVar(&configPath, "config", "",
		"Path to a cache geometry JSON file (replaces -s/-E/-b)")
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"Print the outcome of every access")
	flags.BoolVar(&recordEvents, "record", false,
		"Record per-access events to a SQLite database")
	flags.StringVar(&recordPath, "record-path", "",
		"Database file for --record (default: fresh uniquely named file)")

	cobra.CheckErr(rootCmd.MarkFlagRequired("trace"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	config, err := geometry(cmd)
	if err != nil {
		return err
	}

	simulation, err := sim.New(config)
	if err != nil {
		return err
	}
	defer simulation.Teardown()

	if verbose {
		fmt.Printf("Trace file: %s\n", tracePath)
		fmt.Printf("Sets: %d, lines per set: %d, block size: %d\n",
			config.NumSets(), config.LinesPerSet, 1<<config.BlockOffsetBits)
	}

	reader, err := trace.Open(tracePath, trace.WithWarnings(os.Stderr))
	if err != nil {
		return err
	}
	defer reader.Close()

	var recorder *record.Recorder
	if recordEvents {
		recorder, err = record.New(recordPath)
		if err != nil {
			return err
		}
		defer recorder.Close()
		fmt.Fprintf(os.Stderr, "Recording events to %s\n", recorder.Path())
	}

	if err := replay(simulation, reader, recorder); err != nil {
		return err
	}

	if skipped := reader.Skipped(); skipped > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d malformed trace lines\n", skipped)
	}

	stats := simulation.Stats()
	fmt.Printf("hits:%d misses:%d evictions:%d\n",
		stats.Hits, stats.Misses, stats.Evictions)

	return nil
}

// geometry selects the cache configuration from the config file or the
// geometry flags.
func geometry(cmd *cobra.Command) (cache.Config, error) {
	if configPath != "" {
		return cache.LoadConfig(configPath)
	}

	for _, name := range []string{"set-bits", "lines-per-set", "block-bits"} {
		if !cmd.Flags().Changed(name) {
			return cache.Config{}, fmt.Errorf(
				"either --config or all of -s, -E, and -b must be given")
		}
	}

	return cache.Config{
		SetIndexBits:    setIndexBits,
		BlockOffsetBits: blockOffsetBits,
		LinesPerSet:     linesPerSet,
	}, nil
}

// replay processes every record the reader yields.
func replay(
	simulation *sim.Simulation,
	reader *trace.Reader,
	recorder *record.Recorder,
) error {
	for {
		access, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		event, err := simulation.Process(access)
		if err != nil {
			return err
		}

		if verbose && access.Kind != sim.KindIgnore {
			fmt.Println(event)
		}

		if recorder != nil {
			if err := recorder.Record(event); err != nil {
				return err
			}
		}
	}
}
