package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/setavenger/utxo-aggregator/internal/aggregate"
	"github.com/setavenger/utxo-aggregator/internal/config"
	"github.com/setavenger/utxo-aggregator/internal/dataexport"
	"github.com/setavenger/utxo-aggregator/internal/kvstore"
	"github.com/setavenger/utxo-aggregator/internal/logging"
	"github.com/setavenger/utxo-aggregator/internal/scan"
	"github.com/setavenger/utxo-aggregator/internal/snapshot"
)

const metricsJob = "utxo_aggregator"

var (
	// dump
	dumpFormat string
	dumpOut    string

	// epochs
	epochsIn  string
	epochsOut string

	// archive
	archiveDest string

	// compare
	compareA string
	compareB string
)

func initCommands() {
	aggregateCmd.Flags().String("out", "", "Output JSON path (default: datadir/utxo_by_height.json)")
	aggregateCmd.Flags().String("pushgateway", "", "Push scan metrics to this Pushgateway URL")
	viper.BindPFlag("output_path", aggregateCmd.Flags().Lookup("out"))
	viper.BindPFlag("pushgateway_url", aggregateCmd.Flags().Lookup("pushgateway"))

	dumpCmd.Flags().StringVar(&dumpFormat, "format", "jsonl", "Dump format: jsonl or sqlite")
	dumpCmd.Flags().StringVar(&dumpOut, "out", "", "Dump output path (default: datadir/utxos.<format>)")

	epochsCmd.Flags().StringVar(&epochsIn, "in", "", "Heights JSON written by aggregate (default: output path)")
	epochsCmd.Flags().StringVar(&epochsOut, "out", "", "Epoch CSV path (default: datadir/utxo_by_epoch.csv)")

	archiveCmd.Flags().StringVar(&archiveDest, "dest", "", "Directory of the pebble archive to write")
	archiveCmd.MarkFlagRequired("dest")

	compareCmd.Flags().StringVar(&compareA, "a", "", "First heights JSON")
	compareCmd.Flags().StringVar(&compareB, "b", "", "Second heights JSON")
	compareCmd.MarkFlagRequired("a")
	compareCmd.MarkFlagRequired("b")

	snapshotCmd.Flags().BoolVar(&config.RefreshSnapshot, "refresh", false, "Replace an existing snapshot")

	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(epochsCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// openSource opens the configured chainstate, going through the snapshot
// directory first when one is set.
func openSource() (kvstore.Reader, error) {
	if config.SnapshotDir != "" {
		if _, err := snapshot.Copy(config.ChainstatePath, config.SnapshotDir, config.RefreshSnapshot); err != nil {
			return nil, fmt.Errorf("snapshot chainstate: %w", err)
		}
	}
	src := config.SourcePath()
	logging.L.Info().Str("path", src).Str("backend", string(config.Backend)).Msg("opening chainstate")
	return kvstore.OpenReader(config.Backend, src)
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Write amount and count of unspent outputs per block height",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSource()
		if err != nil {
			return err
		}
		defer store.Close()

		metrics := scan.NewMetrics()
		p := scan.NewPipeline(store,
			scan.WithMetrics(metrics),
			scan.WithProgressInterval(config.ProgressInterval),
		)

		agg, stats, err := p.Aggregate(config.Binning())
		if err != nil {
			return err
		}

		if err = dataexport.ExportHeights(config.OutputPath, agg); err != nil {
			return fmt.Errorf("write heights: %w", err)
		}
		logging.L.Info().
			Str("path", config.OutputPath).
			Int("heights", agg.Len()).
			Str("records", humanize.Comma(int64(stats.Records))).
			Msg("heights written")

		if config.PushgatewayURL != "" {
			if err = metrics.Push(config.PushgatewayURL, metricsJob); err != nil {
				// the output is already on disk, a failed push does not fail the run
				logging.L.Err(err).Str("url", config.PushgatewayURL).Msg("failed to push metrics")
			}
		}
		return nil
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write every unspent output as JSON lines or into SQLite",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := dumpOut
		if out == "" {
			out = filepath.Join(config.BaseDirectory, "utxos."+dumpFormat)
		}

		var (
			sink dataexport.UTXOSink
			err  error
		)
		switch dumpFormat {
		case "jsonl":
			sink, err = dataexport.NewJSONLinesSink(out)
		case "sqlite":
			sink, err = dataexport.NewSQLiteSink(out)
		default:
			return fmt.Errorf("unknown dump format %q", dumpFormat)
		}
		if err != nil {
			return err
		}

		store, err := openSource()
		if err != nil {
			sink.Abort()
			return err
		}
		defer store.Close()

		p := scan.NewPipeline(store, scan.WithProgressInterval(config.ProgressInterval))
		stats, err := dataexport.DumpUTXOs(p, sink)
		if err != nil {
			return err
		}
		logging.L.Info().
			Str("path", out).
			Str("records", humanize.Comma(int64(stats.Records))).
			Msg("utxos dumped")
		return nil
	},
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Count the chainstate keys by row type",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSource()
		if err != nil {
			return err
		}
		defer store.Close()

		counts, err := scan.Summarize(store)
		if err != nil {
			return err
		}

		fmt.Println("Chainstate Key Type Summary:")
		fmt.Println("============================")

		var total uint64
		for _, c := range counts {
			fmt.Printf("%-20s (0x%02x): %s keys\n", c.Name, c.Prefix, humanize.Comma(int64(c.Count)))
			total += c.Count
		}
		fmt.Printf("%-27s: %s keys\n", "TOTAL", humanize.Comma(int64(total)))
		return nil
	},
}

var epochsCmd = &cobra.Command{
	Use:   "epochs",
	Short: "Fold a heights JSON into per-epoch totals written as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := epochsIn
		if in == "" {
			in = config.OutputPath
		}
		out := epochsOut
		if out == "" {
			out = filepath.Join(config.BaseDirectory, "utxo_by_epoch.csv")
		}

		entries, err := dataexport.ReadHeights(in)
		if err != nil {
			return err
		}
		totals := aggregate.RollupEpochs(entries)
		if err = dataexport.ExportEpochs(out, totals); err != nil {
			return fmt.Errorf("write epochs: %w", err)
		}
		logging.L.Info().Str("path", out).Int("epochs", len(totals)).Msg("epochs written")
		return nil
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Copy the coin records of the chainstate into a pebble store",
	Long: `archive copies the obfuscation key and every raw coin record into a pebble
store. The archive can be scanned later with --backend pebble --chainstate <dest>.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSource()
		if err != nil {
			return err
		}
		defer store.Close()

		dest, err := kvstore.OpenPebble(config.ResolvePath(archiveDest), false)
		if err != nil {
			return err
		}

		n, err := scan.Archive(store, dest)
		if cerr := dest.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		logging.L.Info().Str("path", archiveDest).Str("records", humanize.Comma(int64(n))).Msg("archive written")
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two heights JSON files height by height",
	Long: `compare reports every height where two aggregate outputs disagree, for
example a run over the live chainstate against a run over its pebble archive.
It fails when any height differs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := dataexport.ReadHeights(config.ResolvePath(compareA))
		if err != nil {
			return err
		}
		b, err := dataexport.ReadHeights(config.ResolvePath(compareB))
		if err != nil {
			return err
		}

		mismatches := aggregate.Compare(a, b)
		for _, m := range mismatches {
			logging.L.Warn().
				Uint32("height", m.Height).
				Bool("in_a", m.InA).
				Bool("in_b", m.InB).
				Uint64("a_amount", m.A.Amount).
				Uint64("b_amount", m.B.Amount).
				Uint64("a_n", m.A.N).
				Uint64("b_n", m.B.N).
				Msg("height mismatch")
		}
		if len(mismatches) > 0 {
			return fmt.Errorf("%d of %d heights differ", len(mismatches), max(len(a), len(b)))
		}
		logging.L.Info().Int("heights", len(a)).Msg("outputs match")
		return nil
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Copy the chainstate into the snapshot directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.SnapshotDir == "" {
			return fmt.Errorf("snapshot_dir is not configured")
		}
		copied, err := snapshot.Copy(config.ChainstatePath, config.SnapshotDir, config.RefreshSnapshot)
		if err != nil {
			return err
		}
		if !copied {
			fmt.Printf("Snapshot at %s is up to date, use --refresh to replace it\n", config.SnapshotDir)
		}
		return nil
	},
}
