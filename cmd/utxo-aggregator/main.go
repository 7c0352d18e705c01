package main

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/setavenger/utxo-aggregator/internal/config"
	"github.com/setavenger/utxo-aggregator/internal/logging"
)

var (
	Version = "0.0.0" // todo: set through ldflags in the release build

	// Global flags
	datadir    string
	configFile string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(
		&datadir,
		"datadir",
		config.DefaultBaseDirectory,
		"Set the base directory for the aggregator. Default directory is ~/.utxo-aggregator",
	)
	flags.StringVar(
		&configFile,
		"config",
		"",
		"Path to config file (default: datadir/utxo-aggregator.toml)",
	)
	flags.String("chainstate", "", "Path to the chainstate directory (default: bitcoin datadir/<chain>/chainstate)")
	flags.String("backend", "", "Store backend of the chainstate: leveldb or pebble")
	flags.String("chain", "", "Network of the chainstate: main, test, signet or regtest")
	flags.String("snapshot-dir", "", "Copy the chainstate here first and scan the copy")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")

	// only explicitly set flags override file and env values
	viper.BindPFlag("chainstate_path", flags.Lookup("chainstate"))
	viper.BindPFlag("backend", flags.Lookup("backend"))
	viper.BindPFlag("chain", flags.Lookup("chain"))
	viper.BindPFlag("snapshot_dir", flags.Lookup("snapshot-dir"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))

	initCommands()
}

var rootCmd = &cobra.Command{
	Use:   "utxo-aggregator",
	Short: "Aggregate the Bitcoin Core UTXO set by block height",
	Long: `utxo-aggregator reads a Bitcoin Core chainstate database, decodes every
unspent output and reports the amount and count of coins per creation height.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.BaseDirectory = datadir

		if configFile == "" {
			configFile = path.Join(config.ResolvePath(datadir), config.ConfigFileName)
		}
		if err := config.LoadConfigs(configFile); err != nil {
			return err
		}
		config.SetDirectories()

		if config.LogsPath != "" {
			if err := logging.SetLogOutput(config.LogsPath, "utxo-aggregator.log"); err != nil {
				return err
			}
		}

		logging.L.Debug().Msgf("base directory %s", config.BaseDirectory)
		logging.L.Debug().Msgf("chainstate %s", config.ChainstatePath)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
