package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/setavenger/utxo-aggregator/internal/aggregate"
	"github.com/setavenger/utxo-aggregator/internal/kvstore"
	"github.com/setavenger/utxo-aggregator/internal/logging"
	"github.com/setavenger/utxo-aggregator/internal/scan"
)

// LoadConfigs reads the config file (optional), environment and any flags
// already bound to viper, then populates the package variables.
func LoadConfigs(pathToConfig string) error {
	if pathToConfig != "" {
		viper.SetConfigFile(pathToConfig)
		if err := viper.ReadInConfig(); err != nil {
			logging.L.Warn().Err(err).Msg("No config file detected")
		}
	}

	/* set defaults */
	viper.SetDefault("chain", "main")
	viper.SetDefault("bitcoin_datadir", DefaultBitcoinDir)
	viper.SetDefault("backend", string(kvstore.BackendLevelDB))
	viper.SetDefault("epoch_ceiling", aggregate.DefaultEpochCeiling)
	viper.SetDefault("progress_interval", scan.DefaultProgressInterval)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_path", "")

	// Bind viper keys to environment variables
	viper.AutomaticEnv()
	viper.BindEnv("chain", "CHAIN")
	viper.BindEnv("bitcoin_datadir", "BITCOIN_DATADIR")
	viper.BindEnv("chainstate_path", "CHAINSTATE_PATH")
	viper.BindEnv("backend", "BACKEND")
	viper.BindEnv("snapshot_dir", "SNAPSHOT_DIR")
	viper.BindEnv("output_path", "OUTPUT_PATH")
	viper.BindEnv("epoch_width", "EPOCH_WIDTH")
	viper.BindEnv("epoch_ceiling", "EPOCH_CEILING")
	viper.BindEnv("progress_interval", "PROGRESS_INTERVAL")
	viper.BindEnv("pushgateway_url", "PUSHGATEWAY_URL")
	viper.BindEnv("log_level", "LOG_LEVEL")
	viper.BindEnv("log_path", "LOG_PATH")

	/* read and set config variables */
	// General
	LogLevel = viper.GetString("log_level")
	if p := viper.GetString("log_path"); p != "" {
		LogsPath = ResolvePath(p)
	}

	// Source
	BitcoinDataDir = viper.GetString("bitcoin_datadir")
	ChainstatePath = viper.GetString("chainstate_path")
	Backend = kvstore.Backend(viper.GetString("backend"))
	SnapshotDir = viper.GetString("snapshot_dir")
	OutputPath = viper.GetString("output_path")

	// Epochs
	EpochWidth = viper.GetUint32("epoch_width")
	EpochCeiling = viper.GetUint32("epoch_ceiling")
	ProgressInterval = viper.GetUint64("progress_interval")

	PushgatewayURL = viper.GetString("pushgateway_url")

	chainInput := viper.GetString("chain")
	Chain = ParseChain(chainInput)
	if Chain == Unknown {
		return fmt.Errorf("chain undefined: %q", chainInput)
	}

	switch Backend {
	case kvstore.BackendLevelDB, kvstore.BackendPebble:
	default:
		return fmt.Errorf("backend undefined: %q", Backend)
	}

	logging.SetLogLevel(logging.ParseLevel(LogLevel))

	logging.L.Debug().Msgf("chain: %s", ChainParams(Chain).Name)
	logging.L.Debug().Msgf("backend: %s", Backend)
	logging.L.Debug().Msgf("epoch_width: %d", EpochWidth)
	logging.L.Debug().Msgf("epoch_ceiling: %d", EpochCeiling)

	return nil
}
