package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"

	"github.com/setavenger/utxo-aggregator/internal/aggregate"
	"github.com/setavenger/utxo-aggregator/internal/kvstore"
	"github.com/setavenger/utxo-aggregator/internal/scan"
)

var (
	LogLevel = "info"
)

const (
	ConfigFileName       string = "utxo-aggregator.toml"
	DefaultBaseDirectory string = "~/.utxo-aggregator"
	DefaultBitcoinDir    string = "~/.bitcoin"
	DefaultOutputName    string = "utxo_by_height.json"
)

var (
	BaseDirectory = ""
	// LogsPath enables file logging when set
	LogsPath = ""

	// BitcoinDataDir is the node's datadir; the chainstate is derived from it
	// unless ChainstatePath is set.
	BitcoinDataDir = DefaultBitcoinDir
	ChainstatePath = ""
	Backend        = kvstore.BackendLevelDB

	// SnapshotDir, when set, receives a stale copy of the chainstate which is
	// then scanned instead of the original.
	SnapshotDir     = ""
	RefreshSnapshot = false

	OutputPath = ""

	PushgatewayURL = ""
)

type chain int

const (
	Unknown chain = iota
	Mainnet
	Signet
	Regtest
	Testnet3
)

// control vars
var (
	Chain = Mainnet

	// EpochWidth 0 means: take the retarget interval of the chain params
	EpochWidth       uint32 = 0
	EpochCeiling     uint32 = aggregate.DefaultEpochCeiling
	ProgressInterval uint64 = scan.DefaultProgressInterval
)

func ChainParams(c chain) *chaincfg.Params {
	switch c {
	case Signet:
		return &chaincfg.SigNetParams
	case Regtest:
		return &chaincfg.RegressionNetParams
	case Testnet3:
		return &chaincfg.TestNet3Params
	default:
		return &chaincfg.MainNetParams
	}
}

func ParseChain(name string) chain {
	switch name {
	case "main", "mainnet":
		return Mainnet
	case "signet":
		return Signet
	case "regtest":
		return Regtest
	case "test", "testnet", "testnet3":
		return Testnet3
	default:
		return Unknown
	}
}

// chainSubdir is the directory Bitcoin Core keeps a network's data in.
func chainSubdir(c chain) string {
	if c == Mainnet {
		return ""
	}
	return ChainParams(c).Name
}

// Binning returns the epoch grid for the configured chain.
func Binning() aggregate.Binning {
	width := EpochWidth
	if width == 0 {
		width = aggregate.RetargetInterval(ChainParams(Chain))
	}
	return aggregate.Binning{Width: width, Ceiling: EpochCeiling}
}

// SourcePath is the directory the scan reads from.
func SourcePath() string {
	if SnapshotDir != "" {
		return SnapshotDir
	}
	return ChainstatePath
}

func SetDirectories() {
	BaseDirectory = ResolvePath(BaseDirectory)

	if ChainstatePath == "" {
		ChainstatePath = filepath.Join(ResolvePath(BitcoinDataDir), chainSubdir(Chain), "chainstate")
	}
	ChainstatePath = ResolvePath(ChainstatePath)

	if SnapshotDir != "" {
		SnapshotDir = ResolvePath(SnapshotDir)
	}
	if OutputPath == "" {
		OutputPath = filepath.Join(BaseDirectory, DefaultOutputName)
	}
	OutputPath = ResolvePath(OutputPath)
}

// ResolvePath expands a leading ~ to the user's home directory.
func ResolvePath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
